package gateway

import "sync/atomic"

// Metrics tracks gateway-level counters using atomic operations for
// lock-free concurrency. Registered as the "gateway.metrics" service so
// the dispatch wiring can record traffic.
type Metrics struct {
	updates  atomic.Int64
	commands atomic.Int64
	errors   atomic.Int64
}

// RecordUpdate records an inbound update.
func (m *Metrics) RecordUpdate() {
	m.updates.Add(1)
}

// RecordCommand records a dispatched command.
func (m *Metrics) RecordCommand() {
	m.commands.Add(1)
}

// RecordError records a processing error.
func (m *Metrics) RecordError() {
	m.errors.Add(1)
}

// Snapshot returns a consistent point-in-time view of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Updates:  m.updates.Load(),
		Commands: m.commands.Load(),
		Errors:   m.errors.Load(),
	}
}

// MetricsSnapshot is a serializable point-in-time metrics view.
type MetricsSnapshot struct {
	Updates  int64 `json:"updates"`
	Commands int64 `json:"commands"`
	Errors   int64 `json:"errors"`
}
