package tgtrack

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// Tracker is the fire-and-forget surface of the tracking pipeline.
// Every operation schedules one background goroutine per event, shares
// no mutable state between them, and reports outcomes only through
// logs and metrics. Callers never wait and never see an error.
type Tracker struct {
	client  *Client
	logger  *slog.Logger
	metrics *Metrics

	// wg tracks in-flight forwards so shutdown can wait briefly for
	// them; abandoning the remainder is acceptable.
	wg sync.WaitGroup
}

// NewTracker creates a Tracker around the given client.
func NewTracker(client *Client, logger *slog.Logger, metrics *Metrics) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Forward schedules the adaptation and delivery of one trackable event
// and returns immediately. The spawned work is bounded by the client's
// per-request timeout.
func (t *Tracker) Forward(ev TrackableEvent, upd *update.Update) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.forward(ev, upd)
	}()
}

func (t *Tracker) forward(ev TrackableEvent, upd *update.Update) {
	payload, err := webhookPayload(ev, upd)
	if err != nil {
		t.logger.Warn("tgtrack: dropping event with malformed update",
			"update_id", upd.ID,
			"kind", string(ev.Kind),
			"error", err,
		)
		t.metrics.failures.WithLabelValues("adapter").Inc()
		return
	}

	timer := t.metrics.observeForward()
	err = t.client.ForwardUpdate(context.Background(), payload)
	timer()

	if err != nil {
		t.logger.Warn("tgtrack: forward failed",
			"update_id", upd.ID,
			"kind", string(ev.Kind),
			"user_id", ev.UserID,
			"error", err,
		)
		t.metrics.failures.WithLabelValues(failureReason(err)).Inc()
		return
	}

	t.logger.Debug("tgtrack: update forwarded",
		"update_id", upd.ID,
		"kind", string(ev.Kind),
		"user_id", ev.UserID,
		"start_param", ev.StartParam,
	)
	t.metrics.forwarded.WithLabelValues(string(ev.Kind)).Inc()
}

// ReachGoal reports a named milestone for a user and returns
// immediately. Available to any command handler via the service
// registry.
func (t *Tracker) ReachGoal(userID int64, target string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		if err := t.client.SendReachGoal(context.Background(), userID, target); err != nil {
			t.logger.Warn("tgtrack: reach goal failed",
				"user_id", userID,
				"target", target,
				"error", err,
			)
			t.metrics.failures.WithLabelValues(failureReason(err)).Inc()
			return
		}

		t.logger.Debug("tgtrack: reach goal sent",
			"user_id", userID,
			"target", target,
		)
		t.metrics.reachGoals.Inc()
	}()
}

// Wait blocks until in-flight work finishes or the context expires.
func (t *Tracker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
