package tgtrack

import (
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestMetrics registers collectors on a private registry so tests
// do not collide on the default one.
func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func testConfig(baseURL string) Config {
	cfg := Config{
		Enabled: true,
		APIKey:  "TESTKEY",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}
	return cfg
}
