package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime  float64         `json:"uptime_seconds"`
	Bot     *BotStatus      `json:"bot,omitempty"`
	Metrics MetricsSnapshot `json:"metrics"`
}

// BotStatus describes the authenticated bot account.
type BotStatus struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Uptime:  time.Since(g.startedAt).Seconds(),
			Metrics: g.metrics.Snapshot(),
		}
		if g.bot != nil {
			resp.Bot = &BotStatus{ID: g.bot.ID, Username: g.bot.Username}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
