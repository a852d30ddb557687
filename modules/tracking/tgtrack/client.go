// Package tgtrack mirrors inbound bot updates to the TGTrack
// attribution service. Every update passes through a pure classifier;
// the matching ones are reshaped into the Telegram webhook format and
// forwarded with best-effort, fire-and-forget semantics. Failures end
// in a log line, never in the bot's own response path.
package tgtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 1 << 20

// Client talks to the TGTrack Bot API. The API key is part of the
// request path; there is no other authentication.
type Client struct {
	enabled bool
	baseURL string // includes the API key segment
	timeout time.Duration
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient creates a TGTrack client from the given configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		enabled: cfg.Enabled,
		baseURL: fmt.Sprintf("%s/%s", cfg.BaseURL, cfg.APIKey),
		timeout: cfg.Timeout,
		http:    &http.Client{},
		tracer:  otel.Tracer("tgtrack"),
	}
}

// apiResponse is the provider's response envelope. A zero error code
// signals success regardless of anything else in the body.
type apiResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// reachGoalRequest is the body for the send_reach_goal endpoint.
// user_id is stringified, matching what the provider expects.
type reachGoalRequest struct {
	UserID string `json:"user_id"`
	Target string `json:"target"`
}

// ForwardUpdate posts a webhook-shaped update payload to the provider's
// interception endpoint. Single attempt, bounded by the configured
// timeout; the caller decides what to do with the error (the dispatch
// hook logs and drops it).
func (c *Client) ForwardUpdate(ctx context.Context, payload map[string]any) error {
	return c.post(ctx, "on_telegram_webhook", payload)
}

// SendReachGoal reports a named milestone for a user. Same single
// attempt, same failure policy as ForwardUpdate.
func (c *Client) SendReachGoal(ctx context.Context, userID int64, target string) error {
	return c.post(ctx, "send_reach_goal", reachGoalRequest{
		UserID: strconv.FormatInt(userID, 10),
		Target: target,
	})
}

// post sends one JSON request and interprets the provider's success
// convention: HTTP 200 with body error.code == 0.
func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	if !c.enabled {
		return ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "tgtrack."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("tgtrack.endpoint", endpoint)),
	)
	defer span.End()

	err := c.send(ctx, endpoint, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) send(ctx context.Context, endpoint string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tgtrack: marshal %s request: %w", endpoint, err)
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("tgtrack: create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %s", ErrTimeout, endpoint, c.timeout)
		}
		// Wrap without the URL: the key-bearing path must not leak
		// into logs.
		return fmt.Errorf("tgtrack: %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{HTTPStatus: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("tgtrack: read %s response: %w", endpoint, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("tgtrack: decode %s response: %w", endpoint, err)
	}

	if parsed.Error.Code != 0 {
		return &StatusError{
			HTTPStatus: resp.StatusCode,
			Code:       parsed.Error.Code,
			Message:    parsed.Error.Message,
		}
	}

	return nil
}
