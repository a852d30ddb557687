package tgtrack

import (
	"context"

	"github.com/kbrejes/unifyhubbot/internal/dispatch"
	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// hookPriority runs the tracking hook before other integrations so the
// classifier sees updates exactly as they arrived.
const hookPriority = 10

// Hook intercepts every update ahead of handler dispatch, classifies
// it, and schedules forwarding for the events that matter. It never
// blocks, drops, or fails the dispatch chain; the hook itself is
// stateless across updates.
type Hook struct {
	tracker *Tracker
}

// NewHook creates the dispatch hook for the given tracker.
func NewHook(tracker *Tracker) *Hook {
	return &Hook{tracker: tracker}
}

// Position implements dispatch.Hook.
func (h *Hook) Position() dispatch.Position { return dispatch.BeforeHandle }

// Priority implements dispatch.Hook.
func (h *Hook) Priority() int { return hookPriority }

// Execute implements dispatch.Hook. Classification is synchronous and
// cheap; everything network-bound happens in a spawned goroutine whose
// outcome is observed only through logs and metrics.
func (h *Hook) Execute(_ context.Context, upd *update.Update) (dispatch.Action, error) {
	ev, ok := Classify(upd)
	if !ok {
		return dispatch.ActionContinue, nil
	}

	h.tracker.Forward(ev, upd)
	return dispatch.ActionContinue, nil
}
