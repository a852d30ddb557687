// Package dispatch routes inbound updates to command handlers and runs
// the update hook pipeline around them. Hooks intercept every update at
// two positions: before handler dispatch and after it. This enables
// cross-cutting integrations (analytics forwarding, audit logging)
// without touching the handlers themselves.
package dispatch

import (
	"context"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// Position identifies where in the dispatch chain a hook executes.
type Position string

const (
	// BeforeHandle runs before the update reaches its handler.
	// Hooks here can drop updates.
	BeforeHandle Position = "before_handle"

	// AfterHandle runs after the handler returned. Hooks here are
	// fire-and-forget (errors are logged, never propagated).
	AfterHandle Position = "after_handle"
)

// Action signals the dispatcher what to do after a hook executes.
type Action int

const (
	// ActionContinue tells the dispatcher to proceed normally.
	ActionContinue Action = iota

	// ActionDrop tells the dispatcher to stop processing this update.
	// Only valid for BeforeHandle hooks.
	ActionDrop
)

// Hook is the extension point interface for update interception.
// Execute must not block the dispatch chain: long-running work is
// expected to be spun off by the hook itself.
type Hook interface {
	// Position returns where this hook should execute.
	Position() Position

	// Priority determines execution order within a position.
	// Lower values run first.
	Priority() int

	// Execute runs the hook logic. The returned Action tells the
	// dispatcher how to proceed.
	Execute(ctx context.Context, upd *update.Update) (Action, error)
}
