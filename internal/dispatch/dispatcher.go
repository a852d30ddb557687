package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// HandlerFunc processes one inbound update.
type HandlerFunc func(ctx context.Context, upd *update.Update) error

// Dispatcher routes inbound updates: commands to their registered
// handlers, everything else to the optional fallback handlers. The
// hook pipeline runs around every dispatch. The dispatcher itself
// holds no per-update state.
type Dispatcher struct {
	mu         sync.RWMutex
	commands   map[string]HandlerFunc
	message    HandlerFunc // non-command messages
	membership HandlerFunc // bot membership changes

	pipeline *Pipeline
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher with an empty handler table.
func NewDispatcher(pipeline *Pipeline, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		commands: make(map[string]HandlerFunc),
		pipeline: pipeline,
		logger:   logger,
	}
}

// HandleCommand registers a handler for the given command name
// (without the leading slash). Returns an error on duplicates.
func (d *Dispatcher) HandleCommand(name string, h HandlerFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.commands[name]; exists {
		return fmt.Errorf("dispatch: duplicate command handler %q", name)
	}
	d.commands[name] = h
	return nil
}

// HandleMessage registers the handler for non-command messages.
func (d *Dispatcher) HandleMessage(h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.message = h
}

// HandleMembership registers the handler for bot membership changes.
func (d *Dispatcher) HandleMembership(h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.membership = h
}

// Dispatch runs the hook pipeline and routes the update to its handler.
// Hook failures never influence the result; a dropped update returns
// nil. Updates with no matching handler are silently ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, upd *update.Update) error {
	if d.pipeline != nil {
		if d.pipeline.RunBeforeHandle(ctx, upd) == ActionDrop {
			d.logger.Debug("update dropped by hook", "update_id", upd.ID)
			return nil
		}
	}

	err := d.route(ctx, upd)

	if d.pipeline != nil {
		d.pipeline.RunAfterHandle(ctx, upd)
	}
	return err
}

func (d *Dispatcher) route(ctx context.Context, upd *update.Update) error {
	d.mu.RLock()
	var h HandlerFunc
	switch {
	case upd.Kind == update.KindMembership:
		h = d.membership
	case upd.Kind == update.KindMessage && upd.Command != "":
		h = d.commands[upd.Command]
	case upd.Kind == update.KindMessage:
		h = d.message
	}
	d.mu.RUnlock()

	if h == nil {
		d.logger.Debug("no handler for update",
			"update_id", upd.ID,
			"kind", string(upd.Kind),
			"command", upd.Command,
		)
		return nil
	}
	return h(ctx, upd)
}
