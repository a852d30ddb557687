package dispatch

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// Pipeline manages hook registration and execution. Hooks are grouped
// by position and sorted by (priority, registration order).
// Thread-safe: registrations use a write lock, executions a read lock.
type Pipeline struct {
	mu    sync.RWMutex
	hooks map[Position][]Hook
	// order tracks registration sequence for stable sorting.
	order  map[Hook]int
	seq    int
	logger *slog.Logger
}

// NewPipeline creates a new empty hook pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		hooks:  make(map[Position][]Hook),
		order:  make(map[Hook]int),
		logger: logger,
	}
}

// Register adds a hook to the pipeline. Hooks within the same position
// are sorted by priority (ascending), with registration order as
// tiebreaker.
func (p *Pipeline) Register(h Hook) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos := h.Position()
	p.order[h] = p.seq
	p.seq++

	p.hooks[pos] = append(p.hooks[pos], h)
	slices.SortStableFunc(p.hooks[pos], func(a, b Hook) int {
		if a.Priority() != b.Priority() {
			return a.Priority() - b.Priority()
		}
		return p.order[a] - p.order[b]
	})
}

// Len returns the number of hooks registered at the given position.
func (p *Pipeline) Len(pos Position) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.hooks[pos])
}

// RunBeforeHandle executes all BeforeHandle hooks in order.
// Short-circuits on ActionDrop. Hook errors are logged but never stop
// execution or reach the caller.
func (p *Pipeline) RunBeforeHandle(ctx context.Context, upd *update.Update) Action {
	p.mu.RLock()
	hooks := p.hooks[BeforeHandle]
	p.mu.RUnlock()

	for _, h := range hooks {
		action, err := h.Execute(ctx, upd)
		if err != nil {
			p.logger.Warn("hook: before_handle error",
				"update_id", upd.ID,
				"priority", h.Priority(),
				"error", err,
			)
		}
		if action == ActionDrop {
			return ActionDrop
		}
	}
	return ActionContinue
}

// RunAfterHandle executes all AfterHandle hooks in order.
// Fire-and-forget: errors are logged and discarded.
func (p *Pipeline) RunAfterHandle(ctx context.Context, upd *update.Update) {
	p.mu.RLock()
	hooks := p.hooks[AfterHandle]
	p.mu.RUnlock()

	for _, h := range hooks {
		if _, err := h.Execute(ctx, upd); err != nil {
			p.logger.Warn("hook: after_handle error",
				"update_id", upd.ID,
				"priority", h.Priority(),
				"error", err,
			)
		}
	}
}
