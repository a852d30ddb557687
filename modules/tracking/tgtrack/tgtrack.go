package tgtrack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kbrejes/unifyhubbot/internal/core"
	"github.com/kbrejes/unifyhubbot/internal/dispatch"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module wires the tracking pipeline into the application lifecycle.
// When tracking is disabled the module still loads (so the config is
// validated and the service is discoverable) but registers no hook,
// leaving zero per-update cost.
type Module struct {
	config  Config
	logger  *slog.Logger
	appCtx  *core.AppContext
	tracker *Tracker

	// registerer defaults to the global one; tests supply a private
	// registry.
	registerer prometheus.Registerer
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "tracking.tgtrack",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("tgtrack: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner. Configure only runs when a
// YAML stanza exists, so defaults are applied again here: that is what
// lets TGTRACK_ENABLED and TGTRACK_API_KEY switch the module on with
// no config file entry at all. The call is idempotent.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.appCtx = ctx
	m.logger = ctx.Logger

	reg := m.registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	client := NewClient(m.config)
	metrics := NewMetrics(reg)
	m.tracker = NewTracker(client, m.logger, metrics)

	ctx.RegisterService("tracking.tgtrack", m.tracker)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Start implements core.Starter. It registers the dispatch hook — but
// only when tracking is enabled, so a disabled integration costs
// nothing at runtime.
func (m *Module) Start() error {
	if !m.config.Enabled {
		m.logger.Info("tgtrack tracking disabled, hook not registered")
		return nil
	}

	svc, ok := m.appCtx.GetService("dispatch.pipeline")
	if !ok {
		return errors.New("tgtrack: dispatch.pipeline service not found")
	}
	pipeline, ok := svc.(*dispatch.Pipeline)
	if !ok {
		return errors.New("tgtrack: dispatch.pipeline is not a *dispatch.Pipeline")
	}

	pipeline.Register(NewHook(m.tracker))
	m.logger.Info("tgtrack tracking enabled",
		"base_url", m.config.BaseURL,
		"timeout", m.config.Timeout,
	)
	return nil
}

// Stop implements core.Stopper. In-flight forwards get a short grace
// period; whatever does not finish is abandoned, per the best-effort
// contract.
func (m *Module) Stop(ctx context.Context) error {
	if err := m.tracker.Wait(ctx); err != nil {
		m.logger.Debug("tgtrack: abandoned in-flight forwards on shutdown")
	}
	return nil
}
