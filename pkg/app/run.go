// Package app provides the shared entry point for the unifyhubbot
// binary.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/kbrejes/unifyhubbot/internal/config"
	"github.com/kbrejes/unifyhubbot/internal/core"
	"github.com/kbrejes/unifyhubbot/internal/dispatch"
	"github.com/kbrejes/unifyhubbot/internal/telemetry"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, starts all modules, and blocks until a
// shutdown signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))

	if cfg.Telemetry != nil && cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(context.Background(), cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown error", "error", err)
			}
		}()
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint)
	}

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}

	appCtx := core.NewAppContext(logger, dataDir)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)

	// The pipeline must exist before modules start so integrations can
	// register their hooks during Start.
	pipeline := dispatch.NewPipeline(logger)
	appCtx.RegisterService("dispatch.pipeline", pipeline)

	application := core.NewApp(appCtx)
	ids := ensureModule(config.Resolve(cfg), "tracking.tgtrack")
	if err := application.LoadModules(ids); err != nil {
		return err
	}

	// Wire the dispatcher between LoadModules and Start: the channel
	// needs its inbox before polling begins.
	if err := wireBot(application, appCtx, pipeline, logger); err != nil {
		return err
	}

	logger.Info("unifyhubbot starting",
		"version", params.Version,
		"modules", len(ids),
	)
	return application.Run()
}

// ensureModule appends id when the configured set omits it. Tracking
// can be switched on purely through the environment (TGTRACK_ENABLED,
// TGTRACK_API_KEY), so its module always loads; without a stanza and
// with the environment unset it stays inert.
func ensureModule(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/unifyhubbot/unifyhubbot.yaml →
// ~/.config/unifyhubbot/unifyhubbot.yaml → ./unifyhubbot.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "unifyhubbot", "unifyhubbot.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "unifyhubbot", "unifyhubbot.yaml"))
	}

	candidates = append(candidates, "unifyhubbot.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/unifyhubbot if set, otherwise
// ~/.local/share/unifyhubbot per the XDG spec.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "unifyhubbot")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "unifyhubbot")
}
