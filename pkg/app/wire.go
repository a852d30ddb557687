package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kbrejes/unifyhubbot/internal/core"
	"github.com/kbrejes/unifyhubbot/internal/dispatch"
	"github.com/kbrejes/unifyhubbot/internal/gateway"
	"github.com/kbrejes/unifyhubbot/internal/handlers"
	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// inboxSetter is implemented by channel modules that deliver converted
// inbound updates.
type inboxSetter interface {
	SetInbox(fn func(*update.Update) error)
}

// wireBot connects the channel to the dispatcher and registers the
// command handlers. Must be called after LoadModules and before Start.
func wireBot(
	app *core.App,
	appCtx *core.AppContext,
	pipeline *dispatch.Pipeline,
	logger *slog.Logger,
) error {
	mod, ok := app.Module("channel.telegram")
	if !ok {
		return fmt.Errorf("wire: channel.telegram module is required")
	}
	channel, ok := mod.(inboxSetter)
	if !ok {
		return fmt.Errorf("wire: channel.telegram does not accept an inbox")
	}

	svc, ok := appCtx.GetService("telegram.api")
	if !ok {
		return fmt.Errorf("wire: telegram.api service not found")
	}
	messenger, ok := svc.(handlers.Messenger)
	if !ok {
		return fmt.Errorf("wire: telegram.api service has the wrong type")
	}

	// Optional — commands work without tracking.
	var tracker handlers.Tracker
	if svc, ok := appCtx.GetService("tracking.tgtrack"); ok {
		tracker, _ = svc.(handlers.Tracker)
	}

	// Optional — traffic counters for the status endpoint.
	var metrics *gateway.Metrics
	if svc, ok := appCtx.GetService("gateway.metrics"); ok {
		metrics, _ = svc.(*gateway.Metrics)
	}

	h := handlers.New(messenger, tracker, logger)
	dispatcher := dispatch.NewDispatcher(pipeline, logger)

	for name, fn := range map[string]dispatch.HandlerFunc{
		"start":  h.Start,
		"help":   h.Help,
		"source": h.Source,
	} {
		if err := dispatcher.HandleCommand(name, fn); err != nil {
			return fmt.Errorf("wire: %w", err)
		}
	}
	dispatcher.HandleMessage(h.Message)
	dispatcher.HandleMembership(func(_ context.Context, upd *update.Update) error {
		// The tracking hook already saw the transition; dispatch only
		// records it.
		if upd.Membership != nil {
			logger.Info("bot membership changed",
				"chat_id", upd.Chat.ID,
				"old", upd.Membership.OldStatus,
				"new", upd.Membership.NewStatus,
			)
		}
		return nil
	})

	channel.SetInbox(func(upd *update.Update) error {
		if metrics != nil {
			metrics.RecordUpdate()
			if upd.Command != "" {
				metrics.RecordCommand()
			}
		}
		if err := dispatcher.Dispatch(context.Background(), upd); err != nil {
			if metrics != nil {
				metrics.RecordError()
			}
			return err
		}
		return nil
	})

	logger.Info("dispatcher wired", "channel", "channel.telegram")
	return nil
}
