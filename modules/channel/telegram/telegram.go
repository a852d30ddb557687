package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kbrejes/unifyhubbot/internal/core"
	"github.com/kbrejes/unifyhubbot/pkg/update"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Telegram{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Telegram)(nil)
	_ core.Provisioner  = (*Telegram)(nil)
	_ core.Validator    = (*Telegram)(nil)
	_ core.Starter      = (*Telegram)(nil)
	_ core.Stopper      = (*Telegram)(nil)
)

// commandMenu is published to Telegram on startup so clients show the
// command list.
var commandMenu = []BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "help", Description: "How to reach support"},
	{Command: "source", Description: "Where this bot comes from"},
}

// Telegram implements the Telegram Bot API channel.
type Telegram struct {
	config  Config
	client  *Client
	logger  *slog.Logger
	inbox   func(*update.Update) error
	botUser *User
	appCtx  *core.AppContext

	poller *Poller
}

// ModuleInfo implements core.Module.
func (t *Telegram) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "channel.telegram",
		New: func() core.Module { return &Telegram{} },
	}
}

// Configure implements core.Configurable.
func (t *Telegram) Configure(node *yaml.Node) error {
	if err := node.Decode(&t.config); err != nil {
		return fmt.Errorf("telegram: decode config: %w", err)
	}
	t.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (t *Telegram) Provision(ctx *core.AppContext) error {
	t.appCtx = ctx
	t.logger = ctx.Logger
	t.client = NewClient(t.config.Token, t.config.APIURL)

	// Expose a bound messaging surface for command handlers.
	ctx.RegisterService("telegram.api", &API{client: t.client})
	return nil
}

// Validate implements core.Validator.
func (t *Telegram) Validate() error {
	if t.config.Token == "" {
		return errors.New("telegram: token is required (set token or TELEGRAM_BOT_TOKEN)")
	}
	return t.config.validate()
}

// SetInbox sets the delivery function for converted inbound updates.
// Must be called before Start.
func (t *Telegram) SetInbox(fn func(*update.Update) error) {
	t.inbox = fn
}

// Start implements core.Starter. It validates the bot token, publishes
// the command menu, and starts long polling.
func (t *Telegram) Start() error {
	if t.inbox == nil {
		return errors.New("telegram: inbox not set, call SetInbox before Start")
	}

	user, err := t.client.GetMe(context.Background())
	if err != nil {
		return fmt.Errorf("telegram: getMe failed (check token): %w", err)
	}
	t.botUser = user
	t.logger.Info("telegram bot authenticated",
		"id", user.ID,
		"username", user.Username,
	)
	t.appCtx.RegisterService("telegram.bot_info", &BotInfo{
		ID:       user.ID,
		Username: user.Username,
	})

	if err := t.client.SetMyCommands(context.Background(), commandMenu); err != nil {
		t.logger.Warn("telegram: setMyCommands failed", "error", err)
	}

	t.poller = NewPoller(t.client, t.inbox, t.logger, user.Username, t.config)
	t.poller.Start()
	t.logger.Info("telegram polling started",
		"timeout", t.config.PollingTimeout,
		"allowed_updates", t.config.AllowedUpdates,
	)

	return nil
}

// Stop implements core.Stopper.
func (t *Telegram) Stop(_ context.Context) error {
	t.logger.Info("telegram channel stopping")
	if t.poller != nil {
		t.poller.Stop()
	}
	return nil
}

// BotInfo describes the authenticated bot account. Registered as the
// "telegram.bot_info" service once getMe succeeds.
type BotInfo struct {
	ID       int64
	Username string
}

// API is the messaging surface handlers use to talk back to Telegram.
// It wraps the raw client with the few operations handlers need.
type API struct {
	client *Client
}

// SendText sends a plain text message to the given chat.
func (a *API) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := a.client.SendMessage(ctx, SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

// DeleteMessage removes a message from the given chat.
func (a *API) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return a.client.DeleteMessage(ctx, chatID, messageID)
}
