// Package handlers implements the bot's private-chat command handlers.
// Handlers talk to Telegram through the Messenger interface and report
// milestones through the Tracker interface, both resolved from the
// service registry at wiring time.
package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// Messenger is the outbound surface handlers need. Satisfied by the
// telegram module's API service.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Tracker reports user milestones. Satisfied by the tracking module's
// service; a no-op implementation is used when tracking is absent.
type Tracker interface {
	ReachGoal(userID int64, target string)
}

// NopTracker ignores all milestones.
type NopTracker struct{}

// ReachGoal implements Tracker.
func (NopTracker) ReachGoal(int64, string) {}

const (
	greetingText = "Hi! This is the support bot. Describe your question in one message and an operator will get back to you."
	helpText     = "Send any message here and it will reach the support team. Share your contact so we can call you back."
	sourceText   = "This bot is built on the open support-bot stack. Source: https://github.com/kbrejes/unifyhubbot"
)

// targetSharedPhone is the milestone reported when a user shares their
// contact.
const targetSharedPhone = "user_shared_phone"

// Handlers bundles the command and message handlers.
type Handlers struct {
	messenger Messenger
	tracker   Tracker
	logger    *slog.Logger
}

// New creates the handler set. A nil tracker degrades to NopTracker.
func New(messenger Messenger, tracker Tracker, logger *slog.Logger) *Handlers {
	if tracker == nil {
		tracker = NopTracker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		messenger: messenger,
		tracker:   tracker,
		logger:    logger,
	}
}

// Start handles /start: greet and remove the command message so the
// chat opens clean.
func (h *Handlers) Start(ctx context.Context, upd *update.Update) error {
	if err := h.messenger.SendText(ctx, upd.Chat.ID, greetingText); err != nil {
		return fmt.Errorf("start: send greeting: %w", err)
	}
	if err := h.messenger.DeleteMessage(ctx, upd.Chat.ID, upd.MessageID); err != nil {
		// Deleting needs admin rights in some chats; the greeting
		// already went out, so log and move on.
		h.logger.Debug("start: delete command message failed",
			"chat_id", upd.Chat.ID,
			"message_id", upd.MessageID,
			"error", err,
		)
	}
	return nil
}

// Help handles /help.
func (h *Handlers) Help(ctx context.Context, upd *update.Update) error {
	return h.messenger.SendText(ctx, upd.Chat.ID, helpText)
}

// Source handles /source: answer, then remove the command message.
func (h *Handlers) Source(ctx context.Context, upd *update.Update) error {
	if err := h.messenger.SendText(ctx, upd.Chat.ID, sourceText); err != nil {
		return fmt.Errorf("source: send: %w", err)
	}
	if err := h.messenger.DeleteMessage(ctx, upd.Chat.ID, upd.MessageID); err != nil {
		h.logger.Debug("source: delete command message failed",
			"chat_id", upd.Chat.ID,
			"error", err,
		)
	}
	return nil
}

// Message handles plain private messages. Shared contacts count as a
// milestone; everything else gets an acknowledgement.
func (h *Handlers) Message(ctx context.Context, upd *update.Update) error {
	if upd.Contact != nil {
		h.tracker.ReachGoal(upd.Sender.ID, targetSharedPhone)
		return h.messenger.SendText(ctx, upd.Chat.ID, "Thanks! We will reach out to you shortly.")
	}
	return h.messenger.SendText(ctx, upd.Chat.ID, "Got it, an operator will reply here soon.")
}
