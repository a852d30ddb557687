package telegram

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// convertInbound transforms a Telegram Update into the platform-
// agnostic update.Update consumed by the dispatcher. The wire bytes
// captured by GetUpdates carry over into Raw untouched, so downstream
// adapters see every field the provider sent, modeled here or not.
func convertInbound(upd *Update, botUsername string) (*update.Update, error) {
	raw := upd.Raw
	if raw == nil {
		// Updates built in code have no wire bytes; serialize what we
		// have.
		var err error
		raw, err = json.Marshal(upd)
		if err != nil {
			return nil, fmt.Errorf("telegram: marshal update: %w", err)
		}
	}

	switch {
	case upd.Message != nil:
		return convertMessage(upd, upd.Message, botUsername, raw), nil
	case upd.EditedMessage != nil:
		return convertMessage(upd, upd.EditedMessage, botUsername, raw), nil
	case upd.MyChatMember != nil:
		return convertMembership(upd, raw), nil
	default:
		return nil, fmt.Errorf("telegram: update %d contains no supported payload", upd.UpdateID)
	}
}

func convertMessage(upd *Update, msg *Message, botUsername string, raw json.RawMessage) *update.Update {
	out := &update.Update{
		ID:        upd.UpdateID,
		Kind:      update.KindMessage,
		Timestamp: time.Unix(int64(msg.Date), 0),
		Sender:    convertSender(msg.From),
		Chat:      convertChat(msg.Chat),
		Text:      msg.Text,
		MessageID: msg.MessageID,
		Raw:       raw,
	}

	out.Command, out.CommandArgs = parseCommand(msg, botUsername)

	if msg.Contact != nil {
		out.Contact = &update.Contact{
			PhoneNumber: msg.Contact.PhoneNumber,
			FirstName:   msg.Contact.FirstName,
			UserID:      msg.Contact.UserID,
		}
	}

	return out
}

func convertMembership(upd *Update, raw json.RawMessage) *update.Update {
	mc := upd.MyChatMember
	return &update.Update{
		ID:        upd.UpdateID,
		Kind:      update.KindMembership,
		Timestamp: time.Unix(int64(mc.Date), 0),
		Sender:    convertSender(&mc.From),
		Chat:      convertChat(mc.Chat),
		Membership: &update.Membership{
			OldStatus: mc.OldChatMember.Status,
			NewStatus: mc.NewChatMember.Status,
		},
		Raw: raw,
	}
}

// convertSender maps a Telegram User to the internal Sender.
func convertSender(user *User) update.Sender {
	if user == nil {
		return update.Sender{}
	}
	return update.Sender{
		ID:        user.ID,
		IsBot:     user.IsBot,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}

// convertChat maps a Telegram Chat to the internal Chat.
func convertChat(chat Chat) update.Chat {
	return update.Chat{
		ID:       chat.ID,
		Type:     chat.Type,
		Title:    chat.Title,
		Username: chat.Username,
	}
}

// parseCommand extracts a bot command from a message. Only commands at
// the very start of the text count, matching how Telegram clients mark
// bot_command entities. A "@botname" suffix addressed to another bot
// makes the message a plain message, not a command.
func parseCommand(msg *Message, botUsername string) (name, args string) {
	text := msg.Text
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	// Prefer the entity boundary when the client provided one.
	cmdEnd := len(text)
	if i := strings.IndexAny(text, " \n"); i != -1 {
		cmdEnd = i
	}
	for _, ent := range msg.Entities {
		if ent.Type == "bot_command" && ent.Offset == 0 {
			if ent.Length <= len(text) {
				cmdEnd = ent.Length
			}
			break
		}
	}

	cmd := text[1:cmdEnd]
	args = strings.TrimSpace(text[cmdEnd:])

	if at := strings.IndexByte(cmd, '@'); at != -1 {
		mention := cmd[at+1:]
		cmd = cmd[:at]
		if botUsername != "" && !strings.EqualFold(mention, botUsername) {
			return "", ""
		}
	}

	return strings.ToLower(cmd), args
}
