package tgtrack

import (
	"encoding/json"
	"fmt"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

// webhookPayload reshapes a trackable update into the body a Telegram
// webhook receiver would have gotten from Telegram directly, which is
// the shape the TGTrack endpoint is contracted to accept.
//
// The internal model names the sender "Sender"; the wire format calls
// it "from". The adapter rebuilds "from" explicitly from the internal
// sender identity and passes every other raw field through unmodified,
// so provider-side schema additions survive without code changes here.
func webhookPayload(ev TrackableEvent, upd *update.Update) (map[string]any, error) {
	body := make(map[string]any)
	if len(upd.Raw) > 0 {
		if err := json.Unmarshal(upd.Raw, &body); err != nil {
			return nil, fmt.Errorf("tgtrack: malformed raw update %d: %w", upd.ID, err)
		}
	}

	// Some transports serialize the internal field names; normalize
	// them to the wire format before filling in the sender.
	normalizeSenderKeys(body)

	body["update_id"] = upd.ID

	container := "message"
	if ev.Kind == EventBlock {
		container = "my_chat_member"
	}

	obj, _ := body[container].(map[string]any)
	if obj == nil {
		obj = make(map[string]any)
	}

	obj["from"] = senderObject(upd.Sender)
	if _, ok := obj["chat"]; !ok {
		obj["chat"] = chatObject(upd.Chat)
	}
	if ev.Kind == EventStart {
		if _, ok := obj["text"]; !ok && upd.Text != "" {
			obj["text"] = upd.Text
		}
	}

	body[container] = obj
	return body, nil
}

// senderObject renders the internal sender identity in wire format.
// Optional fields are omitted when empty, matching how Telegram
// serializes User objects.
func senderObject(s update.Sender) map[string]any {
	obj := map[string]any{
		"id":         s.ID,
		"is_bot":     s.IsBot,
		"first_name": s.FirstName,
	}
	if s.LastName != "" {
		obj["last_name"] = s.LastName
	}
	if s.Username != "" {
		obj["username"] = s.Username
	}
	return obj
}

func chatObject(c update.Chat) map[string]any {
	obj := map[string]any{
		"id":   c.ID,
		"type": c.Type,
	}
	if c.Title != "" {
		obj["title"] = c.Title
	}
	if c.Username != "" {
		obj["username"] = c.Username
	}
	return obj
}

// internalSenderKeys are field names used by bot frameworks for the
// message sender that must never leak into the webhook shape.
var internalSenderKeys = []string{"from_user", "sender"}

// normalizeSenderKeys recursively renames internal sender field names
// to the wire-format "from", in place.
func normalizeSenderKeys(obj map[string]any) {
	for _, key := range internalSenderKeys {
		if v, ok := obj[key]; ok {
			delete(obj, key)
			obj["from"] = v
		}
	}
	for _, v := range obj {
		switch child := v.(type) {
		case map[string]any:
			normalizeSenderKeys(child)
		case []any:
			for _, item := range child {
				if m, ok := item.(map[string]any); ok {
					normalizeSenderKeys(m)
				}
			}
		}
	}
}
