// Package update defines the platform-agnostic representation of one
// inbound bot event. Channel modules convert their native wire format
// into this shape; everything downstream (dispatch, handlers, tracking)
// consumes only this package.
package update

import (
	"encoding/json"
	"time"
)

// Kind identifies what sort of event an Update carries.
type Kind string

const (
	// KindMessage is a regular chat message, possibly a command.
	KindMessage Kind = "message"

	// KindMembership is a change of the bot's own membership status in
	// a chat (the user blocked/unblocked the bot, the bot was kicked).
	KindMembership Kind = "membership"
)

// Membership status values, mirroring the Telegram chat member states.
const (
	StatusMember = "member"
	StatusKicked = "kicked"
	StatusLeft   = "left"
)

// Update is one inbound event delivered by the bot transport.
type Update struct {
	// ID is the transport-assigned update identifier.
	ID int

	Kind      Kind
	Timestamp time.Time

	// Sender identifies who triggered the event. Note that the wire
	// format calls this field "from"; the internal name deliberately
	// differs so serialization back to the wire shape goes through an
	// explicit adapter.
	Sender Sender

	Chat Chat

	// Text is the full message text for KindMessage updates.
	Text string

	// Command is the parsed command name without the leading slash
	// ("start" for "/start abc"), empty for non-command messages.
	Command string

	// CommandArgs is everything after the command name, trimmed.
	CommandArgs string

	// MessageID is the transport message identifier for KindMessage.
	MessageID int

	// Contact is set when the message carries a shared contact.
	Contact *Contact

	// Membership is set for KindMembership updates.
	Membership *Membership

	// Raw is the original wire-format update JSON, preserved verbatim
	// so adapters can pass through fields the internal model drops.
	Raw json.RawMessage
}

// Sender identifies the user who produced an update.
type Sender struct {
	ID        int64
	IsBot     bool
	FirstName string
	LastName  string
	Username  string
}

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID       int64
	Type     string
	Title    string
	Username string
}

// Contact is a phone contact shared in a message.
type Contact struct {
	PhoneNumber string
	FirstName   string
	UserID      int64
}

// Membership describes a transition of the bot's own chat member
// status.
type Membership struct {
	OldStatus string
	NewStatus string
}

// IsCommand reports whether the update is the given bot command.
func (u *Update) IsCommand(name string) bool {
	return u.Kind == KindMessage && u.Command == name
}

// Blocked reports whether a membership update represents the bot
// transitioning into a blocked or kicked state.
func (m *Membership) Blocked() bool {
	if m == nil {
		return false
	}
	entering := m.NewStatus == StatusKicked || m.NewStatus == StatusLeft
	leaving := m.OldStatus == StatusKicked || m.OldStatus == StatusLeft
	return entering && !leaving
}
