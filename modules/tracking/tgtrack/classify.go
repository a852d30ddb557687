package tgtrack

import "github.com/kbrejes/unifyhubbot/pkg/update"

// EventKind identifies why an update is worth forwarding.
type EventKind string

const (
	// EventStart is a /start command, the attribution entry point.
	EventStart EventKind = "start"

	// EventBlock is the bot's membership transitioning into a blocked
	// or kicked state.
	EventBlock EventKind = "block"
)

// TrackableEvent is the ephemeral classification result for one
// matching update. It is consumed immediately by the forwarding path
// and never persisted.
type TrackableEvent struct {
	Kind   EventKind
	UserID int64
	ChatID int64

	// StartParam is the deep-link parameter of a /start command,
	// verbatim, empty when absent.
	StartParam string
}

// Classify inspects an update and decides whether it matters for
// attribution. Pure function, no side effects; everything that is not
// a /start command or a block transition is ignored at zero downstream
// cost.
func Classify(upd *update.Update) (TrackableEvent, bool) {
	switch {
	case upd.IsCommand("start"):
		return TrackableEvent{
			Kind:       EventStart,
			UserID:     upd.Sender.ID,
			ChatID:     upd.Chat.ID,
			StartParam: upd.CommandArgs,
		}, true

	case upd.Kind == update.KindMembership && upd.Membership.Blocked():
		return TrackableEvent{
			Kind:   EventBlock,
			UserID: upd.Sender.ID,
			ChatID: upd.Chat.ID,
		}, true
	}

	return TrackableEvent{}, false
}
