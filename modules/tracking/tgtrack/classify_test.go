package tgtrack

import (
	"testing"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

func TestClassifyStartCommand(t *testing.T) {
	upd := &update.Update{
		ID:          1,
		Kind:        update.KindMessage,
		Command:     "start",
		CommandArgs: "TGTrack-PJ123456",
		Sender:      update.Sender{ID: 42},
		Chat:        update.Chat{ID: 42},
	}

	ev, ok := Classify(upd)
	if !ok {
		t.Fatal("Classify() = ignore, want trackable")
	}
	if ev.Kind != EventStart {
		t.Errorf("Kind = %q, want %q", ev.Kind, EventStart)
	}
	if ev.StartParam != "TGTrack-PJ123456" {
		t.Errorf("StartParam = %q, want %q", ev.StartParam, "TGTrack-PJ123456")
	}
	if ev.UserID != 42 {
		t.Errorf("UserID = %d, want 42", ev.UserID)
	}
}

func TestClassifyStartWithoutParam(t *testing.T) {
	upd := &update.Update{Kind: update.KindMessage, Command: "start"}
	ev, ok := Classify(upd)
	if !ok {
		t.Fatal("Classify() = ignore, want trackable")
	}
	if ev.StartParam != "" {
		t.Errorf("StartParam = %q, want empty", ev.StartParam)
	}
}

func TestClassifyBlockTransition(t *testing.T) {
	upd := &update.Update{
		ID:     2,
		Kind:   update.KindMembership,
		Sender: update.Sender{ID: 42},
		Chat:   update.Chat{ID: 42},
		Membership: &update.Membership{
			OldStatus: update.StatusMember,
			NewStatus: update.StatusKicked,
		},
	}

	ev, ok := Classify(upd)
	if !ok {
		t.Fatal("Classify() = ignore, want trackable")
	}
	if ev.Kind != EventBlock {
		t.Errorf("Kind = %q, want %q", ev.Kind, EventBlock)
	}
}

func TestClassifyIgnores(t *testing.T) {
	tests := []struct {
		name string
		upd  *update.Update
	}{
		{"plain message", &update.Update{Kind: update.KindMessage, Text: "hello"}},
		{"other command", &update.Update{Kind: update.KindMessage, Command: "help"}},
		{"start in text only", &update.Update{Kind: update.KindMessage, Text: "/start"}},
		{"unblock transition", &update.Update{
			Kind: update.KindMembership,
			Membership: &update.Membership{
				OldStatus: update.StatusKicked,
				NewStatus: update.StatusMember,
			},
		}},
		{"membership without transition data", &update.Update{Kind: update.KindMembership}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Classify(tt.upd); ok {
				t.Errorf("Classify() matched, want ignore")
			}
		})
	}
}
