package telegram

import (
	"encoding/json"
	"testing"

	"github.com/kbrejes/unifyhubbot/pkg/update"
)

func TestConvertStartCommand(t *testing.T) {
	upd := &Update{
		UpdateID: 100,
		Message: &Message{
			MessageID: 5,
			Date:      1700000000,
			Text:      "/start TGTrack-PJ123456",
			From:      &User{ID: 42, FirstName: "Alice", Username: "alice"},
			Chat:      Chat{ID: 42, Type: "private"},
			Entities:  []MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}

	got, err := convertInbound(upd, "unifyhub_bot")
	if err != nil {
		t.Fatalf("convertInbound() error: %v", err)
	}

	if got.Kind != update.KindMessage {
		t.Errorf("Kind = %q, want %q", got.Kind, update.KindMessage)
	}
	if got.Command != "start" {
		t.Errorf("Command = %q, want %q", got.Command, "start")
	}
	if got.CommandArgs != "TGTrack-PJ123456" {
		t.Errorf("CommandArgs = %q, want %q", got.CommandArgs, "TGTrack-PJ123456")
	}
	if got.Sender.ID != 42 {
		t.Errorf("Sender.ID = %d, want 42", got.Sender.ID)
	}
	if len(got.Raw) == 0 {
		t.Error("Raw update JSON not preserved")
	}

	// Raw must round-trip to the original wire shape.
	var roundtrip Update
	if err := json.Unmarshal(got.Raw, &roundtrip); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if roundtrip.UpdateID != 100 {
		t.Errorf("raw update_id = %d, want 100", roundtrip.UpdateID)
	}
}

func TestConvertMembershipChange(t *testing.T) {
	upd := &Update{
		UpdateID: 101,
		MyChatMember: &ChatMemberUpdated{
			Chat:          Chat{ID: 42, Type: "private"},
			From:          User{ID: 42, FirstName: "Alice"},
			Date:          1700000100,
			OldChatMember: ChatMember{Status: "member"},
			NewChatMember: ChatMember{Status: "kicked"},
		},
	}

	got, err := convertInbound(upd, "unifyhub_bot")
	if err != nil {
		t.Fatalf("convertInbound() error: %v", err)
	}

	if got.Kind != update.KindMembership {
		t.Fatalf("Kind = %q, want %q", got.Kind, update.KindMembership)
	}
	if got.Membership == nil {
		t.Fatal("Membership is nil")
	}
	if got.Membership.OldStatus != "member" || got.Membership.NewStatus != "kicked" {
		t.Errorf("transition = %s→%s, want member→kicked",
			got.Membership.OldStatus, got.Membership.NewStatus)
	}
	if !got.Membership.Blocked() {
		t.Error("Blocked() = false for member→kicked")
	}
}

func TestConvertContact(t *testing.T) {
	upd := &Update{
		UpdateID: 102,
		Message: &Message{
			MessageID: 6,
			From:      &User{ID: 42},
			Chat:      Chat{ID: 42, Type: "private"},
			Contact:   &Contact{PhoneNumber: "+10000000000", FirstName: "Alice", UserID: 42},
		},
	}

	got, err := convertInbound(upd, "unifyhub_bot")
	if err != nil {
		t.Fatalf("convertInbound() error: %v", err)
	}
	if got.Contact == nil {
		t.Fatal("Contact is nil")
	}
	if got.Contact.PhoneNumber != "+10000000000" {
		t.Errorf("PhoneNumber = %q", got.Contact.PhoneNumber)
	}
}

func TestConvertUnsupportedUpdate(t *testing.T) {
	if _, err := convertInbound(&Update{UpdateID: 103}, "unifyhub_bot"); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entities []MessageEntity
		wantCmd  string
		wantArgs string
	}{
		{"plain start", "/start", nil, "start", ""},
		{"start with param", "/start TGTrack-PJ123456", nil, "start", "TGTrack-PJ123456"},
		{"entity boundary", "/start abc", []MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}, "start", "abc"},
		{"addressed to us", "/start@unifyhub_bot ref", nil, "start", "ref"},
		{"addressed to other bot", "/start@other_bot ref", nil, "", ""},
		{"uppercase normalized", "/START", nil, "start", ""},
		{"not a command", "hello /start", nil, "", ""},
		{"empty text", "", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Text: tt.text, Entities: tt.entities}
			cmd, args := parseCommand(msg, "unifyhub_bot")
			if cmd != tt.wantCmd {
				t.Errorf("command = %q, want %q", cmd, tt.wantCmd)
			}
			if args != tt.wantArgs {
				t.Errorf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}
