package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-notify/domain/event"
	"chat-notify/errors"
)

func TestDecode_InsertYieldsNewChat(t *testing.T) {
	req := require.New(t)

	// Given a chat_updated INSERT notification for a fresh single chat
	payload := `{"op":"INSERT","old":null,"new":{"id":10,"ws_id":1,"name":null,"type":"single","members":[1,2],"created_at":"2026-08-01T10:00:00Z"}}`

	// When it is decoded
	n, err := Decode(ChannelChatUpdated, payload)

	// Then a NewChat event reaches exactly the new members
	req.NoError(err)
	evt, ok := n.Event.(event.NewChat)
	req.True(ok)
	req.Equal("NewChat", n.Event.Name())
	req.Equal([]int64{1, 2}, evt.Chat.Members)
	req.Len(n.Recipients, 2)
	req.True(n.Recipients.Contains(1))
	req.True(n.Recipients.Contains(2))
	req.False(n.Recipients.Contains(3))
}

func TestDecode_RenameYieldsUpdateChatName(t *testing.T) {
	req := require.New(t)

	// Given an UPDATE where only the name changed
	payload := `{"op":"UPDATE",
		"old":{"id":11,"ws_id":1,"name":null,"type":"group","members":[1,2,3],"created_at":"2026-08-01T10:00:00Z"},
		"new":{"id":11,"ws_id":1,"name":"Trio","type":"group","members":[1,2,3],"created_at":"2026-08-01T10:00:00Z"}}`

	n, err := Decode(ChannelChatUpdated, payload)

	// Then current members get a rename event
	req.NoError(err)
	req.IsType(event.UpdateChatName{}, n.Event)
	req.Len(n.Recipients, 3)
}

func TestDecode_MembershipChangeYieldsAddToChat(t *testing.T) {
	req := require.New(t)

	// Given an UPDATE removing member 3
	payload := `{"op":"UPDATE",
		"old":{"id":11,"ws_id":1,"name":"Trio","type":"group","members":[1,2,3],"created_at":"2026-08-01T10:00:00Z"},
		"new":{"id":11,"ws_id":1,"name":"Trio","type":"group","members":[1,2],"created_at":"2026-08-01T10:00:00Z"}}`

	n, err := Decode(ChannelChatUpdated, payload)

	// Then the generic membership-change event goes to the union,
	// so the removed member still learns about its own removal
	req.NoError(err)
	req.IsType(event.AddToChat{}, n.Event)
	req.Len(n.Recipients, 3)
	req.True(n.Recipients.Contains(3))
}

func TestDecode_RenameAndMembershipChangeIsNotARename(t *testing.T) {
	req := require.New(t)

	// Given an UPDATE changing both name and members
	payload := `{"op":"UPDATE",
		"old":{"id":11,"ws_id":1,"name":null,"type":"group","members":[1,2,3],"created_at":"2026-08-01T10:00:00Z"},
		"new":{"id":11,"ws_id":1,"name":"Quartet","type":"group","members":[1,2,3,4],"created_at":"2026-08-01T10:00:00Z"}}`

	n, err := Decode(ChannelChatUpdated, payload)

	req.NoError(err)
	req.IsType(event.AddToChat{}, n.Event)
	req.Len(n.Recipients, 4)
}

func TestDecode_DeleteYieldsRemoveFromChat(t *testing.T) {
	req := require.New(t)

	payload := `{"op":"DELETE","old":{"id":12,"ws_id":1,"name":"Doomed","type":"private_channel","members":[5,6],"created_at":"2026-08-01T10:00:00Z"},"new":null}`

	n, err := Decode(ChannelChatUpdated, payload)

	// Then the old members receive the terminal event
	req.NoError(err)
	evt, ok := n.Event.(event.RemoveFromChat)
	req.True(ok)
	req.Equal([]int64{5, 6}, evt.Chat.Members)
	req.Len(n.Recipients, 2)
	req.True(n.Recipients.Contains(5))
}

func TestDecode_MessageCreatedUsesMembersVerbatim(t *testing.T) {
	req := require.New(t)

	// Given a pre-joined chat_message_created payload
	payload := `{"members":[1,2],"message":{"id":100,"chat_id":10,"sender_id":1,"content":"hi","files":[],"created_at":"2026-08-01T10:00:00Z"}}`

	n, err := Decode(ChannelChatMessageCreated, payload)

	// Then recipients come from the payload, independent of chat diffing
	req.NoError(err)
	evt, ok := n.Event.(event.NewMessage)
	req.True(ok)
	req.Equal("hi", evt.Message.Content)
	req.Equal(int64(100), evt.Message.ID)
	req.Len(n.Recipients, 2)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		payload string
		wantErr error
	}{
		{"unknown channel", Channel("user_updated"), `{}`, errors.ErrUnknownChannel},
		{"malformed op", ChannelChatUpdated, `{"op":"TRUNCATE","old":null,"new":null}`, errors.ErrInvalidOperation},
		{"insert without new", ChannelChatUpdated, `{"op":"INSERT","old":null,"new":null}`, errors.ErrInvalidOperation},
		{"update without new", ChannelChatUpdated, `{"op":"UPDATE","old":null,"new":null}`, errors.ErrInvalidOperation},
		{"delete without old", ChannelChatUpdated, `{"op":"DELETE","old":null,"new":null}`, errors.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.channel, tt.payload)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_MalformedJSONFails(t *testing.T) {
	req := require.New(t)

	_, err := Decode(ChannelChatUpdated, `{"op":`)
	req.Error(err)

	_, err = Decode(ChannelChatMessageCreated, `not json`)
	req.Error(err)
}
