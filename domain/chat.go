package domain

import "time"

// ChatType mirrors the chat_type enum of the backing store.
// It is derived from member count and naming, never set directly by a client.
type ChatType string

const (
	ChatTypeSingle         ChatType = "single"
	ChatTypeGroup          ChatType = "group"
	ChatTypePrivateChannel ChatType = "private_channel"
	ChatTypePublicChannel  ChatType = "public_channel"
)

// Chat is the full row snapshot carried by change notifications.
// Members always holds at least two user ids.
type Chat struct {
	ID        int64     `json:"id"`
	WsID      int64     `json:"ws_id"`
	Name      *string   `json:"name"`
	Type      ChatType  `json:"type"`
	Members   []int64   `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	SenderID  int64     `json:"sender_id"`
	Content   string    `json:"content"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// DeriveChatType computes the chat type the persistence layer assigns on
// creation: a nameless pair is a direct chat, a nameless crowd is a group,
// and a named chat is a channel whose visibility follows the public flag.
func DeriveChatType(members []int64, name *string, public bool) ChatType {
	switch {
	case name == nil && len(members) == 2:
		return ChatTypeSingle
	case name == nil:
		return ChatTypeGroup
	case public:
		return ChatTypePublicChannel
	default:
		return ChatTypePrivateChannel
	}
}
