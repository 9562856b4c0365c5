package notify

import (
	"encoding/json"
	"fmt"
	"slices"

	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
)

// Channel is a closed enumeration of the notification channels the engine
// understands. Anything else fails decoding with ErrUnknownChannel.
type Channel string

const (
	ChannelChatUpdated        Channel = "chat_updated"
	ChannelChatMessageCreated Channel = "chat_message_created"
)

func Channels() []Channel {
	return []Channel{ChannelChatUpdated, ChannelChatMessageCreated}
}

const (
	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"
)

// Notification is one decoded change: the event to deliver and the set of
// users it must reach. The event value is shared by every recipient.
type Notification struct {
	Recipients UserSet
	Event      event.DomainEvent
}

// chatUpdated is the trigger payload json_build_object('op', TG_OP, 'old', OLD, 'new', NEW).
type chatUpdated struct {
	Op  string       `json:"op"`
	Old *domain.Chat `json:"old"`
	New *domain.Chat `json:"new"`
}

// chatMessageCreated is pre-joined by the trigger: the member list comes with
// the message row, so no chat lookup or diffing is needed.
type chatMessageCreated struct {
	Members []int64        `json:"members"`
	Message domain.Message `json:"message"`
}

// Decode parses one raw (channel, payload) pair into a Notification.
// Failures are local to the offending payload; callers drop it and move on.
func Decode(channel Channel, payload string) (Notification, error) {
	switch channel {
	case ChannelChatUpdated:
		var p chatUpdated
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return Notification{}, fmt.Errorf("decode %s payload: %w", channel, err)
		}
		evt, err := toChatEvent(p)
		if err != nil {
			return Notification{}, err
		}
		return Notification{Recipients: AffectedUsers(p.Old, p.New), Event: evt}, nil
	case ChannelChatMessageCreated:
		var p chatMessageCreated
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return Notification{}, fmt.Errorf("decode %s payload: %w", channel, err)
		}
		return Notification{
			Recipients: toUserSet(p.Members),
			Event:      event.NewMessage{Message: p.Message},
		}, nil
	default:
		return Notification{}, fmt.Errorf("%w: %q", errors.ErrUnknownChannel, channel)
	}
}

func toChatEvent(p chatUpdated) (event.DomainEvent, error) {
	switch p.Op {
	case opInsert:
		if p.New == nil {
			return nil, fmt.Errorf("%w: INSERT without new row", errors.ErrInvalidOperation)
		}
		return event.NewChat{Chat: *p.New}, nil
	case opUpdate:
		if p.New == nil {
			return nil, fmt.Errorf("%w: UPDATE without new row", errors.ErrInvalidOperation)
		}
		if isNameOnlyUpdate(p.Old, p.New) {
			return event.UpdateChatName{Chat: *p.New}, nil
		}
		return event.AddToChat{Chat: *p.New}, nil
	case opDelete:
		if p.Old == nil {
			return nil, fmt.Errorf("%w: DELETE without old row", errors.ErrInvalidOperation)
		}
		return event.RemoveFromChat{Chat: *p.Old}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidOperation, p.Op)
	}
}

// isNameOnlyUpdate reports whether an UPDATE is a pure rename: the name
// changed while the member list (ordered) and the type stayed the same.
func isNameOnlyUpdate(old, updated *domain.Chat) bool {
	if old == nil || updated == nil {
		return false
	}
	return !namesEqual(old.Name, updated.Name) &&
		old.Type == updated.Type &&
		slices.Equal(old.Members, updated.Members)
}

func namesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
