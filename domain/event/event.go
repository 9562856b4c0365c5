package event

import "chat-notify/domain"

// DomainEvent is one of the typed notifications the fan-out engine can emit.
// Name is the wire discriminant of the variant; Payload is the inner value
// serialized to the client as-is.
type DomainEvent interface {
	Name() string
	Payload() any
}

type NewChat struct {
	Chat domain.Chat
}

func (e NewChat) Name() string { return "NewChat" }
func (e NewChat) Payload() any { return e.Chat }

type NewMessage struct {
	Message domain.Message
}

func (e NewMessage) Name() string { return "NewMessage" }
func (e NewMessage) Payload() any { return e.Message }

// AddToChat covers every membership change, additions and removals alike.
type AddToChat struct {
	Chat domain.Chat
}

func (e AddToChat) Name() string { return "AddToChat" }
func (e AddToChat) Payload() any { return e.Chat }

type UpdateChatName struct {
	Chat domain.Chat
}

func (e UpdateChatName) Name() string { return "UpdateChatName" }
func (e UpdateChatName) Payload() any { return e.Chat }

type RemoveFromChat struct {
	Chat domain.Chat
}

func (e RemoveFromChat) Name() string { return "RemoveFromChat" }
func (e RemoveFromChat) Payload() any { return e.Chat }
