//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-notify/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; the supervisor handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// RawNotification is one untyped item from the store's change stream.
type RawNotification struct {
	Channel string
	Payload string
}

// NotificationSource is a connected change-notification stream.
// WaitForNotification blocks until the next item, a stream error, or ctx
// cancellation.
type NotificationSource interface {
	WaitForNotification(ctx context.Context) (RawNotification, error)
	Close(ctx context.Context) error
}

// SourceConnector establishes a fresh NotificationSource. The dispatcher
// reconnects through it each time its worker is (re)started.
type SourceConnector func(ctx context.Context) (NotificationSource, error)

// EventReceiver is one session's handle on a user's event channel. Closing it
// detaches the session without touching the registry.
type EventReceiver interface {
	Events() <-chan event.DomainEvent
	Close()
}

// EventChannel is a user's bounded multicast channel: one producer (the
// dispatcher), one receiver per connected session.
type EventChannel interface {
	Send(e event.DomainEvent) error
	Subscribe() EventReceiver
	Receivers() int
}

type IRegistry interface {
	Get(userID int64) (EventChannel, bool)
	GetOrCreate(userID int64) EventChannel
	Remove(userID int64)
	Len() int
}
