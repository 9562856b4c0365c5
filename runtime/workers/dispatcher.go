package workers

import (
	"context"
	"fmt"
	"log/slog"

	"chat-notify/contract"
	"chat-notify/notify"
)

// Dispatcher is the single long-running task that owns the notification
// source: it pulls raw notifications one at a time, decodes them, resolves
// recipients and pushes the event onto each recipient's channel. Events for
// the same chat reach the registry in source order; no reordering happens
// here.
type Dispatcher struct {
	log      *slog.Logger
	connect  contract.SourceConnector
	registry contract.IRegistry
}

func NewDispatcher(log *slog.Logger, connect contract.SourceConnector, registry contract.IRegistry) *Dispatcher {
	return &Dispatcher{log: log, connect: connect, registry: registry}
}

// Run connects the source and pumps it until the context is canceled or the
// stream fails. A terminal stream error is returned to the caller: under the
// Supervisor that means the dispatcher is restarted after the restart delay
// with a fresh connection.
func (w *Dispatcher) Run(ctx context.Context) error {
	source, err := w.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect notification source: %w", err)
	}
	defer func() {
		if err := source.Close(context.WithoutCancel(ctx)); err != nil {
			w.log.Warn("Closing notification source failed", "error", err)
		}
	}()

	w.log.Info("Dispatcher listening for notifications")
	for {
		raw, err := source.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("notification stream: %w", err)
		}
		w.dispatch(raw)
	}
}

// dispatch processes one notification to completion before the loop returns
// to listening. A recipient with no registry entry never subscribed and is
// skipped; a recipient whose channel has no live receiver is collected and
// removed afterwards (removing mid-iteration would mutate the set being
// walked).
func (w *Dispatcher) dispatch(raw contract.RawNotification) {
	n, err := notify.Decode(notify.Channel(raw.Channel), raw.Payload)
	if err != nil {
		w.log.Warn("Dropping undecodable notification", "channel", raw.Channel, "error", err)
		return
	}

	var stale []int64
	for userID := range n.Recipients {
		channel, ok := w.registry.Get(userID)
		if !ok {
			continue
		}
		if err := channel.Send(n.Event); err != nil {
			stale = append(stale, userID)
		}
	}
	for _, userID := range stale {
		w.registry.Remove(userID)
		w.log.Debug("Removed stale subscription", "user_id", userID)
	}

	w.log.Debug("Notification dispatched",
		"event", n.Event.Name(),
		"recipients", len(n.Recipients),
		"stale", len(stale))
}
