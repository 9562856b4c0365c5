package runtime

import (
	"sync"

	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/errors"
)

// ChannelCapacity is the fixed buffer size of every per-user channel.
// It is never resized; exceeding it costs the lagging receiver its oldest
// unread events, never blocks the sender.
const ChannelCapacity = 256

// Broadcaster is a bounded multicast channel for one user's events. All
// concurrently connected sessions of that user subscribe to the same
// Broadcaster and each gets its own buffered view of the stream.
type Broadcaster struct {
	mu        sync.Mutex
	capacity  int
	receivers map[*Receiver]struct{}
}

func NewBroadcaster(capacity int) *Broadcaster {
	return &Broadcaster{
		capacity:  capacity,
		receivers: make(map[*Receiver]struct{}),
	}
}

// Send delivers e to every live receiver without ever blocking. A receiver
// whose buffer is full drops its oldest unread event to make room; the
// receiver resumes from the next event after the gap.
// Returns ErrNoReceivers when nobody is subscribed, which the dispatcher
// interprets as "this registry entry is stale".
func (b *Broadcaster) Send(e event.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.receivers) == 0 {
		return errors.ErrNoReceivers
	}
	for r := range b.receivers {
		select {
		case r.ch <- e:
		default:
			// Buffer full: evict the oldest unread event, then retry once.
			// The inner default covers a receiver that drained concurrently.
			select {
			case <-r.ch:
			default:
			}
			select {
			case r.ch <- e:
			default:
			}
		}
	}
	return nil
}

// Subscribe attaches a new receiver with its own buffer. Events sent before
// the subscription are not replayed.
func (b *Broadcaster) Subscribe() contract.EventReceiver {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &Receiver{owner: b, ch: make(chan event.DomainEvent, b.capacity)}
	b.receivers[r] = struct{}{}
	return r
}

func (b *Broadcaster) Receivers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.receivers)
}

// Receiver is one session's view of a Broadcaster.
type Receiver struct {
	owner *Broadcaster
	ch    chan event.DomainEvent
	once  sync.Once
}

func (r *Receiver) Events() <-chan event.DomainEvent { return r.ch }

// Close detaches the receiver from its broadcaster. The registry entry is
// left alone: reclaiming it is the dispatcher's job, on the next send that
// finds no receivers.
func (r *Receiver) Close() {
	r.once.Do(func() {
		r.owner.mu.Lock()
		delete(r.owner.receivers, r)
		r.owner.mu.Unlock()
	})
}
