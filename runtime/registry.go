package runtime

import (
	"sync"

	"chat-notify/contract"
)

// Registry is the concurrent mapping from user id to broadcast channel.
// It is the only state shared between the dispatcher and the gateway; both
// receive the same Registry handle through their constructors.
//
// Entries are created lazily on first subscription and removed only by the
// dispatcher after a failed send. A disconnecting session never removes an
// entry itself: another session of the same user may still be attached to
// the channel.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	channels map[int64]*Broadcaster
}

func NewRegistry() *Registry {
	return &Registry{
		capacity: ChannelCapacity,
		channels: make(map[int64]*Broadcaster),
	}
}

// Get is the non-creating lookup used by the dispatcher: a user that never
// subscribed is skipped, not allocated a channel.
func (r *Registry) Get(userID int64) (contract.EventChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.channels[userID]
	if !ok {
		return nil, false
	}
	return b, true
}

// GetOrCreate returns the user's channel, inserting a fresh one atomically if
// none exists. Concurrent callers for the same user observe the same channel.
func (r *Registry) GetOrCreate(userID int64) contract.EventChannel {
	r.mu.RLock()
	if b, ok := r.channels[userID]; ok {
		r.mu.RUnlock()
		return b
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.channels[userID]; ok {
		return b
	}
	b := NewBroadcaster(r.capacity)
	r.channels[userID] = b
	return b
}

func (r *Registry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, userID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
