package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-notify/contract"
)

func TestRegistry_GetDoesNotCreate(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given a user that never subscribed
	_, ok := registry.Get(1)

	// Then no channel is allocated for them
	req.False(ok)
	req.Zero(registry.Len())
}

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	first := registry.GetOrCreate(1)
	second := registry.GetOrCreate(1)

	// Then both callers observe the same channel
	req.Same(first, second)
	req.Equal(1, registry.Len())

	got, ok := registry.Get(1)
	req.True(ok)
	req.Same(first, got)
}

func TestRegistry_ConcurrentGetOrCreateYieldsOneChannel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	const callers = 64
	channels := make([]contract.EventChannel, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			channels[i] = registry.GetOrCreate(42)
		}(i)
	}
	wg.Wait()

	// Then exactly one channel exists and everyone holds it
	req.Equal(1, registry.Len())
	for i := 1; i < callers; i++ {
		req.Same(channels[0], channels[i])
	}
}

func TestRegistry_RemoveAllowsFreshChannel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	stale := registry.GetOrCreate(1)
	registry.Remove(1)
	req.Zero(registry.Len())

	// A later subscription allocates a fresh channel
	fresh := registry.GetOrCreate(1)
	req.NotSame(stale, fresh)
}
