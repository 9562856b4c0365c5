package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"chat-notify/auth"
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/runtime"
)

const testSecret = "a_strong_and_long_test_secret_key_2026"

type fixture struct {
	registry *runtime.Registry
	tokens   *auth.TokenManager
	server   *httptest.Server
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry()
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	gw := NewServer(log, registry, tokens, 50*time.Millisecond)
	server := httptest.NewServer(gw.Router())
	t.Cleanup(server.Close)
	return fixture{registry: registry, tokens: tokens, server: server}
}

func (f fixture) openStream(t *testing.T, ctx context.Context, userID int64) *http.Response {
	t.Helper()
	req := require.New(t)

	token, err := f.tokens.GenerateToken(userID)
	req.NoError(err)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/events", nil)
	req.NoError(err)
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.server.Client().Do(httpReq)
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(resp.Header.Get("Content-Type"), "text/event-stream")
	return resp
}

// readEvent consumes stream lines until one complete SSE item is read,
// skipping keep-alive comments.
func readEvent(t *testing.T, r *bufio.Reader) (name, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, ":"):
			// keep-alive
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "" && data != "":
			return name, data
		}
	}
}

func TestEvents_StreamsDomainEventsToTheSubscriber(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp := f.openStream(t, ctx, 42)
	defer resp.Body.Close()

	// The subscription lands in the registry lazily, on first connection
	req.Eventually(func() bool {
		channel, ok := f.registry.Get(42)
		return ok && channel.Receivers() == 1
	}, time.Second, 10*time.Millisecond)

	// When the dispatcher side pushes an event onto the user's channel
	channel, _ := f.registry.Get(42)
	msg := domain.Message{ID: 7, ChatID: 10, SenderID: 1, Content: "hi", Files: []string{}}
	req.NoError(channel.Send(event.NewMessage{Message: msg}))

	// Then the connection receives it as a tagged stream item
	name, data := readEvent(t, bufio.NewReader(resp.Body))
	req.Equal("NewMessage", name)

	var got domain.Message
	req.NoError(json.Unmarshal([]byte(data), &got))
	req.Equal(msg.ID, got.ID)
	req.Equal(msg.Content, got.Content)
}

func TestEvents_DisconnectLeavesRegistryEntryAlone(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	resp := f.openStream(t, ctx, 42)
	defer resp.Body.Close()

	req.Eventually(func() bool {
		channel, ok := f.registry.Get(42)
		return ok && channel.Receivers() == 1
	}, time.Second, 10*time.Millisecond)

	// When the only session goes away
	cancel()

	// Then the receiver detaches but the registry entry survives:
	// reclaiming it is the dispatcher's job on the next failed send
	req.Eventually(func() bool {
		channel, ok := f.registry.Get(42)
		return ok && channel.Receivers() == 0
	}, time.Second, 10*time.Millisecond)
	req.Equal(1, f.registry.Len())
}

func TestEvents_TwoSessionsShareOneChannel(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp1 := f.openStream(t, ctx, 42)
	defer resp1.Body.Close()
	resp2 := f.openStream(t, ctx, 42)
	defer resp2.Body.Close()

	req.Eventually(func() bool {
		channel, ok := f.registry.Get(42)
		return ok && channel.Receivers() == 2
	}, time.Second, 10*time.Millisecond)

	// One user, one registry entry, two receivers
	req.Equal(1, f.registry.Len())

	channel, _ := f.registry.Get(42)
	req.NoError(channel.Send(event.NewChat{Chat: domain.Chat{ID: 1, Members: []int64{42, 43}}}))

	name1, _ := readEvent(t, bufio.NewReader(resp1.Body))
	name2, _ := readEvent(t, bufio.NewReader(resp2.Body))
	req.Equal("NewChat", name1)
	req.Equal("NewChat", name2)
}

func TestEvents_KeepAliveIsEmittedWithoutTraffic(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	resp := f.openStream(t, ctx, 42)
	defer resp.Body.Close()

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	req.NoError(err)
	req.True(strings.HasPrefix(line, ":"), "expected a keep-alive comment, got %q", line)
}

func TestEvents_QueryTokenFallback(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	token, err := f.tokens.GenerateToken(7)
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/events?access_token="+token, nil)
	req.NoError(err)

	resp, err := f.server.Client().Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	req.Eventually(func() bool {
		channel, ok := f.registry.Get(7)
		return ok && channel.Receivers() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestEvents_AuthFailures(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	// Missing token
	resp, err := http.Get(f.server.URL + "/events")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Invalid token
	httpReq, err := http.NewRequest(http.MethodGet, f.server.URL+"/events", nil)
	req.NoError(err)
	httpReq.Header.Set("Authorization", "Bearer garbage")
	resp, err = f.server.Client().Do(httpReq)
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusForbidden, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/healthz")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
}
