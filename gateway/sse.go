package gateway

import (
	_ "embed"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chat-notify/auth"
	"chat-notify/contract"
)

//go:embed index.html
var indexHTML string

// Server is the streaming gateway: it turns a user's broadcast channel into a
// long-lived server-sent-events response per connection.
type Server struct {
	log               *slog.Logger
	registry          contract.IRegistry
	tokens            *auth.TokenManager
	keepAliveInterval time.Duration
}

func NewServer(log *slog.Logger, registry contract.IRegistry, tokens *auth.TokenManager, keepAliveInterval time.Duration) *Server {
	return &Server{
		log:               log,
		registry:          registry,
		tokens:            tokens,
		keepAliveInterval: keepAliveInterval,
	}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", s.Index)
	r.GET("/healthz", s.Health)
	r.GET("/events", s.Authenticated(), s.Events)
	return r
}

func (s *Server) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Events subscribes the authenticated user and forwards every domain event to
// the connection as a tagged SSE item, interleaved with periodic keep-alive
// comments. The stream is infinite and non-restartable: it ends when the
// client goes away, and no unsubscribe call is made against the registry.
func (s *Server) Events(c *gin.Context) {
	userID := c.GetInt64(userIDKey)
	sessionID := uuid.NewString()

	receiver := s.registry.GetOrCreate(userID).Subscribe()
	defer receiver.Close()

	s.log.Info("Event stream opened", "user_id", userID, "session_id", sessionID)
	defer s.log.Info("Event stream closed", "user_id", userID, "session_id", sessionID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()
	done := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case evt := <-receiver.Events():
			c.SSEvent(evt.Name(), evt.Payload())
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		}
	})
}
