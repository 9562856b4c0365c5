package e2e

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseSSESuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests.
func (s *BaseSSESuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.NotifyAddr == "" {
		s.T().Skip("NOTIFY_ADDR not set, skipping e2e suite")
	}
}

// OpenStream connects to the server's event stream with the configured token
// and asserts the SSE handshake succeeded.
func (s *BaseSSESuite) OpenStream(t *testing.T, ctx context.Context) *http.Response {
	header := fmt.Sprintf("  ====== SSE %s ======", s.Config.NotifyAddr)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	url := strings.TrimSuffix(s.Config.NotifyAddr, "/") + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.Config.Token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Contains(resp.Header.Get("Content-Type"), "text/event-stream")
	return resp
}
