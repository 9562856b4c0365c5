package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"chat-notify/contract"
)

// Listener holds a dedicated connection in LISTEN mode. It must not be shared
// with query traffic: WaitForNotification owns the wire while blocked.
type Listener struct {
	log  *slog.Logger
	conn *pgx.Conn
}

// Connect opens the connection and subscribes to every given channel.
// The database emits one notification per committed row change through
// triggers; this side performs no transactional coordination.
func Connect(ctx context.Context, log *slog.Logger, databaseURL string, channels []string) (*Listener, error) {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	for _, channel := range channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			_ = conn.Close(ctx)
			return nil, fmt.Errorf("listen on %q: %w", channel, err)
		}
	}
	log.Info("Listening for postgres notifications", "channels", channels)
	return &Listener{log: log, conn: conn}, nil
}

func (l *Listener) WaitForNotification(ctx context.Context) (contract.RawNotification, error) {
	n, err := l.conn.WaitForNotification(ctx)
	if err != nil {
		return contract.RawNotification{}, err
	}
	return contract.RawNotification{Channel: n.Channel, Payload: n.Payload}, nil
}

func (l *Listener) Close(ctx context.Context) error {
	return l.conn.Close(ctx)
}
