package internal

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL,required=true" validate:"required"`
	Host              string        `env:"HOST,required=true"`
	Port              int           `env:"PORT,required=true" validate:"min=1,max=65535"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true" validate:"min=32"`
	PgChannels        string        `env:"PG_CHANNELS"`
	KeepAliveInterval time.Duration `env:"KEEP_ALIVE_INTERVAL,required=true" validate:"gt=0"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,required=true" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true" validate:"gt=0"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true" validate:"gt=0"`
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// Channels parses the comma-separated PG_CHANNELS override. An empty value
// returns nil and the caller falls back to the engine's known channels.
func (c Config) Channels() []string {
	if strings.TrimSpace(c.PgChannels) == "" {
		return nil
	}
	var channels []string
	for _, part := range strings.Split(c.PgChannels, ",") {
		if part = strings.TrimSpace(part); part != "" {
			channels = append(channels, part)
		}
	}
	return channels
}
