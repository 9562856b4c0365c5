package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"

	"chat-notify/auth"
	"chat-notify/contract"
	"chat-notify/gateway"
	"chat-notify/infrastructure/postgres"
	"chat-notify/internal"
	"chat-notify/notify"
	"chat-notify/runtime"
	"chat-notify/runtime/workers"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 5 * time.Second

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Notify server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that defers execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config validation: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	channels := config.Channels()
	if len(channels) == 0 {
		channels = lo.Map(notify.Channels(), func(c notify.Channel, _ int) string {
			return string(c)
		})
	}

	// 2. Shared registry, dispatcher and supervision
	registry := runtime.NewRegistry()

	connect := func(ctx context.Context) (contract.NotificationSource, error) {
		return postgres.Connect(ctx, logger, config.DatabaseURL, channels)
	}

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewDispatcher(logger, connect, registry),
		workers.NewTelemetryWorker(logger, registry, config.MetricInterval),
	)

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting supervisor...")
		sup.Run(ctx)
	}()

	// 4. SSE gateway
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	server := gateway.NewServer(logger, registry, tokens, config.KeepAliveInterval)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: server.Router(),
		// Tie request contexts to the run context so active event streams
		// unblock on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting SSE gateway", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 5. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 6. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
