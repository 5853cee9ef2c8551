package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyflow/config"
	"studyflow/repository"
	"studyflow/services/events"
)

type ServeCmd struct {
	Addr            string        `help:"Listen address; defaults to :PORT."`
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests." default:"10s"`
}

func (cmd *ServeCmd) Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := cmd.Addr
	if addr == "" {
		addr = ":" + cfg.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr, "env", cfg.AppEnv, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type IndexesCmd struct{}

func (cmd *IndexesCmd) Run(cfg *config.Config) error {
	ctx := context.Background()
	client, err := cfg.Database.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	if err := repository.SetupIndexes(ctx, client.Database(cfg.Database.DatabaseName)); err != nil {
		return err
	}
	slog.Info("indexes ready", "database", cfg.Database.DatabaseName)
	return nil
}

type EventsCmd struct {
	Pattern string `help:"Routing key pattern to bind." default:"#"`
}

func (cmd *EventsCmd) Run(cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is not set")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return err
	}
	defer broker.Close()

	stream, err := broker.Consume(ctx, cmd.Pattern)
	if err != nil {
		return fmt.Errorf("subscribing to %q: %w", cmd.Pattern, err)
	}
	for e := range stream {
		slog.Info("event",
			"type", e.Type,
			"user_id", e.UserID,
			"occurred_at", e.OccurredAt,
			"data", e.Data,
		)
	}
	return nil
}
