package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tomgalvin.uk/monobmp/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Exiting", "err", err)
		os.Exit(1)
	}
}

func run() error {
	c, err := LoadConfig(os.Getenv)
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(c.LogLevel)
	logger := slog.Default()

	r, err := NewRepository(c, logger)
	if err != nil {
		return err
	}
	defer r.Close()

	mux := http.NewServeMux()
	si := server.NewServer(logger.With("src", "server"), r)
	mux.Handle("/api/", si.Handler())

	srv := http.Server{Addr: c.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logger.Error("Shutdown failed", "err", err)
		}
	}()

	logger.Info("Starting server", "addr", c.Addr, "db", c.DatabaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
