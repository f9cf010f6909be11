package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"lakshya/internal/infrastructure/stubapi"
	"lakshya/internal/shared/config"
	"lakshya/internal/shared/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	secret := os.Getenv("STUB_JWT_SECRET")
	if secret == "" {
		secret = "stub-secret"
	}
	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "8080"
	}

	server := stubapi.New(secret)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.WithField("addr", srv.Addr).Info("stub API server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
