package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"lakshya/internal/auth"
	"lakshya/internal/domain/chat"
	"lakshya/internal/domain/milestone"
	"lakshya/internal/domain/transaction"
	"lakshya/internal/domain/user"
	"lakshya/internal/infrastructure/anthropic"
	"lakshya/internal/infrastructure/api"
	"lakshya/internal/infrastructure/keystore"
	"lakshya/internal/shared/config"
	"lakshya/internal/shared/i18n"
	"lakshya/internal/shared/logging"
	"lakshya/internal/shared/querycache"
)

// Dependencies holds all initialized application components. Everything is
// wired here, once, and passed down by reference; nothing reaches for
// package-level state.
type Dependencies struct {
	Config   *config.Config
	Log      *logrus.Logger
	Keystore keystore.Store
	Session  *auth.Session
	Cache    *querycache.Cache
	Bundle   *i18n.Bundle

	API          *api.Client
	Transactions *transaction.Service
	Milestones   *milestone.Service
	Users        *user.Service
}

// NewDependencies initializes the application components.
func NewDependencies() (*Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	store, err := keystore.Open(cfg.Keystore.Path)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(store, log)
	cache := querycache.New()
	client := api.NewClient(cfg.API.BaseURL)

	return &Dependencies{
		Config:   cfg,
		Log:      log,
		Keystore: store,
		Session:  session,
		Cache:    cache,
		Bundle:   i18n.NewBundle(),
		API:      client,
		Transactions: transaction.NewService(client, session, cache, transaction.Options{
			StaleTime:     cfg.Cache.TransactionStaleTime,
			RetryAttempts: cfg.Cache.ReadRetryAttempts,
		}, log),
		Milestones: milestone.NewService(client, session, cache, log),
		Users:      user.NewService(client, session, cache, log),
	}, nil
}

// NewChat builds the ingestion pipeline for one chat session. The AI
// credentials come from configuration only.
func (d *Dependencies) NewChat() (*chat.Service, error) {
	if d.Config.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for chat")
	}

	ai := anthropic.NewClient(anthropic.Config{
		APIKey:    d.Config.Anthropic.APIKey,
		BaseURL:   d.Config.Anthropic.BaseURL,
		Model:     d.Config.Anthropic.Model,
		MaxTokens: d.Config.Anthropic.MaxTokens,
	})

	return chat.NewService(ai, d.Transactions, d.Bundle, d.Config.Language, d.Log), nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Keystore != nil {
		if err := d.Keystore.Close(); err != nil {
			d.Log.WithError(err).Warn("failed to close keystore")
		}
	}
}
