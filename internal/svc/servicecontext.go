package svc

import (
	"context"
	"fmt"

	"github.com/cookaihq/cookai/internal/auth"
	"github.com/cookaihq/cookai/internal/config"
	"github.com/cookaihq/cookai/internal/db"
	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/logging"
	"github.com/cookaihq/cookai/internal/reminder"
)

// ServiceContext wires the shared dependencies every handler needs.
type ServiceContext struct {
	Config   config.Config
	Store    *db.Store
	Gemini   *gemini.Client
	Verifier auth.Verifier
	Reminder *reminder.Service
}

func NewServiceContext(ctx context.Context, cfg config.Config) (*ServiceContext, error) {
	store, err := db.NewSQLite(cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	client, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.LiveModel)
	if err != nil {
		return nil, fmt.Errorf("init gemini: %w", err)
	}

	var sender reminder.Sender
	if cfg.Reminder.PushGatewayURL != "" {
		sender = reminder.NewWebhookSender(cfg.Reminder.PushGatewayURL)
	} else {
		logging.Warnf("no push gateway configured, reminders will only be logged")
		sender = reminder.LogSender{}
	}

	return &ServiceContext{
		Config:   cfg,
		Store:    store,
		Gemini:   client,
		Verifier: auth.NewFirebaseVerifier(cfg.Auth.FirebaseProjectID),
		Reminder: reminder.NewService(store, sender, cfg.App.BaseURL),
	}, nil
}

// Close releases held resources.
func (s *ServiceContext) Close() {
	if s.Reminder != nil {
		s.Reminder.Stop()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}
