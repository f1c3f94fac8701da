// jobtrack - WhatsApp job application tracker
// Copyright (C) 2026  jobtrack contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jobtrack-dev/jobtrack/internal/commands"
	"github.com/jobtrack-dev/jobtrack/internal/config"
	"github.com/jobtrack-dev/jobtrack/internal/handlers"
	"github.com/jobtrack-dev/jobtrack/internal/logging"
	"github.com/jobtrack-dev/jobtrack/internal/parser"
	"github.com/jobtrack-dev/jobtrack/internal/reminder"
	"github.com/jobtrack-dev/jobtrack/internal/store"
	"github.com/jobtrack-dev/jobtrack/internal/token"
	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// whatsappNotifier adapts the Twilio sender to the reminder scheduler.
type whatsappNotifier struct {
	sender whatsapp.Sender
}

func (n *whatsappNotifier) Notify(ctx context.Context, userID, message string) error {
	return n.sender.Send(ctx, whatsapp.OutboundMessage{
		ID:   uuid.New().String(),
		To:   userID,
		Body: message,
	})
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("jobtrack-server %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Server.Env)

	// Sentry error tracking
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Google Sheets store
	ctx := context.Background()
	svc, err := store.NewSheetsService(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		slog.Error("sheets client failed", "error", err)
		os.Exit(1)
	}
	records := store.New(svc, cfg.Sheets.SpreadsheetID)

	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	err = records.Ping(pingCtx)
	cancel()
	if err != nil {
		slog.Error("spreadsheet unreachable", "spreadsheet", cfg.Sheets.SpreadsheetID, "error", err)
		os.Exit(1)
	}
	slog.Info("connected to spreadsheet", "spreadsheet", cfg.Sheets.SpreadsheetID)

	// Twilio sender and reminder scheduler
	sender := whatsapp.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)

	reminders, err := reminder.New(&whatsappNotifier{sender: sender}, cfg.Reminders.Timezone, cfg.Reminders.DailyTime)
	if err != nil {
		slog.Error("reminder scheduler failed", "error", err)
		os.Exit(1)
	}

	// Tokens for the management API
	signingKey := cfg.API.JWTSigningKey
	if signingKey == "" {
		slog.Warn("JWT_SIGNING_KEY is empty - using insecure default (set JWT_SIGNING_KEY in production)")
		signingKey = "insecure-dev-secret-change-me"
	}
	tokens := token.New(signingKey, cfg.API.JWTIssuer)

	p := parser.New()
	h := handlers.New(p, commands.New(records, reminders, p), sender, records, reminders)

	if cfg.Twilio.ValidateSignature && cfg.Server.PublicURL == "" {
		slog.Warn("signature validation enabled without PUBLIC_URL; webhook posts will be rejected")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if cfg.Sentry.DSN != "" {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.Get("/health", h.Health)
	r.With(handlers.VerifySignature(cfg.Twilio.AuthToken, cfg.Server.PublicURL, cfg.Twilio.ValidateSignature)).
		Post("/webhook", h.Webhook)
	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.RequireToken(tokens))
		r.Get("/stats", h.Stats)
		r.Post("/reminders/send", h.SendReminder)
		r.Post("/reminders/reschedule", h.RescheduleReminders)
	})

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		slog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("jobtrack starting", "addr", addr, "env", cfg.Server.Env)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	reminders.Stop()
	sentry.Flush(2 * time.Second)
	slog.Info("server stopped")
}
