package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/event-invitations/internal/application"
	"github.com/example/event-invitations/internal/config"
	"github.com/example/event-invitations/internal/dispatch"
	httptransport "github.com/example/event-invitations/internal/http"
	"github.com/example/event-invitations/internal/logging"
	"github.com/example/event-invitations/internal/messaging"
	"github.com/example/event-invitations/internal/messaging/smtp"
	"github.com/example/event-invitations/internal/messaging/twilio"
	"github.com/example/event-invitations/internal/persistence/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(parseLogLevel(cfg.LogLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	eventRepo := sqlite.NewEventRepository(db)
	guestRepo := sqlite.NewGuestRepository(db)
	hostRepo := sqlite.NewHostRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)

	eventService := application.NewEventServiceWithLogger(eventRepo, idGenerator, now, logger)
	guestService := application.NewGuestServiceWithLogger(guestRepo, eventRepo, idGenerator, now, logger)
	rsvpService := application.NewRSVPServiceWithLogger(eventService, guestRepo, now, logger)
	authService := application.NewAuthServiceWithLogger(hostRepo, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	hostService := application.NewHostServiceWithLogger(hostRepo, nil, idGenerator, now, logger)

	var emailSender messaging.EmailSender
	if cfg.SMTP.Configured() {
		emailSender = smtp.NewSender(smtp.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	} else {
		logger.Warn("smtp not configured, email channel disabled")
	}

	var textSender messaging.TextSender
	var classifier dispatch.OutcomeClassifier
	if cfg.Twilio.Configured() {
		textSender = twilio.NewSender(twilio.Config{
			AccountSID:   cfg.Twilio.AccountSID,
			AuthToken:    cfg.Twilio.AuthToken,
			SMSFrom:      cfg.Twilio.SMSFrom,
			WhatsAppFrom: cfg.Twilio.WhatsAppFrom,
		}, logger)
		classifier = twilio.NewOutcomeClassifier()
	} else {
		logger.Warn("twilio not configured, text channels disabled")
	}

	dispatcher := dispatch.NewDispatcher(
		emailSender,
		textSender,
		classifier,
		messaging.NewPhoneValidator(cfg.DefaultPhoneRegion),
		logger,
	)
	bulkDispatcher := dispatch.NewBulkDispatcher(dispatcher, cfg.DispatchDelay, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:        httptransport.NewAuthHandler(authService, logger),
		Hosts:       httptransport.NewHostHandler(hostService, logger),
		Events:      httptransport.NewEventHandler(eventService, logger),
		Guests:      httptransport.NewGuestHandler(guestService, logger),
		Invitations: httptransport.NewInvitationHandler(eventService, guestService, guestRepo, bulkDispatcher, cfg.BaseURL, logger),
		RSVP:        httptransport.NewRSVPHandler(rsvpService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("invitation API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
