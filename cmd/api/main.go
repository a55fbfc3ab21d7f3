// Package main is the entry point for the courier API server.
//
// It loads configuration, connects to PostgreSQL, wires the email and CRM
// provider clients, builds the HTTP server with the core chassis, and serves
// until SIGINT/SIGTERM triggers a graceful shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"

	"courier/internal/api/handlers"
	"courier/internal/config"
	"courier/internal/contacts"
	"courier/internal/core"
	"courier/internal/db"
	"courier/internal/external"
	"courier/internal/mail"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so main can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("courier starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
		"mail_provider", cfg.Mail.Provider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:               cfg.Database.URL,
		MaxConns:          cfg.Database.MaxConns,
		MinConns:          cfg.Database.MinConns,
		AcquireTimeout:    cfg.Database.AcquireTimeout,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	templates := db.NewTemplateRepository(pool)
	roles := db.NewUserRoleRepository(pool)

	provider, err := buildEmailProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("building email provider: %w", err)
	}
	mailSvc := mail.NewService(templates, provider, cfg.Mail.MaxInFlight, logger)

	contactProvider := buildContactProvider(cfg, logger)
	contactsSvc := contacts.NewService(contactProvider, cfg.Emarsys.RegistrationContactListID, logger)

	srv, err := core.NewServer(cfg, logger, roles, pool)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	h := handlers.New(srv, mailSvc, templates, roles, contactsSvc)
	srv.RouteRegistrars = append(srv.RouteRegistrars, func(r chi.Router) {
		h.Register(r)
	})
	srv.MountRoutes()

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// buildEmailProvider selects the outbound transport from configuration.
func buildEmailProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (external.EmailProvider, error) {
	switch cfg.Mail.Provider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS configuration: %w", err)
		}
		return external.NewSESClient(awsCfg, external.SESClientConfig{
			FromEmail:     cfg.Mail.FromEmail,
			ConfigSetName: cfg.SES.ConfigSetName,
			Logger:        logger,
		}), nil
	default:
		return external.NewSendGridClient(
			&http.Client{Timeout: cfg.Mail.SendTimeout},
			external.SendGridClientConfig{
				APIKey:    cfg.SendGrid.APIKey,
				FromEmail: cfg.Mail.FromEmail,
				BaseURL:   cfg.SendGrid.BaseURL,
				Logger:    logger,
			},
		), nil
	}
}

// buildContactProvider wires the Emarsys client, or the in-process stub when
// running in test mode without credentials.
func buildContactProvider(cfg *config.Config, logger *slog.Logger) external.ContactProvider {
	if !cfg.Emarsys.Configured() {
		logger.Warn("emarsys credentials absent, using stub contact provider")
		return external.NewStubEmarsysClient(logger)
	}
	return external.NewEmarsysClient(
		&http.Client{Timeout: cfg.Mail.SendTimeout},
		external.EmarsysClientConfig{
			BaseURL:       cfg.Emarsys.BaseURL,
			UsernameToken: cfg.Emarsys.UsernameToken,
			APISecretKey:  cfg.Emarsys.APISecretKey,
			Logger:        logger,
		},
	)
}

// newLogger builds the process logger: JSON in deployed environments, text
// locally.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Environment == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", cfg.Service)
}
