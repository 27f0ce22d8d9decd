package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veriport/webfront/internal/webfront/cart"
	httpapi "github.com/veriport/webfront/internal/webfront/http"
	"github.com/veriport/webfront/internal/webfront/mail"
	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the web front end with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	api    *backendapi.Client
	carts  *cart.Store
	mailer *mail.Mailer

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("API_URL is required")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "webfront",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	app.api = backendapi.NewClient(cfg.APIURL)
	app.carts = cart.NewStore(app.logger, cfg.CartTTL)
	app.mailer = mail.New(mail.Config{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Secure:   cfg.EmailSecure,
		User:     cfg.EmailUser,
		Password: cfg.EmailPassword,
		From:     cfg.EmailFrom,
		SiteURL:  cfg.SiteURL,
	}, app.logger)

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.carts.StartJanitor(app.cfg.JanitorInterval)

	app.logger.Info("webfront starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"api_url", app.cfg.APIURL,
		"mail_enabled", app.cfg.EmailHost != "",
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down webfront...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the cart janitor. Carts are memory only; they die with the process.
	app.carts.StopJanitor()

	app.logger.Info("webfront stopped")
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		session.Store{Secure: app.cfg.SecureCookies()},
		app.api,
		app.carts,
		app.mailer,
		BuildVersion,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
