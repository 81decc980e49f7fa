// Package internal provides the main application initialization and runtime logic.
package internal

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

	"golang.org/x/sync/errgroup"

	"github.com/starford/cosense-mcp/internal/api"
	"github.com/starford/cosense-mcp/internal/cosense"
	"github.com/starford/cosense-mcp/internal/journal"
	"github.com/starford/cosense-mcp/internal/mcpserver"
	"github.com/starford/cosense-mcp/internal/pageclient"
	"github.com/starford/cosense-mcp/internal/sse"
)

const shutdownTimeout = 10 * time.Second

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// stdout carries the stdio transport, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	tools := cfg.Tools.Resolve()
	logger.Info("Configuration loaded",
		slog.String("project", cfg.Cosense.Project),
		slog.String("host", cfg.Cosense.Host),
		slog.String("transport", cfg.App.Transport),
		slog.Any("tools", tools),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rest := cosense.NewREST(cfg.Cosense.Host, nil)
	patcher := cosense.NewPatcher(cfg.Cosense.Host, rest)
	identity := pageclient.Identity{Project: cfg.Cosense.Project, Credential: cfg.Cosense.Cookie}

	mcpCfg := mcpserver.Config{
		Project: cfg.Cosense.Project,
		Version: app.version,
		Tools:   tools,
		Logger:  logger,
	}

	var jr journal.Journal
	if cfg.Journal.Enabled() {
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("init journal: %w", err)
		}
		defer db.Close()
		jr = db
		mcpCfg.Journal = db
	}

	var broker *sse.Broker
	if cfg.App.Transport == TransportHTTP {
		broker = sse.NewBroker(2 * time.Second)
		defer broker.Close()
		mcpCfg.Events = broker
	}

	srv := mcpserver.New(
		pageclient.NewReadClient(rest, identity),
		pageclient.NewWriteClient(patcher, identity, cfg.Cosense.BaseURL()),
		mcpCfg,
	)

	g, gCtx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gCtx)
	defer stop()

	var httpServer *http.Server
	switch cfg.App.Transport {
	case TransportHTTP:
		mcpHTTP := srv.HTTPHandler()
		httpServer = &http.Server{
			Addr: cfg.App.HTTP.Address(),
			Handler: api.NewRouter(api.Deps{
				MCP:     mcpHTTP,
				Events:  broker,
				Journal: jr,
				Ready: func(ctx context.Context) error {
					_, err := rest.ProjectID(ctx, cfg.Cosense.Project, cosense.Options{SID: cfg.Cosense.Cookie})
					return err
				},
				AuthEnabled: cfg.Auth.AuthEnabled(),
				Token:       cfg.Auth.Token,
			}),
		}

		g.Go(func() error {
			defer stop()
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
				logger.Error("MCP session shutdown error", slog.String("error", err.Error()))
			}
		}()

	default:
		g.Go(func() error {
			defer stop()
			logger.Info("Serving MCP over stdio")
			if err := srv.ServeStdio(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-runCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		stop()

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
