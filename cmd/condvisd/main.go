package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/haukened/condvis/internal/visibility/common/compat"
	"github.com/haukened/condvis/internal/visibility/common/log"
	"github.com/haukened/condvis/internal/visibility/config"
	"github.com/haukened/condvis/internal/visibility/gateways/markup"
	"github.com/haukened/condvis/internal/visibility/gateways/transport"
	"github.com/haukened/condvis/internal/visibility/repos/terms"
	"github.com/haukened/condvis/internal/visibility/services/visibility"
)

const (
	version = "0.1.0-dev"
	appName = "condvisd"
)

// ErrIncompatibleHost is returned by buildApplication when the host platform
// check fails. The feature stays disabled and the daemon does not start.
var ErrIncompatibleHost = errors.New("incompatible host platform")

// Application holds all the components of the daemon.
type Application struct {
	config    *config.AppConfig
	transport *transport.HTTPTransport
	handler   *handlerSet
}

// handlerSet keeps the pieces behind the HTTP handler reachable for logging and tests.
type handlerSet struct {
	adapter  *visibility.Adapter
	rewriter *markup.Rewriter
	terms    *terms.Repository
	upstream *url.URL
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":      version,
		"env":          cfg.Env,
		"log_level":    cfg.LogLevel,
		"port":         cfg.Port,
		"upstream":     cfg.Upstream,
		"terms_file":   cfg.TermsFile,
		"element":      cfg.Element,
		"host_version": cfg.HostVersion,
	}, "Starting "+appName)

	app, err := buildApplication(cfg)
	if err != nil {
		if notice := compat.Notice(err); notice != "" {
			fmt.Fprintln(os.Stderr, notice)
		}
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, appName+" stopped gracefully")
}

// buildApplication checks host compatibility and wires all components.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	if err := compat.Check(cfg.HostVersion, cfg.HostMinimum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleHost, err)
	}

	logger := log.GetLogger()

	hs, err := buildHandlers(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build handlers: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	return &Application{
		config:    cfg,
		transport: transport.NewHTTPTransport(addr, logger),
		handler:   hs,
	}, nil
}

// buildHandlers loads the term file and constructs the adapter and rewriter.
func buildHandlers(cfg *config.AppConfig, logger log.Logger) (*handlerSet, error) {
	hs := &handlerSet{rewriter: markup.NewRewriter(logger)}

	if cfg.TermsFile != "" {
		repo, err := terms.LoadFile(cfg.TermsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load terms: %w", err)
		}
		hs.terms = repo
		log.Info(map[string]any{
			"terms_file":  cfg.TermsFile,
			"terms":       len(repo.Terms()) - 1,
			"assignments": repo.Assignments(),
		}, "Domain terms loaded")
	}

	opts := visibility.AdapterOptions{ElementName: cfg.Element, Logger: logger}
	if hs.terms != nil {
		opts.Terms = hs.terms
	}
	hs.adapter = visibility.NewAdapter(opts)

	if cfg.Upstream != "" {
		u, err := url.Parse(cfg.Upstream)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream: %w", err)
		}
		hs.upstream = u
		log.Info(map[string]any{"upstream": u.String(), "max_body": cfg.MaxBody}, "Rewriting proxy configured")
	}

	return hs, nil
}

// httpHandler assembles the transport handler.
func (app *Application) httpHandler() transport.HandlerOptions {
	opts := transport.HandlerOptions{
		Upstream: app.handler.upstream,
		Adapter:  app.handler.adapter,
		Rewriter: app.handler.rewriter,
		Logger:   log.GetLogger(),
		MaxBody:  app.config.MaxBody,
	}
	if app.handler.terms != nil {
		opts.Terms = app.handler.terms
	}
	return opts
}

// Run starts the HTTP transport and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	// Run owns shutdown, so the transport must not stop on its own when ctx ends.
	if err := app.transport.Start(context.WithoutCancel(ctx), transport.NewHandler(app.httpHandler())); err != nil {
		return fmt.Errorf("failed to start HTTP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "HTTP",
	}, "Server started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info(nil, "Graceful shutdown completed")
	return nil
}
