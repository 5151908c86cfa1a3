package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/xapidoc/internal/api"
	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/config"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/parser"
	"github.com/dgallion1/xapidoc/internal/pathstore"
	"github.com/dgallion1/xapidoc/internal/pipeline"
	"github.com/dgallion1/xapidoc/internal/version"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	classifier, err := classify.LoadOrDefault(cfg.StyleRules)
	if err != nil {
		log.Error("load style rules", "path", cfg.StyleRules, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	var ps *pathstore.Client
	if cfg.PublishEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
	} else {
		log.Warn("PATHSTORE_URL not set, publishing disabled")
	}

	ex := extract.New(parser.New(classifier), log)
	ex.Sections = cfg.Sections()
	ex.Columns = cfg.Columns()
	ex.Stats = extract.NewParseStats(cfg.StatsWindow)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, ex, ps, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting xapidoc",
		"port", cfg.Port,
		"version", version.Version,
		"rules", len(classifier.Rules()),
		"publish", cfg.PublishEnabled())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
