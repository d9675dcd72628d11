package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ironsheep/chris-mcp/internal/catalog"
	"github.com/ironsheep/chris-mcp/internal/config"
	"github.com/ironsheep/chris-mcp/internal/jobs"
	"github.com/ironsheep/chris-mcp/internal/pipeline"
	"github.com/ironsheep/chris-mcp/internal/server"
	"github.com/ironsheep/chris-mcp/internal/tools"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		showVersion = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("chris-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log := newLogger()

	if err := run(context.Background(), log, *configPath); err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger: structured, to stderr, level
// from CHRIS_MCP_LOG_LEVEL.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("CHRIS_MCP_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, log *slog.Logger, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	def := pipeline.Default()
	if cfg.Pipeline.File != "" {
		if def, err = pipeline.Load(cfg.Pipeline.File); err != nil {
			return err
		}
	}
	log.Info("pipeline loaded", "name", def.Name, "steps", len(def.Steps))

	store := jobs.NewStore(jobs.WithMaxJobs(cfg.Jobs.MaxJobs))
	cat := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout.Std(), cfg.Catalog.MaxRetries)

	toolset := &tools.Toolset{
		Jobs:         store,
		Pipeline:     def,
		Catalog:      cat,
		StepDuration: cfg.Pipeline.StepDuration.Std(),
	}
	registry := tools.NewRegistry()
	if err := toolset.RegisterAll(registry); err != nil {
		return err
	}

	srv := server.New(log, registry, Version)
	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr, "version", Version)
		serverErrors <- httpSrv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown started", "signal", sig.String())
		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			_ = httpSrv.Close()
			return fmt.Errorf("graceful shutdown: %w", err)
		}
	}
	return nil
}
