package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rcastillo/chartsight/internal/account"
	"github.com/rcastillo/chartsight/internal/ai"
	"github.com/rcastillo/chartsight/internal/analysis"
	"github.com/rcastillo/chartsight/internal/config"
	"github.com/rcastillo/chartsight/internal/logger"
	"github.com/rcastillo/chartsight/internal/quota"
	"github.com/rcastillo/chartsight/internal/storage"
	"github.com/rcastillo/chartsight/internal/telegram"
	"github.com/rcastillo/chartsight/internal/web"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yml")
	dbPath := flag.String("db", "", "path to SQLite database (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting chartsight", zap.String("db", cfg.Database.Path))

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	accounts := account.NewService(repo, log)
	if err := accounts.EnsureAdmin(cfg.Admin); err != nil {
		log.Error("admin bootstrap failed", zap.Error(err))
		os.Exit(1)
	}

	tracker := quota.NewTracker(repo)
	model := ai.NewClient(cfg, log)
	forwarder := telegram.NewForwarder(log)
	analyses := analysis.NewService(model, tracker, repo, log)

	server := web.NewServer(accounts, analyses, tracker, repo, forwarder, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", zap.Error(err))
	}

	log.Info("chartsight stopped")
}
