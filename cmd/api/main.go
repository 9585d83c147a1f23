package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/logger"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/cache"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/commit"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/content"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/scheduler"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/streak"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.Environment)

	// SIGINT/SIGTERM でグレースフルシャットダウン
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"server_url":  cfg.ServerURL,
		"client_url":  cfg.ClientURL,
		"origins":     cfg.AllowedOrigins(),
		"store":       cfg.StoreDriver,
		"oauth":       cfg.GitHubClientID != "",
	}).Info("Starting DailyDiff backend")

	store, err := database.Open(ctx, database.Options{
		Driver:             cfg.StoreDriver,
		DatabaseURL:        cfg.DatabaseURL,
		AutoMigrate:        cfg.AutoMigrate,
		SupabaseURL:        cfg.SupabaseURL,
		SupabaseServiceKey: cfg.SupabaseServiceKey,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	ghOpts := github.DefaultOptions()
	ghOpts.BaseURL = cfg.GitHubAPIURL
	ghOpts.GraphQLURL = cfg.GitHubGraphQLURL
	ghOpts.RatePerSecond = cfg.GitHubRatePerSecond
	ghOpts.Burst = cfg.GitHubRateBurst
	factory := github.NewFactory(ghOpts)

	registry := content.NewRegistry(factory)
	executor := commit.NewExecutor(factory, registry)
	streaks := streak.NewService(factory, cache.NewMemory[streak.Result](cfg.StreakCacheTTL))
	contributions := cache.NewDisk[[]models.ContributionDay](cfg.ContributionsCacheFile, cfg.ContributionsCacheTTL)

	var sched *scheduler.Service
	if cfg.SchedulerEnabled {
		sched = scheduler.New(scheduler.Config{
			Spec:          cfg.SchedulerSpec,
			JobTimeout:    cfg.JobTimeout,
			ProbeTimeout:  cfg.ProbeTimeout,
			FetchAttempts: cfg.FetchAttempts,
			FetchBackoff:  cfg.FetchBackoff,
		}, store.Schedules, executor, github.NewProber(cfg.GitHubAPIURL, cfg.ProbeTimeout))
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		log.Warn("Scheduler disabled (SCHEDULER_ENABLED=false)")
	}

	sessions := middleware.NewSessionManager(cfg.EffectiveSessionSecret(), cfg.SessionTTL, cfg.IsProduction())
	h := api.Handlers{
		Public:        handlers.NewPublicHandler(registry, cfg.Environment),
		Auth:          handlers.NewAuthHandler(handlers.NewOAuthConfig(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.ServerURL), factory, store.Users, sessions, cfg.ClientURL, cfg.IsProduction()),
		User:          handlers.NewUserHandler(store.Users, streaks),
		Schedule:      handlers.NewScheduleHandler(store.Schedules),
		Commit:        handlers.NewCommitHandler(store.Schedules, store.Users, executor),
		Contributions: handlers.NewContributionHandler(store.Users, factory, contributions),
	}
	if cfg.DebugEndpoints {
		log.Warn("Debug endpoints enabled: /api/debug/schedules, /api/test-contributions")
		h.Debug = handlers.NewDebugHandler(store.Schedules)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(h, sessions, cfg.AllowedOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	log.Info("Shutdown completed")
	return nil
}
