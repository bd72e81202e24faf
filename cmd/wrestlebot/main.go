package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/owdb/wrestlebot/internal/bot"
	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/cloudsql"
	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/database"
	"github.com/owdb/wrestlebot/internal/discovery"
	"github.com/owdb/wrestlebot/internal/fetch"
	"github.com/owdb/wrestlebot/internal/logging"
	"github.com/owdb/wrestlebot/internal/merge"
	"github.com/owdb/wrestlebot/internal/metrics"
	"github.com/owdb/wrestlebot/internal/models"
	"github.com/owdb/wrestlebot/internal/server"
	"github.com/owdb/wrestlebot/internal/sources"
	"github.com/owdb/wrestlebot/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	if err := cfg.ValidateStore(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting wrestlebot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := metrics.NewBotCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	// The activity log needs a direct database connection; the daemon
	// runs without one when DATABASE_URL is unset.
	var activity bot.ActivityLogger
	if cloudsql.Configured() {
		dbURL, err := cloudsql.BuildDatabaseURL()
		if err != nil {
			logger.Error("failed to build database URL", "error", err)
			os.Exit(1)
		}
		db, err := database.Connect(ctx, database.DefaultConfig(dbURL))
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		activity = database.NewActivityLogRepository(db)
		logger.Info("activity logging enabled", "database", cloudsql.RedactedURL(dbURL))
	}

	breakers := breaker.NewManager(breaker.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Timeout:          cfg.Breaker.Timeout,
		HalfOpenRequests: cfg.Breaker.HalfOpenRequests,
	}, logger)

	wikipedia := sources.NewWikipedia(
		fetch.New(cfg.Sources.WikipediaDelay, cfg.Store.Timeout),
		breakers.Get(sources.SourceWikipedia),
		logger,
	)
	tmdb := sources.NewTMDB(
		cfg.Sources.TMDBAPIKey,
		fetch.New(cfg.Sources.TMDBDelay, cfg.Store.Timeout),
		breakers.Get(sources.SourceTMDB),
		logger,
	)
	rss := sources.NewRSS(
		fetch.New(cfg.Sources.WikipediaDelay, cfg.Store.Timeout),
		breakers.Get(sources.SourceRSS),
		logger,
	)
	adapters := []sources.Adapter{
		wikipedia,
		sources.NewCagematch(),
		sources.NewProFightDB(),
		tmdb,
	}

	entityStore := store.NewClient(cfg.Store, logger)

	skip := discovery.NewSkipSet(cfg.Bot.SkipSetSize)
	seedSkipSet(ctx, skip, entityStore, logger)

	engine := discovery.New(wikipedia, wikipedia, skip,
		cfg.Bot.DiscoveryLimit, cfg.Bot.RotationWindow, logger)

	orchestrator := bot.New(cfg.Bot, entityStore, engine, merge.New(),
		wikipedia, adapters, collector, logger, bot.Options{
			Classifier: bot.NewPageClassifier(cfg.Sources.OpenAIAPIKey, logger),
			Activity:   activity,
			Breakers:   breakers,
			TMDB:       tmdb,
			RSS:        rss,
		})

	srv := server.New(cfg.Metrics.Port, collector, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("metrics endpoint failed", "error", err)
		}
	}()

	orchestrator.Run(ctx)

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("metrics endpoint shutdown failed", "error", err)
	}
	logger.Info("wrestlebot stopped")
}

// seedSkipSet preloads the skip set with every key already in the
// catalog so discovery never re-fetches known entities. Failures are
// non-fatal; the store's Exists check still catches duplicates.
func seedSkipSet(ctx context.Context, skip *discovery.SkipSet, entityStore store.EntityStore, logger *slog.Logger) {
	for _, entityType := range []models.EntityType{
		models.EntityTypeWrestler,
		models.EntityTypePromotion,
		models.EntityTypeEvent,
		models.EntityTypeTitle,
		models.EntityTypeVenue,
		models.EntityTypeStable,
	} {
		names, err := entityStore.ListNames(ctx, entityType)
		if err != nil {
			logger.Warn("skip set seeding failed", "entity_type", entityType, "error", err)
			continue
		}
		skip.Seed(names)
	}
	logger.Info("skip set seeded", "size", skip.Len())
}
