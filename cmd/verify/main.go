package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/owdb/wrestlebot/internal/cloudsql"
	"github.com/owdb/wrestlebot/internal/config"
	"github.com/owdb/wrestlebot/internal/database"
	"github.com/owdb/wrestlebot/internal/integrity"
	"github.com/owdb/wrestlebot/internal/logging"
	"github.com/owdb/wrestlebot/internal/metrics"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report violations without writing repairs")
	pushURL := flag.String("pushgateway", os.Getenv("PUSHGATEWAY_URL"), "push metrics here after the run")
	flag.Parse()

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

	dbURL, err := cloudsql.BuildDatabaseURL()
	if err != nil {
		logger.Error("database not configured", "error", err)
		os.Exit(1)
	}
	logger.Info("connecting", "database", cloudsql.RedactedURL(dbURL))

	ctx := context.Background()
	db, err := database.Connect(ctx, database.DefaultConfig(dbURL))
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	verifier := integrity.New(
		database.NewMatchRepository(db),
		database.NewTitleRepository(db),
		logger,
		*dryRun,
	)

	collector, err := metrics.NewBotCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	report, err := verifier.Run(ctx)
	if err != nil {
		logger.Error("integrity pass failed", "error", err)
		os.Exit(1)
	}

	for _, v := range report.Violations {
		collector.RecordViolation(string(v.Type))
		logger.Info("violation",
			"type", v.Type,
			"match_id", v.MatchID,
			"remediation", v.Remediation,
			"applied", v.Applied,
			"detail", v.Detail)
	}
	if *pushURL != "" {
		err := push.New(*pushURL, "wrestlebot_verify").
			Gatherer(collector.Registry()).
			Push()
		if err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	logger.Info("done",
		"violations", len(report.Violations),
		"titles_merged", report.TitlesMerged,
		"promotions_filled", report.PromotionsFilled,
		"matches_examined", report.MatchesExamined,
		"dry_run", *dryRun)
}
