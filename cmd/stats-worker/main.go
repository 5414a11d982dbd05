package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/repo"
	"social-analytics-backend/internal/repo/kafka"
	"social-analytics-backend/internal/repo/postgres"
	"social-analytics-backend/internal/usecase"
	"social-analytics-backend/internal/usecase/service"
	"social-analytics-backend/internal/usecase/service/facebook"
	"social-analytics-backend/internal/usecase/service/instagram"
	"social-analytics-backend/internal/usecase/service/reddit"
	"social-analytics-backend/internal/usecase/service/twitter"
	"social-analytics-backend/pkg/connector"
	"social-analytics-backend/pkg/goosehelper"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info("no .env file found")
	}
	upstreamBaseURL := getenv("UPSTREAM_BASE_URL", "http://localhost:8081")
	dbConnectDSN := getenv("DB_CONNECT_DSN", "user=postgres dbname=analytics sslmode=disable")
	kafkaBrokers := getenv("KAFKA_BROKERS", "localhost:9092")

	workerInterval := time.Minute
	if raw := os.Getenv("STATS_WORKER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			workerInterval = parsed
		} else {
			log.Warnf("invalid STATS_WORKER_INTERVAL %q, using 1m", raw)
		}
	}

	dbConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() { _ = dbConn.Close() }()
	goosehelper.MigrateUp(dbConn.DB, "./migrations")

	accountsRepo := postgres.NewAccounts(dbConn)
	snapshotCache := postgres.NewSnapshotCache(dbConn)
	overviewEvents, err := kafka.NewOverviewEventKafkaRepository(strings.Split(kafkaBrokers, ","))
	if err != nil {
		log.Fatalf("failed to create overview event repository: %v", err)
	}

	accountsUseCase := service.NewAccounts(upstreamBaseURL, accountsRepo)
	analyticsUseCase := service.NewAnalytics(
		upstreamBaseURL,
		[]usecase.AnalyticsPlatform{
			facebook.NewAnalytics(),
			instagram.NewAnalytics(),
			twitter.NewAnalytics(),
			reddit.NewAnalytics(),
		},
		accountsUseCase,
		snapshotCache,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	log.Infof("starting overview refresh worker, interval %s", workerInterval)
	ticker := time.NewTicker(workerInterval)
	defer ticker.Stop()

	refreshAll(ctx, analyticsUseCase, accountsUseCase, overviewEvents)
	for {
		select {
		case <-ctx.Done():
			log.Info("overview refresh worker stopping")
			return
		case <-ticker.C:
			refreshAll(ctx, analyticsUseCase, accountsUseCase, overviewEvents)
		}
	}
}

// refreshAll refetches every platform's snapshot and publishes the resulting
// overview patch. Unconfigured platforms are skipped quietly; partial data
// still produces a patch.
func refreshAll(
	ctx context.Context,
	analytics usecase.Analytics,
	accounts usecase.Accounts,
	events repo.OverviewEventRepository,
) {
	for _, platform := range entity.Platforms {
		accountID := ""
		if platform.RequiresAccount() {
			selected, err := accounts.Selected(ctx, platform)
			if errors.Is(err, usecase.ErrAccountNotResolved) {
				continue
			}
			if err != nil {
				log.Errorf("failed to get selected account for %s: %v", platform, err)
				continue
			}
			if selected == "" {
				continue
			}
			accountID = selected
		}

		snapshot, err := analytics.LoadSnapshot(ctx, platform, accountID)
		if err != nil && !errors.Is(err, usecase.ErrPartialFailure) {
			if !errors.Is(err, usecase.ErrNoAccountConnected) {
				log.Errorf("failed to refresh %s snapshot: %v", platform, err)
			}
			continue
		}

		event := &entity.OverviewEvent{
			EventID:    uuid.NewString(),
			Platform:   platform,
			AccountID:  accountID,
			Overview:   snapshot.Overview,
			OccurredAt: time.Now(),
		}
		if err := events.PublishOverviewEvent(ctx, event); err != nil {
			log.Errorf("failed to publish overview event for %s: %v", platform, err)
		}
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
