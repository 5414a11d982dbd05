package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	delivery "social-analytics-backend/internal/delivery/http"
	"social-analytics-backend/internal/entity"
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
	upstreamWSURL := getenv("UPSTREAM_WS_URL", "")
	dbConnectDSN := getenv("DB_CONNECT_DSN", "user=postgres dbname=analytics sslmode=disable")
	kafkaBrokers := getenv("KAFKA_BROKERS", "localhost:9092")
	listenAddr := getenv("LISTEN_ADDR", "0.0.0.0:8080")

	// postgres
	dbConn, err := connector.GetPostgresConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Fatalf("failed to close database connection: %v", err)
		}
	}()
	goosehelper.MigrateUp(dbConn.DB, "./migrations")

	// repositories
	accountsRepo := postgres.NewAccounts(dbConn)
	snapshotCache := postgres.NewSnapshotCache(dbConn)
	overviewEvents, err := kafka.NewOverviewEventKafkaRepository(strings.Split(kafkaBrokers, ","))
	if err != nil {
		log.Fatalf("failed to create overview event repository: %v", err)
	}

	// usecases
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

	// live client against the upstream push channel; the poll fallback
	// refetches whatever selection was loaded last.
	var liveChannel usecase.LiveChannel
	liveChannel = service.NewLive(upstreamWSURL, func(ctx context.Context) (*entity.AnalyticsSnapshot, error) {
		current := liveChannel.Current()
		if current == nil {
			return nil, errors.New("no platform selected yet")
		}
		return analyticsUseCase.LoadSnapshot(ctx, current.Platform, current.AccountID)
	})
	if upstreamWSURL != "" {
		go liveChannel.Run(ctx)
	}

	// delivery
	analyticsDelivery := delivery.NewAnalytics(analyticsUseCase, accountsUseCase, liveChannel)
	liveDelivery := delivery.NewLive(overviewEvents)

	echoServer := echo.New()
	echoServer.Use(middleware.BodyLimit("10M"))
	echoServer.Use(middleware.Decompress())
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	echoServer.Use(middleware.RequestID())
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	api := echoServer.Group("/api")
	analytics := api.Group("/analytics")
	analyticsDelivery.Configure(analytics)
	ws := echoServer.Group("/ws")
	liveDelivery.Configure(ws)

	go func() {
		if err := liveDelivery.Run(ctx); err != nil {
			log.Errorf("overview broadcast stopped: %v", err)
		}
	}()
	go func(server *echo.Echo) {
		if err := server.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("server stopped: %v", err)
		}
	}(echoServer)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("error during server shutdown: %s", err)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
