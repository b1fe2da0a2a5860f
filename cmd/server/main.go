package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staysync-service/internal/infrastructure/config"
	"staysync-service/internal/infrastructure/persistence"
	"staysync-service/internal/interface/httpapi"
	"staysync-service/internal/interface/ical"
	"staysync-service/internal/interface/repository"
	"staysync-service/internal/usecase"
	"staysync-service/pkg/logger"
	"staysync-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting StaySync Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the sync-run audit trail
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL connection and migrate tables
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	propertyRepo := repository.NewGormPropertyRepository(gormDB)
	calendarRepo := repository.NewGormCalendarRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	feedRepo := repository.NewGormFeedRepository(gormDB)
	syncRunRepo := repository.NewMongoSyncRunRepository(mongoDB)

	// Set up metrics
	m := metrics.NewMetrics("staysync")

	// Set up usecases
	resolver := usecase.NewAvailabilityResolver(calendarRepo, bookingRepo, propertyRepo, log)
	bookingService := usecase.NewBookingService(bookingRepo, calendarRepo, propertyRepo, resolver, m, log)
	bulkApplier := usecase.NewBulkApplier(calendarRepo, propertyRepo, log)

	fetcher := ical.NewFetcher(cfg.FeedFetchTimeout, log)
	parser := ical.NewParser(log)
	orchestrator := usecase.NewSyncOrchestrator(feedRepo, calendarRepo, syncRunRepo, fetcher, parser, m, log).
		WithFeedPause(cfg.FeedPause)
	scheduler := usecase.NewSyncScheduler(orchestrator, cfg.SyncInterval, log)

	// Register sync timers for every property that already has active feeds
	propertyIDs, err := feedRepo.ListPropertiesWithActiveFeeds(ctx)
	if err != nil {
		log.Error("Failed to list properties with active feeds", "error", err)
	}
	for _, id := range propertyIDs {
		if err := scheduler.Start(id); err != nil {
			log.Error("Failed to schedule property sync", "propertyId", id, "error", err)
		}
	}
	log.Info("Sync schedulers registered", "properties", len(propertyIDs))

	// Set up the HTTP API
	handler := httpapi.NewHandler(bookingService, resolver, bulkApplier, orchestrator, scheduler,
		feedRepo, propertyRepo, syncRunRepo, cfg.ExportHorizonDays, log)

	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Register(engine)

	apiServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Set up HTTP server for metrics
	opsMux := http.NewServeMux()
	opsMux.Handle("/metrics", promhttp.Handler())
	opsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	opsServer := &http.Server{
		Addr:         ":" + cfg.OpsPort,
		Handler:      opsMux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP servers in goroutines
	go func() {
		log.Info("Starting API server", "port", cfg.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server error", "error", err)
		}
	}()

	go func() {
		log.Info("Starting ops server", "port", cfg.OpsPort)
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Ops server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	scheduler.Shutdown()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("API server shutdown error", "error", err)
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Ops server shutdown error", "error", err)
	}

	// Disconnect from MongoDB before cancelling the root context, a
	// cancelled context would fail the disconnect itself
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	log.Info("StaySync Service stopped")
}
