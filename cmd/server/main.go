package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewlog-service/internal/infrastructure/config"
	"crewlog-service/internal/infrastructure/persistence"
	httpiface "crewlog-service/internal/interface/http"
	"crewlog-service/internal/interface/repository"
	"crewlog-service/internal/usecase"
	"crewlog-service/pkg/logger"
	"crewlog-service/pkg/metrics"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Crewlog Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for the extraction attempt archive
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL for uploads and the logbook
	gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	if err := repository.Migrate(gormDB); err != nil {
		log.Fatal("Failed to migrate database schema", "error", err)
	}

	// Set up repositories
	uploadRepo := repository.NewGormUploadRepository(gormDB)
	logbookRepo := repository.NewGormLogbookRepository(gormDB)
	attemptRepo := repository.NewMongoAttemptRepository(mongoDB)
	visionRepo := repository.NewOpenAIVisionRepository(repository.VisionConfig{
		BaseURL:     cfg.VisionBaseURL,
		APIKey:      cfg.VisionAPIKey,
		Model:       cfg.VisionModel,
		Temperature: float32(cfg.VisionTemperature),
	}, log)

	// Set up the extraction pipeline
	validator, err := usecase.NewValidator()
	if err != nil {
		log.Fatal("Failed to compile roster schemas", "error", err)
	}
	m := metrics.NewMetrics("crewlog")
	processor := usecase.NewRosterProcessor(
		uploadRepo, logbookRepo, visionRepo, attemptRepo,
		validator, m, log, cfg.VisionModel, cfg.ExtractTimeout,
	)

	// Set up HTTP server
	handler := httpiface.NewHandler(processor, log, int64(cfg.MaxUploadMB)*1024*1024)
	router := httpiface.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
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

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop any in-flight work

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Crewlog Service stopped")
}
