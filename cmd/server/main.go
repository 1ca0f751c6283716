package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"privacy-pay.backend/internal/config"
	"privacy-pay.backend/internal/domain/repositories"
	"privacy-pay.backend/internal/infrastructure/jobs"
	"privacy-pay.backend/internal/infrastructure/relayer"
	infraRepos "privacy-pay.backend/internal/infrastructure/repositories"
	"privacy-pay.backend/internal/infrastructure/solana"
	"privacy-pay.backend/internal/interfaces/http/handlers"
	"privacy-pay.backend/internal/interfaces/http/middleware"
	"privacy-pay.backend/internal/usecases"
	"privacy-pay.backend/pkg/logger"
	"privacy-pay.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Select the link store backend
	var (
		linkRepo   repositories.PaymentLinkRepository
		recordRepo repositories.PaymentRecordRepository
	)
	switch cfg.Store.Backend {
	case "postgres":
		db, err := openDB(cfg.Database.URL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := getStdDB(db)
		if err != nil {
			return fmt.Errorf("failed to get generic database object: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
		} else {
			log.Println("✅ Connected to PostgreSQL via GORM")
		}

		linkRepo = infraRepos.NewPaymentLinkRepository(db)
		recordRepo = infraRepos.NewPaymentRecordRepository(db)
	default:
		store := infraRepos.NewMemoryStore()
		linkRepo = store.Links()
		recordRepo = store.Records()
		log.Println("💾 Using in-memory payment link store")
	}

	// Initialize relayer client and token registry
	relayerClient := relayer.NewClient(cfg.Relayer.BaseURL, cfg.Relayer.Timeout)
	registry := solana.NewRegistry()

	// Initialize usecases
	linkUsecase := usecases.NewPaymentLinkUsecase(linkRepo, recordRepo, registry)
	feeUsecase := usecases.NewFeeUsecase(relayerClient)

	// Initialize handlers
	paymentLinkHandler := handlers.NewPaymentLinkHandler(linkUsecase, cfg.Links.BaseURL)
	feeHandler := handlers.NewFeeHandler(feeUsecase, registry)
	tokenHandler := handlers.NewTokenHandler(registry)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsJob := jobs.NewLinkMetricsJob(linkRepo)
	go metricsJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		paymentLinkHandler: paymentLinkHandler,
		feeHandler:         feeHandler,
		tokenHandler:       tokenHandler,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		metricsJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Privacy Pay Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
