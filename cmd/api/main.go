package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/simonkvalheim/fjord-ledger/internal/bootstrap"
	"github.com/simonkvalheim/fjord-ledger/internal/handler"
	appMiddleware "github.com/simonkvalheim/fjord-ledger/internal/middleware"
	"github.com/simonkvalheim/fjord-ledger/internal/processor"
	"github.com/simonkvalheim/fjord-ledger/internal/queue"
	"github.com/simonkvalheim/fjord-ledger/internal/repository"
	"github.com/simonkvalheim/fjord-ledger/internal/service"
)

func main() {
	// Load configuration from environment
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The whole ledger lives in this process
	store := repository.NewStore(repository.WithBusinessZone(cfg.BusinessZone))
	log.Printf("Ledger store ready (business zone %s)", cfg.BusinessZone)

	// Initialize services and processor
	accountService := service.NewAccountService(store)
	paymentService := service.NewPaymentService(store)
	reportService := service.NewReportService(store)
	transferProcessor := processor.NewTransferProcessor(store)

	if cfg.SeedDemo {
		if err := bootstrap.SeedDemo(context.Background(), store, accountService); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Initialize queue publisher and worker if async mode is enabled
	var publisher *queue.Publisher
	var worker *queue.Worker
	var redisClient *redis.Client
	if cfg.AsyncMode {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		// Test Redis connection
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis (async mode enabled)")

		publisher = queue.NewPublisher(redisClient)
		worker = queue.NewWorker(redisClient, transferProcessor, paymentService, cfg.LockTimeout)
		go worker.Start(ctx)
	} else {
		log.Println("Running in sync mode (set ASYNC_MODE=true for async processing)")
	}

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(store)
	accountHandler := handler.NewAccountHandler(store, accountService)
	transferHandler := handler.NewTransferHandler(store, transferProcessor, paymentService, publisher)
	reportHandler := handler.NewReportHandler(reportService)
	commandHandler := handler.NewCommandHandler(publisher)

	// Set up router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.CORS(appMiddleware.CORSConfigFromList(cfg.CORSAllowedOrigins)))
	r.Use(middleware.Logger)    // Logs each request
	r.Use(middleware.Recoverer) // Recovers from panics gracefully

	r.Get("/health", handler.Health(store, redisClient))

	r.Route("/v1", func(r chi.Router) {
		// Bounds how long a request may wait for account guards
		r.Use(appMiddleware.LockTimeout(cfg.LockTimeout))

		customerHandler.RegisterRoutes(r)
		accountHandler.RegisterRoutes(r)
		transferHandler.RegisterRoutes(r)
		reportHandler.RegisterRoutes(r)
		commandHandler.RegisterRoutes(r)
	})

	// Start server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Graceful shutdown setup
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if worker != nil {
		worker.Stop()
	}

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// Config holds all configuration for the application
type Config struct {
	Port               string
	BusinessZone       *time.Location
	LockTimeout        time.Duration // Max wait for account guards per request
	CORSAllowedOrigins string
	RedisURL           string
	RedisPassword      string
	AsyncMode          bool // If true, use Redis queue for async processing
	SeedDemo           bool // If true, create demo customers on startup
}

// loadConfig reads configuration from environment variables
func loadConfig() (Config, error) {
	zoneName := getEnv("BUSINESS_TIMEZONE", "America/New_York")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return Config{}, fmt.Errorf("unknown BUSINESS_TIMEZONE %q: %w", zoneName, err)
	}

	lockTimeout, err := time.ParseDuration(getEnv("LOCK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOCK_TIMEOUT: %w", err)
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		BusinessZone:       zone,
		LockTimeout:        lockTimeout,
		CORSAllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		AsyncMode:          isTrue(os.Getenv("ASYNC_MODE")),
		SeedDemo:           isTrue(os.Getenv("SEED_DEMO")),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
