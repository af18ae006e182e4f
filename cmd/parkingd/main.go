package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"parking-status-backend/config"
	"parking-status-backend/internal/api"
	"parking-status-backend/internal/db"
	"parking-status-backend/internal/notification"
	"parking-status-backend/internal/parking"
	"parking-status-backend/internal/store"
	"parking-status-backend/internal/ws"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "parking-backend ", log.LstdFlags)

	// A .env file is optional; real environment variables win either way.
	if err := godotenv.Load(); err == nil {
		logger.Println(".env file loaded")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
		}
		logger.Printf("no config file at %s, using defaults", configPath)
		cfg = config.Default()
	} else {
		logger.Printf("configuration loaded successfully from %s", configPath)
	}
	applyEnvOverrides(cfg)

	// Initialize the store layer
	appStore, err := initStore(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to initialize store: %v", err)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Provision the fleet
	fleet := store.BuildFleet(cfg.Fleet.Sections, cfg.Fleet.SpotsPerSection, time.Now().UTC())
	if err := appStore.SeedSpots(ctx, fleet); err != nil {
		logger.Fatalf("failed to seed parking spots: %v", err)
	}
	logger.Printf("fleet provisioned: %d sections x %d spots", len(cfg.Fleet.Sections), cfg.Fleet.SpotsPerSection)

	// Websocket hub for live dashboard updates
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Availability notifications run only when VAPID keys are configured.
	var webpushOptions *webpush.Options
	serviceOpts := []parking.Option{parking.WithBroadcaster(hub)}
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)
		serviceOpts = append(serviceOpts, parking.WithNotifier(pool))
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; availability notifications disabled")
	}

	svc := parking.NewService(appStore, serviceOpts...)

	// Initialize router
	router := api.NewRouter(cfg, appStore, svc, hub, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

// initStore picks the backend: gorm over postgres/sqlite, or plain memory.
func initStore(cfg *config.Config, logger *log.Logger) (store.Store, error) {
	if cfg.Database.Driver == "memory" {
		logger.Println("using in-memory store; data will not survive a restart")
		return store.NewMemoryStore(), nil
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Printf("database initialized (%s)", cfg.Database.Driver)
	return store.NewGormStore(gormDB), nil
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}
