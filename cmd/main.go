package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ledger-service/internal/config"
	"ledger-service/internal/database/minio"
	"ledger-service/internal/database/postgres"
	"ledger-service/internal/database/redis"
	"ledger-service/internal/event"
	"ledger-service/internal/handlers"
	"ledger-service/internal/repository"
	"ledger-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
)

func setupLogging(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// slog's default handler writes through the log package
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return file, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using process environment")
	}
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		fmt.Printf("Failed to set up file logging, using stderr: %v\n", err)
	} else {
		defer logFile.Close()
	}

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		slog.Error("error connect to database", "error", err)
		// the repository needs a live handle, so startup waits here
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	var publisher services.EventPublisher
	var publisherHealth handlers.PublisherHealth
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, ledger events disabled", "error", err)
	} else {
		defer rabbitConn.Close()
		ledgerPublisher := event.NewLedgerPublisher(rabbitConn)
		publisher = ledgerPublisher
		publisherHealth = ledgerPublisher
	}

	var images services.BillImageStore
	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		slog.Warn("MinIO unavailable, bill image upload disabled", "error", err)
	} else {
		defer minioClient.Close()
		images = minioClient
	}

	var revocation handlers.RevocationChecker
	if cfg.AuthCfg.JWTSecret != "" {
		redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
		if err != nil {
			slog.Warn("Redis unavailable, token revocation checks disabled", "error", err)
		} else {
			defer redisClient.Close()
			revocation = redisClient
		}
	} else {
		slog.Info("JWT_SECRET not set, trusting gateway X-User-ID header")
	}

	ledgerRepo := repository.NewLedgerRepository(db)
	ledgerService := services.NewLedgerService(ledgerRepo, publisher, images)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, handlers.NewResponseFormatter(cfg.ResponseCfg.CamelAliases))

	app := fiber.New()
	handlers.NewHealthHandler(func(ctx context.Context) error {
		return postgres.CheckHealth(ctx, db)
	}, publisherHealth).Register(app)

	var middleware []fiber.Handler
	if cfg.RateLimitCfg.Enabled {
		limiter := handlers.NewRateLimiter(cfg.RateLimitCfg.RequestsPerSec, cfg.RateLimitCfg.Burst, cfg.RateLimitCfg.ClientIdleAfter)
		defer limiter.Stop()
		middleware = append(middleware, limiter.Limit())
	}
	auth := handlers.NewAuthMiddleware(cfg.AuthCfg.JWTSecret, cfg.AuthCfg.JWTIssuer, revocation)
	middleware = append(middleware, auth.RequireAdmin())

	ledgerHandler.Register(app, middleware...)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			slog.Error("error starting server", "error", err)
			shutdownChan <- syscall.SIGTERM
		}
	}()

	<-shutdownChan
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
