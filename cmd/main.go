/**
 * @description
 * This is the main entry point for the notification-service, the transactional
 * messaging backend of the MoneyPay banking front end. It wires together the OTP
 * store, the SMTP mailer, the optional Redis rate limiter and the optional
 * RabbitMQ alert consumer, then serves the HTTP API.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Connects a pgx pool for the persisted OTP store.
 * - Starts a background consumer that mails receipts for completed transactions.
 * - Implements graceful shutdown to ensure clean resource cleanup on termination.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go HTTP services.
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - github.com/jackc/pgx/v5: PostgreSQL connection pooling.
 * - github.com/redis/go-redis/v9: Optional distributed rate limiting.
 * - The service's internal packages for config, API handling, storage and mail.
 */
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/moneypay/notification-service/internal/api"
	"github.com/moneypay/notification-service/internal/app"
	"github.com/moneypay/notification-service/internal/config"
	"github.com/moneypay/notification-service/internal/store"
	"github.com/moneypay/notification-service/pkg/mailer"
	"github.com/moneypay/notification-service/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}
	if strings.TrimSpace(cfg.OTPTokenSecret) == "" {
		log.Fatalf("level=fatal component=bootstrap msg=\"otp token secret must be configured\" env=OTP_TOKEN_SECRET")
	}

	log.Printf("level=info component=bootstrap msg=\"starting notification-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL OTP store.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}
	poolConfig.MaxConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Optional Redis-backed rate limiter; without it OTP requests are unbounded,
	// which matches the documented external contract.
	var limiter app.RateLimiter
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; otp rate limiting disabled\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url invalid; otp rate limiting disabled\" err=%v", parseErr)
		} else {
			limiter = app.NewRedisRateLimiter(redis.NewClient(redisOptions), cfg.RedisRateLimitPrefix)
			log.Println("level=info component=bootstrap msg=\"redis rate limiter enabled\"")
		}
	}

	smtpMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFromEmail)
	if !smtpMailer.Configured() {
		log.Println("level=warn component=bootstrap msg=\"smtp credentials missing; sends will fail with a configuration error\"")
	}

	repo := store.NewPostgresRepository(dbpool)
	svc := app.NewService(repo, smtpMailer, limiter, cfg.OTPTokenSecret)
	svc.IssueLimit = cfg.OTPIssueLimit
	svc.IssueWindow = time.Duration(cfg.OTPIssueWindowSeconds) * time.Second
	svc.VerifyLimit = cfg.OTPVerifyLimit
	svc.VerifyWindow = time.Duration(cfg.OTPVerifyWindowSeconds) * time.Second

	// Start the RabbitMQ alert consumer when an event bus is configured. Missing
	// RabbitMQ must not prevent the HTTP surface from booting.
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; transaction event alerts disabled\" env=RABBITMQ_URL")
	} else {
		consumer, consErr := rabbitmq.NewConsumer(cfg.RabbitMQURL)
		if consErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq unavailable; transaction event alerts disabled\" err=%v", consErr)
		} else {
			defer consumer.Close()
			handler := app.NewAlertEventHandler(svc)
			go func() {
				if err := consumer.Consume(cfg.TransactionExchange, cfg.TransactionQueue, cfg.TransactionRouteKey, handler.HandleTransactionCompletedEvent); err != nil {
					log.Printf("level=error component=consumer msg=\"transaction event consumer stopped\" err=%v", err)
				}
			}()
			log.Println("level=info component=bootstrap msg=\"transaction event consumer started\"")
		}
	}

	r := api.NewRouter(api.NewHandler(svc))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	// Graceful shutdown logic.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
