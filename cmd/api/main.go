package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/softalya/foodcourt/internal/auth"
	"github.com/softalya/foodcourt/internal/http/dispatch"
	"github.com/softalya/foodcourt/internal/mailer"
	"github.com/softalya/foodcourt/internal/migrations"
	"github.com/softalya/foodcourt/internal/ratelimit"
	"github.com/softalya/foodcourt/internal/repo/postgres"
	"github.com/softalya/foodcourt/internal/service"
	"github.com/softalya/foodcourt/pkg/config"
	"github.com/softalya/foodcourt/pkg/database"
	"github.com/softalya/foodcourt/pkg/events"
	"github.com/softalya/foodcourt/pkg/logger"
	mw "github.com/softalya/foodcourt/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database
	if err := migrations.Up(ctx, cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus
	var bus events.Publisher
	if eventBus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("Event bus unavailable, continuing without it", "error", err)
	} else {
		bus = eventBus
		defer eventBus.Close()

		// Audit trail: order events end up in the structured log.
		for _, subject := range []string{events.OrderCreated, events.OrderCanceled, events.OrderResolved} {
			if err := eventBus.QueueSubscribe(subject, "api-audit", logDomainEvent); err != nil {
				logger.Warn("Event subscription failed", "subject", subject, "error", err)
			}
		}
	}

	// Rate limiter
	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid Redis URL, rate limiting disabled", "error", err)
	} else {
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(opts), 10, time.Minute)
	}

	// Mailer
	var mail mailer.Service
	switch {
	case cfg.Email.DevMode:
		mail = mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.SMTPFromName, cfg.Email.SMTPFrom)
	default:
		mail = mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	// Services
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret)
	accountSvc := service.NewAccountService(accountRepo, addressRepo, tokens, mail, bus, cfg)
	businessSvc := service.NewBusinessService(businessRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, addressRepo, bus)

	dispatcher := dispatch.New(accountRepo, tokens, accountSvc, businessSvc, orderSvc, limiter)

	// Router
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/query", dispatcher.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}

func logDomainEvent(msg *events.Message) {
	logger.Info("Domain event", "subject", msg.Subject, "payload", string(msg.Data))
}
