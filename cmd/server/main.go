package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/microloan-engine/internal/cache"
	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/handler"
	"github.com/segyhp/microloan-engine/internal/repository"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/internal/storage"
	"github.com/segyhp/microloan-engine/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, "microloan-api", cfg.Server.Env)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// The API keeps serving without Redis; analytics just skip the cache.
	var analyticsCache cache.Cache
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, analytics cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		analyticsCache = cache.NewRedisCache(redisClient, "microloan")
	}

	var documents storage.DocumentStorage
	if cfg.CloudinaryEnabled() {
		documents, err = storage.NewCloudinaryStorage(cfg.Cloudinary)
		if err != nil {
			log.Fatal("Failed to initialize document storage", zap.Error(err))
		}
	} else {
		log.Info("Cloudinary not configured, document uploads disabled")
	}

	clk := clock.System()

	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	loanService := service.NewLoanService(loanRepo, customerRepo, clk, cfg, log)
	paymentService := service.NewPaymentService(loanRepo, paymentRepo, clk, cfg, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, analyticsCache, clk, cfg, log)
	customerService := service.NewCustomerService(customerRepo, documents, clk, cfg, log)
	userService := service.NewUserService(userRepo, clk, cfg, log)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(userService, log),
		Loan:        handler.NewLoanHandler(loanService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		Customer:    handler.NewCustomerHandler(customerService),
		User:        handler.NewUserHandler(userService),
		Health:      handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout),
		RateLimiter: handler.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 5*time.Minute, log),
	}

	router := handler.NewRouter(handlers, handler.AuthMiddleware(cfg.Auth, clk), log)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}
