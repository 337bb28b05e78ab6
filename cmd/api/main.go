package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"urungetir/internal/config"
	"urungetir/internal/db"
	apihttp "urungetir/internal/http"
	"urungetir/internal/repository"
	"urungetir/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)

	if cfg.JWTSecret == config.DevJWTSecret {
		logger.Warn("jwt secret not configured, using dev default")
	}
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	loginWindow := time.Duration(cfg.LoginRateWindowMin) * time.Minute
	loginLimiter := service.NewLoginRateLimiter(loginWindow, cfg.LoginRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginRateLimit)
		}
		cancel()
	}

	authSvc := service.NewAuthService(logger, userRepo, jwtSvc, loginLimiter)
	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	greetHandler := apihttp.NewGreetingHandler()
	router := apihttp.NewRouter(logger, cfg.CORSAllowedOrigins, greetHandler, authHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
