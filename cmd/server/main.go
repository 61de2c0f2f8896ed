package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	webAdapter "salesflow/internal/adapters/web"
	"salesflow/internal/app"
	"salesflow/internal/cache"
	"salesflow/internal/config"
	"salesflow/internal/db"
	"salesflow/internal/rpc"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		catalogCache = cache.NewRedisCache(client, cfg.CatalogTTL)
		log.WithField("addr", cfg.RedisAddr).Info("catalog cache: redis")
	} else {
		catalogCache = cache.NewMemoryCache(cfg.CatalogTTL)
		log.Info("catalog cache: in-process")
	}

	boundary := rpc.NewClient(pool, log)
	svc := app.NewAppService(boundary, catalogCache, log)
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, cfg.JWTSecret, cfg.CookieSecure, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	log.WithField("port", cfg.Port).Info("server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
