package main

import (
	"bufio"
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"salesflow/internal/adapters/cli"
	"salesflow/internal/adapters/repl"
	"salesflow/internal/app"
	"salesflow/internal/cache"
	"salesflow/internal/config"
	"salesflow/internal/db"
	"salesflow/internal/rpc"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Terminal binary: human-readable logs on stderr, warnings and up so
	// the REPL screen stays clean.
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Unable to connect to redis: %v", err)
		}
		defer client.Close()
		catalogCache = cache.NewRedisCache(client, cfg.CatalogTTL)
	} else {
		catalogCache = cache.NewMemoryCache(cfg.CatalogTTL)
	}

	boundary := rpc.NewClient(pool, log)
	svc := app.NewAppService(boundary, catalogCache, log)

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
