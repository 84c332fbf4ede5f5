package main

import (
	"context"
	"log"
	"strings"
	"time"

	"college-library/internal/bootstrap"
	"college-library/internal/config"
	"college-library/internal/server"
	"college-library/pkg/database"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// Demo data seeds first: its roster already carries the default
	// admin, so the admin seed below becomes a no-op in development.
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoData(db); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	if err := bootstrap.SeedAdminUser(db); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	redisClient := connectRedis(cfg.RedisURL)
	meiliClient := connectMeili(cfg.MeiliSearchHost, cfg.MeiliMasterKey)

	srv := server.NewServer(cfg, db, redisClient, meiliClient)

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset; login throttling is
// disabled in that case.
func connectRedis(url string) *redis.Client {
	if url == "" {
		log.Println("REDIS_URL not set, login throttling disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unreachable, login throttling disabled: %v", err)
		return nil
	}

	return client
}

// connectMeili returns nil when MEILISEARCH_HOST is unset; catalog search
// falls back to database queries.
func connectMeili(host, masterKey string) meilisearch.ServiceManager {
	if host == "" {
		log.Println("MEILISEARCH_HOST not set, using database search")
		return nil
	}

	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}

	return meilisearch.New(host, meilisearch.WithAPIKey(masterKey))
}
