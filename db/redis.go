package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fairhouse/config"
	"fairhouse/engine"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis() error {
	log.Println("🔌 Connecting to Redis...")

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Redis connected successfully - URL: %s", redisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   ACTIVE SEED CACHE
   Redis Key: fairness:seed:active -> SeedInfo JSON
========================= */

// CacheActiveSeed stores the public view of the active seed
func CacheActiveSeed(ctx context.Context, info engine.SeedInfo) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal seed info: %w", err)
	}

	if err := RedisClient.Set(ctx, config.RedisActiveSeedKey, data, config.ActiveSeedCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache active seed: %w", err)
	}
	return nil
}

// CachedActiveSeed retrieves the cached public seed view, if present
func CachedActiveSeed(ctx context.Context) (*engine.SeedInfo, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, config.RedisActiveSeedKey).Result()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached seed: %w", err)
	}

	var info engine.SeedInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed info: %w", err)
	}
	return &info, nil
}

// InvalidateActiveSeed drops the cached seed view after a rotation
func InvalidateActiveSeed(ctx context.Context) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, config.RedisActiveSeedKey).Err(); err != nil {
		log.Printf("⚠️  Failed to invalidate active seed cache: %v", err)
	}
}

/* =========================
   RECENT ROUNDS
   Redis Key: fairness:rounds:recent -> LIST of round JSON (newest first)
========================= */

// PushRecentRound prepends a settled round to the recent list and trims it
func PushRecentRound(ctx context.Context, round *engine.Round) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	pipe := RedisClient.Pipeline()
	pipe.LPush(ctx, config.RedisRecentRoundsKey, data)
	pipe.LTrim(ctx, config.RedisRecentRoundsKey, 0, config.RecentRoundsLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push recent round: %w", err)
	}
	return nil
}

// RecentRounds returns up to limit recently settled rounds, newest first
func RecentRounds(ctx context.Context, limit int) ([]*engine.Round, error) {
	if RedisClient == nil {
		return []*engine.Round{}, nil
	}

	if limit <= 0 || limit > config.RecentRoundsLimit {
		limit = config.RecentRoundsLimit
	}

	items, err := RedisClient.LRange(ctx, config.RedisRecentRoundsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent rounds: %w", err)
	}

	rounds := make([]*engine.Round, 0, len(items))
	for _, item := range items {
		var round engine.Round
		if err := json.Unmarshal([]byte(item), &round); err != nil {
			log.Printf("⚠️  Failed to unmarshal recent round: %v", err)
			continue
		}
		rounds = append(rounds, &round)
	}
	return rounds, nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
