package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

const (
	alertKeyPrefix = "ppev:alert:"
	scanLockKey    = "ppev:scan:lock"
)

// RedisStore persists alert dedup records and the scan lock in Redis
type RedisStore struct {
	client  *redis.Client
	window  time.Duration
	lockTTL time.Duration
	logger  zerolog.Logger
}

// RedisStoreConfig holds Redis store configuration
type RedisStoreConfig struct {
	Addr        string // e.g., "localhost:6379"
	Password    string
	DB          int
	DedupWindow time.Duration // e.g., 24 * time.Hour
	LockTTL     time.Duration // e.g., 5 * time.Minute
}

// NewRedisStore creates a new Redis-backed alert store
func NewRedisStore(config RedisStoreConfig, logger zerolog.Logger) *RedisStore {
	if config.DedupWindow <= 0 {
		config.DedupWindow = 24 * time.Hour
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 5 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client:  client,
		window:  config.DedupWindow,
		lockTTL: config.LockTTL,
		logger:  logger.With().Str("component", "redis_store").Logger(),
	}
}

// Seen reports whether a play was already alerted inside the dedup window
func (s *RedisStore) Seen(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, alertKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check alert key: %w", err)
	}
	return n > 0, nil
}

// MarkBatch records alerted plays in a single pipeline. Each key carries the
// dedup window as its TTL, so expiry needs no sweeper.
func (s *RedisStore) MarkBatch(ctx context.Context, records []models.AlertRecord) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, rec := range records {
		pipe.Set(ctx, alertKeyPrefix+rec.Key, rec.AlertedAt.UTC().Format(time.RFC3339), s.window)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}

	s.logger.Debug().
		Int("count", len(records)).
		Msg("marked alerted plays")

	return nil
}

// PurgeExpired is a no-op for Redis because key TTLs handle expiry. It pings
// the server instead, so a dead Redis degrades the scan at the start of the
// filter pass rather than halfway through.
func (s *RedisStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return 0, fmt.Errorf("failed to reach redis: %w", err)
	}
	return 0, nil
}

// TryLock attempts to acquire the scan lock. False means another scan holds
// it. The lock expires on its own so a crashed scan cannot wedge the service.
func (s *RedisStore) TryLock(ctx context.Context) (bool, error) {
	ok, err := s.client.SetNX(ctx, scanLockKey, time.Now().UTC().Format(time.RFC3339), s.lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	return ok, nil
}

// Unlock releases the scan lock
func (s *RedisStore) Unlock(ctx context.Context) error {
	if err := s.client.Del(ctx, scanLockKey).Err(); err != nil {
		return fmt.Errorf("failed to release scan lock: %w", err)
	}
	return nil
}

// Ping checks Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
