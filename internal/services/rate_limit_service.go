package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smarttransit/bus-booking-backend/internal/database"
)

// RateLimiter admits or rejects requests of a client key
type RateLimiter interface {
	// Allow records one request of key. It returns *RateLimitError when the
	// key is over its limit.
	Allow(ctx context.Context, key string) error
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int           // Max requests per key
	Window      time.Duration // Time window for the limit
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 100,
		Window:      15 * time.Minute,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Key        string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

const rateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimitService is a sliding window limiter backed by the api_rate_limits table
type RateLimitService struct {
	db     database.DB
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB, config RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		db:     db,
		config: config,
		now:    time.Now,
	}
}

// Allow checks the request count of key within the window and records the request
func (s *RateLimitService) Allow(ctx context.Context, key string) error {
	count, oldest, err := s.getRequestCount(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count >= s.config.MaxRequests {
		return &RateLimitError{
			Message:    rateLimitMessage,
			RetryAfter: oldest.Add(s.config.Window),
			Key:        key,
		}
	}

	if err := s.recordRequest(ctx, key); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}

// getRequestCount gets the number of requests within the window and the time of the oldest one
func (s *RateLimitService) getRequestCount(ctx context.Context, key string) (int, time.Time, error) {
	windowStart := s.now().Add(-s.config.Window)

	query := `
		SELECT COUNT(*), COALESCE(MIN(created_at), NOW())
		FROM api_rate_limits
		WHERE client_key = $1
		  AND created_at > $2
	`

	var count int
	var oldest time.Time

	err := s.db.QueryRowxContext(ctx, query, key, windowStart).Scan(&count, &oldest)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}

	return count, oldest, nil
}

// recordRequest inserts a rate limit record
func (s *RateLimitService) recordRequest(ctx context.Context, key string) error {
	query := `
		INSERT INTO api_rate_limits (client_key, created_at)
		VALUES ($1, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

// CleanupExpiredRateLimits removes records older than the window
func (s *RateLimitService) CleanupExpiredRateLimits(ctx context.Context) (int64, error) {
	cutoffTime := s.now().Add(-s.config.Window)

	result, err := s.db.ExecContext(ctx, `DELETE FROM api_rate_limits WHERE created_at < $1`, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup rate limits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// RedisRateLimiter is a fixed window limiter backed by redis INCR/EXPIRE
type RedisRateLimiter struct {
	client *redis.Client
	config RateLimitConfig
	prefix string
}

// NewRedisClient parses a redis URL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisRateLimiter creates a new redis backed rate limiter
func NewRedisRateLimiter(client *redis.Client, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		config: config,
		prefix: "ratelimit:api:",
	}
}

// Allow counts the request in the current window and rejects it past the limit
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) error {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.config.Window).Err(); err != nil {
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > int64(l.config.MaxRequests) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.config.Window
		}
		return &RateLimitError{
			Message:    rateLimitMessage,
			RetryAfter: time.Now().Add(ttl),
			Key:        key,
		}
	}

	return nil
}
