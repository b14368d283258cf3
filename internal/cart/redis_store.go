package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanoria/pricingservice/internal/domain"
	"github.com/sanoria/pricingservice/internal/metrics"
)

// DefaultTTL bounds how long an abandoned cart survives. The storefront's
// localStorage carts lived forever; server-side carts expire instead.
const DefaultTTL = 7 * 24 * time.Hour

// RedisStore is a Redis-backed cart repository. Carts are stored as JSON
// under a per-session key with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis cart store and verifies the connection
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient creates a cart store over an existing client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the cart for a session, or an empty cart if none is stored
func (s *RedisStore) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCartStoreOperation("get", "miss")
			return domain.Cart{}, nil
		}
		metrics.RecordCartStoreOperation("get", "error")
		return domain.Cart{}, fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}

	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		metrics.RecordCartStoreOperation("get", "error")
		return domain.Cart{}, fmt.Errorf("failed to unmarshal cart for session %s: %w", sessionID, err)
	}

	metrics.RecordCartStoreOperation("get", "hit")
	return c, nil
}

// Save replaces the stored cart for a session and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	if err := cart.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for session %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, key(sessionID), data, s.ttl).Err(); err != nil {
		metrics.RecordCartStoreOperation("save", "error")
		return fmt.Errorf("failed to save cart for session %s: %w", sessionID, err)
	}

	metrics.RecordCartStoreOperation("save", "ok")
	return nil
}

// Clear removes the stored cart for a session
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		metrics.RecordCartStoreOperation("clear", "error")
		return fmt.Errorf("failed to clear cart for session %s: %w", sessionID, err)
	}
	metrics.RecordCartStoreOperation("clear", "ok")
	return nil
}

func key(sessionID string) string {
	return "cart:" + sessionID
}
