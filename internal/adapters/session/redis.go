package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/labsys/labstock/internal/domain"
)

// Carts live under one key per user and expire on their own if the operator
// walks away mid-order.
const cartTTL = 24 * time.Hour

// RedisCartStore keeps the transient cart serialized in redis, keyed by the
// owning user. Carts are per-user, so no cross-request locking is needed.
type RedisCartStore struct{ client *redis.Client }

// NewRedisCartStore connects and validates the connection at startup.
func NewRedisCartStore(redisURL string) (*RedisCartStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCartStore{client: client}, nil
}

func cartKey(userID uuid.UUID) string { return "cart:" + userID.String() }

func (s *RedisCartStore) Get(ctx context.Context, userID uuid.UUID) (domain.Cart, error) {
	var cart domain.Cart
	raw, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart, nil
		}
		return cart, err
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (s *RedisCartStore) Append(ctx context.Context, userID uuid.UUID, line domain.CartLine) error {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := cart.Add(line); err != nil {
		return err
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), raw, cartTTL).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
