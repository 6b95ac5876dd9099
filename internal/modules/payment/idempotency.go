// README: Idempotency keys for provider session creation, backed by Redis.
package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"snabbdeal/internal/types"
)

// KeyStore hands out the idempotency key to send with a provider
// session-creation call. Within the key window a retried checkout for the
// same order reuses the previous key, so a request whose response was lost
// cannot mint a second charged session upstream.
type KeyStore interface {
	CheckoutKey(ctx context.Context, orderID types.ID) (string, error)
}

const defaultKeyWindow = 15 * time.Minute

// RedisKeyStore implements KeyStore with SETNX + TTL.
type RedisKeyStore struct {
	client *redis.Client
	prefix string
	window time.Duration
}

func NewRedisKeyStore(client *redis.Client) *RedisKeyStore {
	return &RedisKeyStore{
		client: client,
		prefix: "checkout:idem:",
		window: defaultKeyWindow,
	}
}

func (s *RedisKeyStore) CheckoutKey(ctx context.Context, orderID types.ID) (string, error) {
	key := s.prefix + string(orderID)
	fresh := uuid.NewString()

	set, err := s.client.SetNX(ctx, key, fresh, s.window).Result()
	if err != nil {
		return "", err
	}
	if set {
		return fresh, nil
	}
	return s.client.Get(ctx, key).Result()
}
