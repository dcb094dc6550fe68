package repositories

import (
	"context"
	"time"

	"arogya-records/internal/pkg/password"

	"github.com/redis/go-redis/v9"
)

// DefaultRevocationPrefix namespaces revocation keys in a shared Redis
const DefaultRevocationPrefix = "revoked:"

// redisRevocationList implements RevocationList with one expiring key per token
type redisRevocationList struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationList creates a Redis backed revocation list
func NewRedisRevocationList(client *redis.Client, prefix string) RevocationList {
	if prefix == "" {
		prefix = DefaultRevocationPrefix
	}
	return &redisRevocationList{client: client, prefix: prefix}
}

func (r *redisRevocationList) key(token string) string {
	return r.prefix + password.HashToken(token)
}

// Add stores the token until its expiry. Tokens that are already expired are
// not stored since signature checking rejects them anyway.
func (r *redisRevocationList) Add(ctx context.Context, token string, expiresAt, now time.Time) error {
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(token), expiresAt.Unix(), ttl).Err()
}

// Contains checks whether the token key is still present
func (r *redisRevocationList) Contains(ctx context.Context, token string, now time.Time) (bool, error) {
	exp, err := r.client.Get(ctx, r.key(token)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return time.Unix(exp, 0).After(now), nil
}

// DeleteExpired is a no-op; Redis expires the keys itself
func (r *redisRevocationList) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
