package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/ejurnal-backend/internal/config"
)

// TokenBlocklist remembers logged-out token ids until the tokens would have expired.
type TokenBlocklist struct {
	rdb *redis.Client
}

// NewTokenBlocklist creates a TokenBlocklist.
func NewTokenBlocklist(rdb *redis.Client) *TokenBlocklist {
	return &TokenBlocklist{rdb: rdb}
}

// Revoke blocks jti for ttl. A non-positive ttl is a no-op since the token is already expired.
func (b *TokenBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, config.CacheKey.RevokedTokenKey(jti), 1, ttl).Err()
}

// IsRevoked reports whether jti was logged out.
func (b *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.rdb.Exists(ctx, config.CacheKey.RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
