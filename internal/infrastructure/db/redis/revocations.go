package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations is a deny-list of token IDs backed by Redis.
// Key format: revoked:<jti>. Entries expire when the token itself would.
type Revocations struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocations creates a Revocations list wrapping the given Redis client.
func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client, now: time.Now}
}

// Revoke deny-lists jti until expiresAt. Already-expired tokens are ignored.
func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been deny-listed.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *Revocations) key(jti string) string {
	return "revoked:" + jti
}

// NoopRevocations is used when Redis is disabled: nothing is ever revoked and
// logout only asks the client to drop its token.
type NoopRevocations struct{}

func (NoopRevocations) Revoke(context.Context, string, time.Time) error { return nil }

func (NoopRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }
