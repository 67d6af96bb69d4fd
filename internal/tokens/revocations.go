package tokens

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations is the Redis-backed set of logged-out tokens. A nil client (or
// nil *Revocations) disables it: nothing is ever revoked.
type Revocations struct {
	client *redis.Client
}

func NewRevocations(c *redis.Client) *Revocations {
	return &Revocations{client: c}
}

// Revoke stores token until ttl elapses, which should be its remaining life.
func (r *Revocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r == nil || r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key(token), "1", ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	exists, err := r.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Enabled reports whether revocations are persisted anywhere.
func (r *Revocations) Enabled() bool {
	return r != nil && r.client != nil
}

func key(token string) string {
	return "blacklist:access:" + token
}
