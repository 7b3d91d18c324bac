// Package linkcache manages the Redis entries the redirect edge consults
// before hitting the database. Billing only ever deletes entries: when a
// workspace loses its paid plan its custom domains stop resolving, and stale
// cache entries would keep redirecting traffic for up to the TTL.
package linkcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "root:"

// ErrInvalidateFailed wraps Redis errors from batch invalidation.
var ErrInvalidateFailed = errors.New("linkcache: failed to invalidate domains")

// Cache wraps a Redis client with the key scheme used for domain redirects.
type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Key returns the Redis key for a domain's root redirect entry.
func Key(domain string) string {
	return keyPrefix + domain
}

// SetRedirect caches the root redirect target for a domain.
func (c *Cache) SetRedirect(ctx context.Context, domain, target string, ttl time.Duration) error {
	return c.client.Set(ctx, Key(domain), target, ttl).Err()
}

// GetRedirect returns the cached redirect target, or redis.Nil if absent.
func (c *Cache) GetRedirect(ctx context.Context, domain string) (string, error) {
	return c.client.Get(ctx, Key(domain)).Result()
}

// Invalidate deletes the cached entries for every given domain in a single
// pipelined call. A nil or empty list is a no-op.
func (c *Cache) Invalidate(ctx context.Context, domains ...string) error {
	if len(domains) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, d := range domains {
		pipe.Del(ctx, Key(d))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidateFailed, err)
	}
	return nil
}
