package linkcache_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtin42/dub/pkg/linkcache"
)

// newTestCache connects to a local Redis if one is available, otherwise the
// test is skipped. Integration-style on purpose: the pipelined DEL is the
// behavior under test and a mock would only restate the implementation.
func newTestCache(t *testing.T) *linkcache.Cache {
	t.Helper()

	conn, err := net.DialTimeout("tcp", "localhost:6379", 100*time.Millisecond)
	if err != nil {
		t.Skip("redis is not available on localhost:6379")
	}
	_ = conn.Close()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})

	return linkcache.New(client)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "root:go.acme.dev", linkcache.Key("go.acme.dev"))
}

func TestCache_Invalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetRedirect(ctx, "go.acme.dev", "https://acme.dev", time.Minute))
	require.NoError(t, cache.SetRedirect(ctx, "l.acme.dev", "https://acme.dev/l", time.Minute))

	require.NoError(t, cache.Invalidate(ctx, "go.acme.dev", "l.acme.dev"))

	_, err := cache.GetRedirect(ctx, "go.acme.dev")
	assert.ErrorIs(t, err, redis.Nil)
	_, err = cache.GetRedirect(ctx, "l.acme.dev")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCache_InvalidateEmpty(t *testing.T) {
	cache := newTestCache(t)
	assert.NoError(t, cache.Invalidate(context.Background()))
}
