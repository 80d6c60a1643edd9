// internal/cache/cache_test.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(fetchedAt time.Time) *Entry {
	return &Entry{
		Results: []json.RawMessage{
			json.RawMessage(`{"name":"Cubbon Park","rating":4.5}`),
			json.RawMessage(`{"name":"Lalbagh Botanical Garden","rating":4.6}`),
		},
		FetchedAt: fetchedAt,
	}
}

func TestKey(t *testing.T) {
	t.Run("parameter order does not matter", func(t *testing.T) {
		a := Key("place", map[string]string{"mood": "chill", "budget": "low"})
		b := Key("place", map[string]string{"budget": "low", "mood": "chill"})
		assert.Equal(t, a, b)
	})

	t.Run("case and whitespace are canonicalized", func(t *testing.T) {
		a := Key("place", map[string]string{"mood": " Chill "})
		b := Key("place", map[string]string{"mood": "chill"})
		assert.Equal(t, a, b)
	})

	t.Run("different sources get different keys", func(t *testing.T) {
		params := map[string]string{"mood": "chill"}
		assert.NotEqual(t, Key("place", params), Key("movie", params))
	})

	t.Run("different values get different keys", func(t *testing.T) {
		a := Key("place", map[string]string{"mood": "chill"})
		b := Key("place", map[string]string{"mood": "romantic"})
		assert.NotEqual(t, a, b)
	})

	t.Run("key carries the source prefix", func(t *testing.T) {
		key := Key("Movie", map[string]string{"genre": "12"})
		assert.Contains(t, key, "suggestions:movie:")
	})
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("get on empty cache is a miss", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)
		entry, err := c.Get(ctx, "suggestions:place:none")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("put then get returns the entry", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)
		now := time.Now()
		c.nowFn = func() time.Time { return now }

		require.NoError(t, c.Put(ctx, "k", testEntry(now)))

		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Len(t, entry.Results, 2)
	})

	t.Run("entry just inside the window is a hit", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)
		now := time.Now()
		c.nowFn = func() time.Time { return now }

		require.NoError(t, c.Put(ctx, "k", testEntry(now)))

		c.nowFn = func() time.Time { return now.Add(30*time.Minute - time.Second) }
		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.NotNil(t, entry)
	})

	t.Run("entry at the window boundary is a miss", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)
		now := time.Now()
		c.nowFn = func() time.Time { return now }

		require.NoError(t, c.Put(ctx, "k", testEntry(now)))

		c.nowFn = func() time.Time { return now.Add(30 * time.Minute) }
		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("stale entries are pruned on put", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)
		now := time.Now()
		c.nowFn = func() time.Time { return now }

		require.NoError(t, c.Put(ctx, "old", testEntry(now)))

		c.nowFn = func() time.Time { return now.Add(time.Hour) }
		require.NoError(t, c.Put(ctx, "new", testEntry(now.Add(time.Hour))))

		assert.Equal(t, 1, c.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		c := NewMemoryCache(30 * time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				key := fmt.Sprintf("k-%d", n%5)
				_ = c.Put(ctx, key, testEntry(time.Now()))
				_, _ = c.Get(ctx, key)
			}(i)
		}
		wg.Wait()
	})
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	newTestRedis := func(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisCache) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return mr, NewRedisCache(client, ttl)
	}

	t.Run("get on empty cache is a miss", func(t *testing.T) {
		_, c := newTestRedis(t, 30*time.Minute)
		entry, err := c.Get(ctx, "suggestions:place:none")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		_, c := newTestRedis(t, 30*time.Minute)
		now := time.Now().UTC().Truncate(time.Second)

		require.NoError(t, c.Put(ctx, "k", testEntry(now)))

		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Len(t, entry.Results, 2)
		assert.True(t, entry.FetchedAt.Equal(now))
	})

	t.Run("entry expires after the window", func(t *testing.T) {
		mr, c := newTestRedis(t, 30*time.Minute)

		require.NoError(t, c.Put(ctx, "k", testEntry(time.Now())))

		mr.FastForward(31 * time.Minute)

		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("corrupt payload is treated as a miss", func(t *testing.T) {
		mr, c := newTestRedis(t, 30*time.Minute)
		mr.Set("k", "not json")

		entry, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("backend down returns cache error", func(t *testing.T) {
		mr, c := newTestRedis(t, 30*time.Minute)
		mr.Close()

		_, err := c.Get(ctx, "k")
		assert.Error(t, err)
	})
}
