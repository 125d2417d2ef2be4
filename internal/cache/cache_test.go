package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T, maxSize int, ttl time.Duration) *Cache[string] {
	t.Helper()
	c := New[string](maxSize, ttl, time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestGetSet(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestExpiry(t *testing.T) {
	c := newTestCache(t, 10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := newTestCache(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	// Touch k0 so k1 becomes the eviction candidate.
	_, ok := c.Get("k0")
	assert.True(t, ok)

	c.Set("k3", "v")

	_, ok = c.Get("k1")
	assert.False(t, ok)
	_, ok = c.Get("k0")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestSetOverwrites(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.Set("k", "old")
	c.Set("k", "new")

	got, _ := c.Get("k")
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestFlush(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Flush()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)

	c.Set("k", "v")
	c.Delete("k")
	c.Delete("k") // deleting twice is fine

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestJanitorSweeps(t *testing.T) {
	c := New[string](10, 5*time.Millisecond, 10*time.Millisecond)
	defer c.Stop()

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	// Swept without any Get touching the key.
	assert.Equal(t, 0, c.Len())
}
