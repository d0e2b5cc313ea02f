package statusboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, time.January, 14, 10, 0, 0, 0, time.UTC)
	c := NewCacheWithClock[string]("test", 5*time.Minute, func() time.Time { return now })

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(4 * time.Minute)
	_, ok = c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCacheZeroTTLDisablesMemoization(t *testing.T) {
	c := NewCache[int]("test", 0)
	c.Set("k", 42)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := NewCache[int]("test", time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
