package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, int](Config{Name: "pk_content", MaxSize: 8})

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New[int, string](Config{Name: "small", MaxSize: 2})

	c.Set(1, "one")
	c.Set(2, "two")
	// 访问 1，使 2 成为最久未使用
	_, _ = c.Get(1)
	c.Set(3, "three")

	_, ok := c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New[string, string](Config{Name: "ttl", TTL: 10 * time.Millisecond})

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Flush(t *testing.T) {
	c := New[string, int](Config{Name: "flush"})
	c.Set("a", 1)
	c.Set("b", 2)

	c.Flush()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestLocalInvalidator(t *testing.T) {
	inv := NewLocalInvalidator()
	content := New[string, int](Config{Name: "pk_content"})
	user := New[string, int](Config{Name: "pk_user"})
	inv.Register(content)
	inv.Register(user)

	content.Set("c1", 1)
	user.Set("u1", 1)

	require.NoError(t, inv.Invalidate(context.Background(), "pk_content"))
	assert.Equal(t, 0, content.Len())
	// 其他命名空间不受影响
	assert.Equal(t, 1, user.Len())
}

func TestMultiInvalidator(t *testing.T) {
	inv := NewLocalInvalidator()
	c := New[string, int](Config{Name: "ns"})
	inv.Register(c)
	c.Set("k", 1)

	multi := MultiInvalidator{NoopInvalidator{}, inv}
	require.NoError(t, multi.Invalidate(context.Background(), "ns"))
	assert.Equal(t, 0, c.Len())
}
