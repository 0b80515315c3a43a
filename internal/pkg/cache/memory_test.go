package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/collegetennis/internal/pkg/config"
)

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, 0)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	_, ok, _ := m.Get(ctx, "a") // a is now most recent
	require.True(t, ok)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ = m.Get(ctx, "b")
	assert.False(t, ok, "b should have been evicted")
	v, ok, _ := m.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", string(v))
	_, ok, _ = m.Get(ctx, "c")
	assert.True(t, ok)

	st := m.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, uint64(3), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(10, time.Minute)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "default", []byte("x"), 0))
	require.NoError(t, m.Set(ctx, "short", []byte("y"), time.Second))

	now = now.Add(2 * time.Second)
	_, ok, _ := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "default")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "default")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Stats().Entries)
}

func TestMemory_DeleteAndOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10, 0)

	require.NoError(t, m.Set(ctx, "k", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "k", []byte("2"), 0))
	v, ok, _ := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "2", string(v))

	require.NoError(t, m.Delete(ctx, "k"))
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	require.NoError(t, m.Delete(ctx, "missing"))
}

func TestNew_SelectsBackend(t *testing.T) {
	c, err := New(&config.Config{Cache: config.CacheConfig{Backend: "memory", MaxEntries: 5}})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(&config.Config{Cache: config.CacheConfig{Backend: "memcached"}})
	assert.Error(t, err)
}
