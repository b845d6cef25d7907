package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Addr = srv.Addr()
	cfg.DefaultTTL = time.Minute

	m, err := NewManager(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, srv
}

func TestNewManagerUnreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.MaxRetries = 0

	_, err := NewManager(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSetAndGetTokenCount(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	hash := ContentHash([]byte("the quick brown fox"))

	_, ok, err := m.TokenCount(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SetTokenCount(ctx, hash, 42))

	count, ok, err := m.TokenCount(ctx, hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, count)
}

func TestTokenCountExpires(t *testing.T) {
	m, srv := newTestManager(t)
	ctx := context.Background()

	hash := ContentHash([]byte("short lived"))
	require.NoError(t, m.SetTokenCount(ctx, hash, 7))

	srv.FastForward(2 * time.Minute)

	_, ok, err := m.TokenCount(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptEntryIsMiss(t *testing.T) {
	m, srv := newTestManager(t)
	ctx := context.Background()

	hash := ContentHash([]byte("corrupt"))
	require.NoError(t, srv.Set(keyPrefix+hash, "not-a-number"))

	_, ok, err := m.TokenCount(ctx, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContentHashStable(t *testing.T) {
	a := ContentHash([]byte("same content"))
	b := ContentHash([]byte("same content"))
	c := ContentHash([]byte("other content"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestClosedManager(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, _, err := m.TokenCount(context.Background(), "deadbeef")
	assert.Error(t, err)
	assert.Error(t, m.SetTokenCount(context.Background(), "deadbeef", 1))
}
