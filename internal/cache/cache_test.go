package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	ids   []uuid.UUID
	err   error
	calls int
}

func (l *countingLoader) load(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	l.calls++
	return l.ids, l.err
}

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBackend(client), srv
}

func backends(t *testing.T) map[string]Backend {
	rb, _ := newRedisBackend(t)
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"redis":  rb,
	}
}

func TestWorkspaceCache_GetLoadsOnceUntilInvalidated(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			userID := uuid.New()
			loader := &countingLoader{ids: []uuid.UUID{uuid.New(), uuid.New()}}
			c := NewWorkspaceCache(backend, loader.load, time.Minute, nil)

			// Act
			first, err := c.Get(ctx, userID)
			require.NoError(t, err)
			second, err := c.Get(ctx, userID)
			require.NoError(t, err)
			require.NoError(t, c.Invalidate(ctx, userID))
			_, err = c.Get(ctx, userID)
			require.NoError(t, err)

			// Assert
			assert.Equal(t, loader.ids, first)
			assert.Equal(t, first, second)
			assert.Equal(t, 2, loader.calls)
		})
	}
}

func TestWorkspaceCache_Contains(t *testing.T) {
	member := uuid.New()
	loader := &countingLoader{ids: []uuid.UUID{member}}
	c := NewWorkspaceCache(NewMemoryBackend(), loader.load, time.Minute, nil)

	ok, err := c.Contains(context.Background(), uuid.New(), member)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Contains(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspaceCache_LoaderError(t *testing.T) {
	loader := &countingLoader{err: errors.New("db down")}
	c := NewWorkspaceCache(NewMemoryBackend(), loader.load, time.Minute, nil)

	_, err := c.Get(context.Background(), uuid.New())

	assert.EqualError(t, err, "db down")
}

func TestWorkspaceCache_RedisOutageFallsBackToLoader(t *testing.T) {
	// Arrange
	backend, srv := newRedisBackend(t)
	loader := &countingLoader{ids: []uuid.UUID{uuid.New()}}
	c := NewWorkspaceCache(backend, loader.load, time.Minute, nil)
	srv.Close()

	// Act
	ids, err := c.Get(context.Background(), uuid.New())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, loader.ids, ids)
	assert.Equal(t, 1, loader.calls)
}

func TestRedisBackend_TTL(t *testing.T) {
	backend, srv := newRedisBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, srv.TTL("deckboard:k"))

	srv.FastForward(2 * time.Minute)
	_, err := backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryBackend_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewMemoryBackend()
	b.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Second))
	v, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(time.Second)
	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
