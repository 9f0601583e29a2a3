// Package cache holds the per-user workspace membership cache. Components that
// need it get a *WorkspaceCache injected; nothing reads it from global state.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrMiss is returned by a Backend when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Loader returns the ids of the workspaces a user can see.
type Loader func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

type WorkspaceCache struct {
	backend Backend
	load    Loader
	ttl     time.Duration
	logger  *zap.Logger
}

func NewWorkspaceCache(backend Backend, load Loader, ttl time.Duration, logger *zap.Logger) *WorkspaceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceCache{backend: backend, load: load, ttl: ttl, logger: logger}
}

func key(userID uuid.UUID) string {
	return fmt.Sprintf("workspaces:%s", userID)
}

// Get returns the user's workspace ids, loading and storing them on a miss.
// Backend failures degrade to a direct load.
func (c *WorkspaceCache) Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	raw, err := c.backend.Get(ctx, key(userID))
	switch {
	case err == nil:
		var ids []uuid.UUID
		if err := json.Unmarshal(raw, &ids); err == nil {
			return ids, nil
		}
		c.logger.Warn("discarding undecodable workspace cache entry", zap.String("user_id", userID.String()))
	case !errors.Is(err, ErrMiss):
		c.logger.Warn("workspace cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}

	ids, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return ids, nil
	}
	if err := c.backend.Set(ctx, key(userID), payload, c.ttl); err != nil {
		c.logger.Warn("workspace cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return ids, nil
}

// Contains reports whether workspaceID is one of the user's workspaces.
func (c *WorkspaceCache) Contains(ctx context.Context, userID, workspaceID uuid.UUID) (bool, error) {
	ids, err := c.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == workspaceID {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached entry so the next Get reloads it.
func (c *WorkspaceCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.backend.Delete(ctx, key(userID))
}
