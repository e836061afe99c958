package memory

import (
	"context"

	"aura/internal/logger"
	"aura/pkg/auratypes"
)

// FallbackStore wraps a durable store and absorbs its failures into a
// process-local cache. Callers are never told a write went to the cache
// instead of the backend; the failure is logged and the conversation
// continues. A session that fell back stays readable for the rest of the
// process lifetime, at the cost of durability.
type FallbackStore struct {
	primary Store
	cache   *LocalStore
}

// NewFallbackStore wraps primary with an in-process fallback cache.
func NewFallbackStore(primary Store) *FallbackStore {
	return &FallbackStore{
		primary: primary,
		cache:   NewLocalStore(),
	}
}

// Load tries the primary store first and falls back to the cache on error.
func (s *FallbackStore) Load(ctx context.Context, sessionID string) (auratypes.SessionMemory, error) {
	mem, err := s.primary.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("Primary store load failed, using local cache", "session", sessionID, "error", err)
		return s.cache.Load(ctx, sessionID)
	}
	return mem, nil
}

// Save writes to the primary store; on error the record is kept in the cache
// and no error is returned.
func (s *FallbackStore) Save(ctx context.Context, sessionID string, mem auratypes.SessionMemory) error {
	if err := s.primary.Save(ctx, sessionID, mem); err != nil {
		logger.Warn("Primary store save failed, caching locally", "session", sessionID, "error", err)
		return s.cache.Save(ctx, sessionID, mem)
	}
	// Keep the cache coherent so a later failed load still sees this write.
	_ = s.cache.Save(ctx, sessionID, mem)
	return nil
}
