package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"order-sweeper/internal/core/store"
	"order-sweeper/internal/features/sweep/domain"
)

// RedisProgressStore implements ports.ProgressStore on the shared key-value
// store, for deployments without a durable local filesystem.
type RedisProgressStore struct {
	kv     store.Store
	key    string
	logger *zap.Logger
}

// NewRedisProgressStore creates a RedisProgressStore persisting under key.
func NewRedisProgressStore(kv store.Store, key string, log *zap.Logger) *RedisProgressStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisProgressStore{
		kv:     kv,
		key:    key,
		logger: log,
	}
}

// Load reads the checkpoint. A missing key or malformed record yields
// (nil, nil) so the batch starts fresh; backend failures are returned.
func (s *RedisProgressStore) Load(ctx context.Context) (*domain.Progress, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress from store: %w", err)
	}

	var progress domain.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		s.logger.Warn("Stored progress is malformed, starting fresh",
			zap.String("key", s.key),
			zap.Error(err))
		return nil, nil
	}
	return &progress, nil
}

// Save writes the checkpoint without expiry; it lives until the batch
// completes or a fresh run replaces it.
func (s *RedisProgressStore) Save(ctx context.Context, progress *domain.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data, 0); err != nil {
		return fmt.Errorf("failed to save progress to store: %w", err)
	}
	return nil
}

// Clear removes the checkpoint key.
func (s *RedisProgressStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear progress from store: %w", err)
	}
	return nil
}
