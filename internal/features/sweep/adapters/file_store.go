package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"order-sweeper/internal/features/sweep/domain"
)

// FileProgressStore implements ports.ProgressStore on a local JSON file.
type FileProgressStore struct {
	path   string
	logger *zap.Logger
}

// NewFileProgressStore creates a FileProgressStore writing to path.
func NewFileProgressStore(path string, log *zap.Logger) *FileProgressStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileProgressStore{
		path:   path,
		logger: log,
	}
}

// Load reads the checkpoint. A missing or malformed file yields (nil, nil)
// so the batch starts fresh instead of aborting.
func (s *FileProgressStore) Load(ctx context.Context) (*domain.Progress, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	var progress domain.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		s.logger.Warn("Progress file is malformed, starting fresh",
			zap.String("path", s.path),
			zap.Error(err))
		return nil, nil
	}
	return &progress, nil
}

// Save writes the checkpoint atomically via a temp file rename, so an
// interrupt mid-write never leaves a torn checkpoint behind.
func (s *FileProgressStore) Save(ctx context.Context, progress *domain.Progress) error {
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}

// Clear removes the checkpoint. A checkpoint that never existed is not an error.
func (s *FileProgressStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove progress file: %w", err)
	}
	return nil
}
