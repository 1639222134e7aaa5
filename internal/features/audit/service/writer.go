package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-sweeper/internal/features/audit/domain"
	lookupdomain "order-sweeper/internal/features/lookup/domain"
)

// DumpWriter archives captures as one JSON file per attempt. It implements
// the sweep AttemptRecorder port: failures are logged and swallowed so
// auditing never disturbs a running batch.
type DumpWriter struct {
	dir    string
	logger *zap.Logger
}

// NewDumpWriter creates a DumpWriter archiving into dir.
func NewDumpWriter(dir string, log *zap.Logger) *DumpWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &DumpWriter{
		dir:    dir,
		logger: log,
	}
}

// Record archives one capture.
func (w *DumpWriter) Record(orderNumber, customerNumber string, capture *lookupdomain.Capture) {
	dump := domain.Dump{
		OrderNumber:    orderNumber,
		CustomerNumber: customerNumber,
		Outcome:        string(capture.Outcome),
		RawText:        capture.RawText,
		PageTitle:      capture.PageTitle,
		CurrentURL:     capture.PageURL,
		HTML:           capture.HTML,
		Screenshot:     capture.Screenshot,
		Timestamp:      time.Now().Format(time.RFC3339),
	}
	path, err := w.write(dump)
	if err != nil {
		w.logger.Warn("Failed to write audit dump",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return
	}
	w.logger.Debug("Audit dump written", zap.String("path", path))
}

func (w *DumpWriter) write(dump domain.Dump) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dump: %w", err)
	}
	path := filepath.Join(w.dir, fmt.Sprintf("order_data_%s.json", uuid.New().String()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write dump file: %w", err)
	}
	return path, nil
}
