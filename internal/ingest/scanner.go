// Package ingest feeds the queue: it scans the incoming directory for
// photos and watches for removable media that should trigger a scan.
package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"photonym/internal/config"
	"photonym/internal/logging"
	"photonym/internal/namer"
	"photonym/internal/queue"
)

// Scanner enqueues photos found in the incoming directory.
type Scanner struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// Result summarizes one scan pass.
type Result struct {
	BatchID string
	Added   int
	Skipped int
}

// NewScanner builds an incoming-directory scanner.
func NewScanner(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{cfg: cfg, store: store, logger: logging.NewComponentLogger(logger, "ingest")}
}

// Scan walks the incoming directory and enqueues every photo under a fresh
// batch identifier. Photos whose names already carry the generated naming
// grammar are recorded as completed without processing.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	result := Result{BatchID: uuid.NewString()}

	err := filepath.WalkDir(s.cfg.Paths.IncomingDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !s.isPhoto(entry.Name()) {
			return nil
		}
		added, err := s.enqueue(ctx, path, result.BatchID)
		if err != nil {
			return err
		}
		if added {
			result.Added++
		} else {
			result.Skipped++
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	s.logger.Info("incoming scan finished",
		logging.String(logging.FieldBatchID, result.BatchID),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped))
	return result, nil
}

// Add enqueues a single photo outside a directory scan.
func (s *Scanner) Add(ctx context.Context, path string) (*queue.Item, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if namer.IsGeneratedName(filepath.Base(abs)) {
		return s.store.NewCompletedPhoto(ctx, abs, "")
	}
	return s.store.NewPhoto(ctx, abs, "")
}

// enqueue records one photo, reporting whether it entered the pending queue.
func (s *Scanner) enqueue(ctx context.Context, path, batchID string) (bool, error) {
	if existing, err := s.store.FindBySourcePath(ctx, path); err != nil {
		return false, err
	} else if existing != nil {
		return false, nil
	}

	if namer.IsGeneratedName(filepath.Base(path)) {
		if _, err := s.store.NewCompletedPhoto(ctx, path, batchID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.store.NewPhoto(ctx, path, batchID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scanner) isPhoto(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.cfg.Ingest.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
