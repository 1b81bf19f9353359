// Package daemon runs photonym as a long-lived process: one workflow
// manager, the incoming-directory scanner, and the removable-media watcher,
// guarded by a single-instance file lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"photonym/internal/config"
	"photonym/internal/ingest"
	"photonym/internal/logging"
	"photonym/internal/notifications"
	"photonym/internal/queue"
	"photonym/internal/workflow"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	scanner  *ingest.Scanner
	watcher  *ingest.Watcher
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager, notifier notifications.Service) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "photonym.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		workflow: wf,
		notifier: notifier,
		scanner:  ingest.NewScanner(cfg, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.watcher = ingest.NewWatcher(cfg, logger, d.onMediaDetected)
	return d, nil
}

// Start acquires the daemon lock, runs an initial incoming scan, and
// launches the workflow manager and media watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another photonym instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if _, err := d.scanner.Scan(runCtx); err != nil {
		d.logger.Warn("initial incoming scan failed", logging.Error(err))
	}

	if err := d.workflow.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}
	if err := d.watcher.Start(runCtx); err != nil {
		d.logger.Warn("media watcher failed to start", logging.Error(err))
	}

	d.running.Store(true)
	d.logger.Info("photonym daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.watcher.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("photonym daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the single-instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// onMediaDetected fires when the watcher sees removable storage appear: it
// notifies and rescans the incoming directory for new photos.
func (d *Daemon) onMediaDetected(ctx context.Context, device string) {
	if err := d.notifier.NotifyMediaDetected(ctx, device); err != nil {
		d.logger.Warn("media notification failed", logging.Error(err))
	}
	if _, err := d.scanner.Scan(ctx); err != nil {
		d.logger.Warn("triggered incoming scan failed",
			logging.Error(err),
			logging.String("device", device))
	}
}
