package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"photonym/internal/config"
	"photonym/internal/logging"
	"photonym/internal/notifications"
	"photonym/internal/queue"
	"photonym/internal/stage"
)

// Manager coordinates queue processing across a fixed pool of workers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	notifier     notifications.Service
	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage
	pollInterval time.Duration
	errorRetry   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error

	batchActive  bool
	batchStart   time.Time
	batchRenamed int
	batchFailed  int
}

// NewManager constructs a workflow manager with the default notifier.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger, set StageSet) (*Manager, error) {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg), set)
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier.
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service, set StageSet) (*Manager, error) {
	stages, err := buildPipeline(set)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	byStart := make(map[queue.Status]pipelineStage, len(stages))
	for _, stg := range stages {
		byStart[stg.start] = stg
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		stages:       stages,
		stageByStart: byStart,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetry:   time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
	}, nil
}

// Health reports the readiness of every pipeline stage.
func (m *Manager) Health(ctx context.Context) []stage.Health {
	checks := make([]stage.Health, 0, len(m.stages))
	for _, stg := range m.stages {
		checks = append(checks, stg.handler.HealthCheck(ctx))
	}
	return checks
}

// LastError returns the most recent worker error, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) workerCount() int {
	workers := m.cfg.Workflow.Workers
	if workers < 1 {
		workers = 1
	}
	return workers
}

// onPhotoStarted records the start of a batch the first time a worker picks
// up work while the queue was idle.
func (m *Manager) onPhotoStarted(ctx context.Context) {
	m.mu.Lock()
	if m.batchActive {
		m.mu.Unlock()
		return
	}
	m.batchActive = true
	m.batchStart = time.Now()
	m.batchRenamed = 0
	m.batchFailed = 0
	m.mu.Unlock()

	health, err := m.store.Health(ctx)
	if err != nil {
		return
	}
	if err := m.notifier.NotifyBatchStarted(ctx, health.Pending+health.Processing); err != nil {
		m.logger.Warn("batch start notification failed", logging.Error(err))
	}
}

// onPhotoFinished tallies a terminal photo and, when the queue drains,
// reports the batch outcome.
func (m *Manager) onPhotoFinished(ctx context.Context, item *queue.Item) {
	m.mu.Lock()
	if item.Status == queue.StatusCompleted {
		m.batchRenamed++
	} else {
		m.batchFailed++
	}
	m.mu.Unlock()

	health, err := m.store.Health(ctx)
	if err != nil || health.Pending > 0 || health.Processing > 0 {
		return
	}

	m.mu.Lock()
	if !m.batchActive {
		m.mu.Unlock()
		return
	}
	renamed, failed := m.batchRenamed, m.batchFailed
	duration := time.Since(m.batchStart)
	m.batchActive = false
	m.mu.Unlock()

	if err := m.notifier.NotifyBatchCompleted(ctx, renamed, failed, duration); err != nil {
		m.logger.Warn("batch completion notification failed", logging.Error(err))
	}
}
