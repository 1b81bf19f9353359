package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"photonym/internal/logging"
	"photonym/internal/queue"
	"photonym/internal/services"
	"photonym/internal/stage"
)

// Start begins background processing with the configured worker pool.
// Workers poll the queue until Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	workers := m.workerCount()
	m.wg.Add(workers)
	m.mu.Unlock()

	for i := 0; i < workers; i++ {
		go m.runWorker(runCtx, i, false)
	}
	return nil
}

// Stop terminates background processing. Workers stop claiming new photos;
// photos already in flight finish their stage chain before Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Drain processes the queue until no pending photos remain, then joins all
// workers. Used by the one-shot process command.
func (m *Manager) Drain(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	m.running = true
	workers := m.workerCount()
	m.wg.Add(workers)
	m.mu.Unlock()

	for i := 0; i < workers; i++ {
		go m.runWorker(ctx, i, true)
	}
	m.wg.Wait()

	m.mu.Lock()
	m.running = false
	err := m.lastErr
	m.mu.Unlock()
	return err
}

func (m *Manager) runWorker(ctx context.Context, id int, drain bool) {
	defer m.wg.Done()
	logger := m.logger.With(logging.Int(logging.FieldWorker, id))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.ClaimNext(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			logger.Error("failed to claim next photo",
				logging.Error(err),
				logging.String(logging.FieldEventType, "queue_claim_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"))
			if !m.sleep(ctx, m.errorRetry) {
				return
			}
			continue
		}
		if item == nil {
			if drain {
				return
			}
			if !m.sleep(ctx, m.pollInterval) {
				return
			}
			continue
		}

		m.onPhotoStarted(ctx)
		// The claimed photo finishes its stage chain even if the manager
		// is stopped mid-flight.
		m.processPhoto(context.WithoutCancel(ctx), logger, item)
	}
}

func (m *Manager) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// processPhoto walks one claimed photo through its remaining stages until it
// reaches a terminal status.
func (m *Manager) processPhoto(ctx context.Context, workerLogger *slog.Logger, item *queue.Item) {
	for !item.Status.IsTerminal() {
		stg, ok := m.stageByStart[item.Status]
		if !ok {
			item.SetFailed(fmt.Sprintf("no stage configured for status %s", item.Status))
			if err := m.store.Update(ctx, item); err != nil {
				workerLogger.Error("failed to persist unknown status failure", logging.Error(err))
			}
			break
		}

		stageCtx := services.WithItemID(ctx, item.ID)
		stageCtx = services.WithStage(stageCtx, stg.name)
		stageCtx = services.WithRequestID(stageCtx, uuid.NewString())

		if err := m.executeStage(stageCtx, workerLogger, stg, item); err != nil {
			break
		}
	}
	if item.Status.IsTerminal() {
		m.onPhotoFinished(ctx, item)
	}
}

func (m *Manager) executeStage(ctx context.Context, workerLogger *slog.Logger, stg pipelineStage, item *queue.Item) error {
	stageLogger := logging.WithContext(ctx, workerLogger)
	if aware, ok := stg.handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("source_file", strings.TrimSpace(item.SourcePath)))

	if err := stg.handler.Prepare(ctx, item); err != nil {
		m.handleStageFailure(ctx, stageLogger, stg.name, item, err)
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	if err := stg.handler.Execute(ctx, item); err != nil {
		m.handleStageFailure(ctx, stageLogger, stg.name, item, err)
		return err
	}

	if item.Status == stg.start || item.Status == "" {
		item.Status = stg.done
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(item.Status)),
		logging.String("progress_stage", strings.TrimSpace(item.ProgressStage)),
		logging.Duration("stage_duration", time.Since(stageStart)))
	return nil
}

func (m *Manager) handleStageFailure(ctx context.Context, stageLogger *slog.Logger, stageName string, item *queue.Item, stageErr error) {
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	item.SetFailed(message)

	stageLogger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("error_message", message),
		logging.Error(stageErr))
	if err := m.store.Update(ctx, item); err != nil {
		stageLogger.Error("failed to persist stage failure", logging.Error(err))
	}
	m.setLastError(stageErr)

	if err := m.notifier.NotifyPhotoFailed(ctx, item.OriginalName, message); err != nil {
		stageLogger.Warn("failure notification failed", logging.Error(err))
	}
}
