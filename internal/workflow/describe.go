package workflow

import (
	"context"
	"log/slog"
	"os"
	"time"

	"photonym/internal/logging"
	"photonym/internal/queue"
	"photonym/internal/scene"
	"photonym/internal/services"
	"photonym/internal/stage"
)

// DescribeStage obtains the short scene description for the filename tail.
// Description service failures degrade to a deterministic timestamp token.
type DescribeStage struct {
	scene     *scene.Service
	describer scene.Describer
	logger    *slog.Logger
}

// NewDescribeStage builds the describing_scene stage handler.
func NewDescribeStage(svc *scene.Service, describer scene.Describer, logger *slog.Logger) *DescribeStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DescribeStage{scene: svc, describer: describer, logger: logger}
}

func (s *DescribeStage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *DescribeStage) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Describing scene", "Asking description service")
	return nil
}

func (s *DescribeStage) Execute(ctx context.Context, item *queue.Item) error {
	photo, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "describing scene", "read source",
			"Photo file unreadable; it may have been moved or removed", err)
	}

	captureTime := time.Now()
	if item.CaptureDate != nil && !item.CaptureDate.IsZero() {
		captureTime = *item.CaptureDate
	} else if info, statErr := os.Stat(item.SourcePath); statErr == nil {
		captureTime = info.ModTime()
	}

	item.Description = s.scene.Describe(ctx, photo, captureTime)
	logging.WithContext(ctx, s.logger).Info("scene described",
		logging.String("description", item.Description))
	return nil
}

func (s *DescribeStage) HealthCheck(ctx context.Context) stage.Health {
	const name = "describer"
	if s.describer == nil || !s.describer.Configured() {
		return stage.Unhealthy(name, "description service not configured; filenames fall back to timestamps")
	}
	return stage.Healthy(name)
}
