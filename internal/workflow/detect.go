package workflow

import (
	"context"
	"log/slog"
	"os"

	"photonym/internal/logging"
	"photonym/internal/queue"
	"photonym/internal/resolver"
	"photonym/internal/services"
	"photonym/internal/stage"
	"photonym/internal/tags"
)

// DetectStage asks the external detection service who is in a photo that
// carried no embedded person tags. Detection failures leave the photo with
// an empty name list; they never fail it.
type DetectStage struct {
	resolver *resolver.Resolver
	detector resolver.Detector
	logger   *slog.Logger
}

// NewDetectStage builds the detecting_people stage handler.
func NewDetectStage(res *resolver.Resolver, det resolver.Detector, logger *slog.Logger) *DetectStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DetectStage{resolver: res, detector: det, logger: logger}
}

func (s *DetectStage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *DetectStage) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Detecting people", "Asking detection service")
	return nil
}

func (s *DetectStage) Execute(ctx context.Context, item *queue.Item) error {
	photo, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "detecting people", "read source",
			"Photo file unreadable; it may have been moved or removed", err)
	}

	// The extraction is re-hydrated so an operator retrying a photo mid
	// pipeline still gets the embedded-wins rule.
	extraction, err := item.Extraction()
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("stored extraction unreadable, treating as untagged", logging.Error(err))
		extraction = tags.ExtractionResult{}
	}

	resolution := s.resolver.Resolve(ctx, photo, extraction)
	if err := item.SetDetections(resolution.Detections); err != nil {
		return services.Wrap(services.ErrValidation, "detecting people", "encode detections",
			"Failed to encode detection result", err)
	}
	if err := item.SetResolvedNames(resolution.Names); err != nil {
		return services.Wrap(services.ErrValidation, "detecting people", "encode names",
			"Failed to encode resolved names", err)
	}
	return nil
}

func (s *DetectStage) HealthCheck(ctx context.Context) stage.Health {
	const name = "detector"
	if s.detector == nil || !s.detector.Configured() {
		return stage.Unhealthy(name, "detection service not configured; photos without embedded tags get no people")
	}
	return stage.Healthy(name)
}
