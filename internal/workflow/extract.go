package workflow

import (
	"context"
	"log/slog"
	"os"

	"photonym/internal/logging"
	"photonym/internal/metadata"
	"photonym/internal/queue"
	"photonym/internal/resolver"
	"photonym/internal/services"
	"photonym/internal/stage"
	"photonym/internal/tags"
)

// ExtractStage reads the photo's embedded metadata and records the person
// tags found there. Photos whose metadata already names people skip the
// detection stage entirely.
type ExtractStage struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// NewExtractStage builds the extracting_tags stage handler.
func NewExtractStage(res *resolver.Resolver, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ExtractStage{resolver: res, logger: logger}
}

func (s *ExtractStage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *ExtractStage) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Extracting tags", "Reading embedded metadata")
	return nil
}

func (s *ExtractStage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	photo, err := os.ReadFile(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "extracting tags", "read source",
			"Photo file unreadable; it may have been moved or removed", err)
	}

	container := metadata.Read(photo)
	result := tags.Extract(container.XMPPacket)
	if result.TaggingSoftware == "" {
		result.TaggingSoftware = container.Software
	}
	if err := item.SetExtraction(result); err != nil {
		return services.Wrap(services.ErrValidation, "extracting tags", "encode extraction",
			"Failed to encode extraction result", err)
	}
	if !container.CaptureTime.IsZero() {
		captured := container.CaptureTime
		item.CaptureDate = &captured
	}

	logger.Info("tags extracted",
		logging.Int("people", len(result.People)),
		logging.Bool("embedded", result.HasEmbeddedTags),
		logging.String("tagging_software", result.TaggingSoftware))

	if result.HasEmbeddedTags {
		resolution := s.resolver.Resolve(ctx, photo, result)
		if err := item.SetResolvedNames(resolution.Names); err != nil {
			return services.Wrap(services.ErrValidation, "extracting tags", "encode names",
				"Failed to encode resolved names", err)
		}
		// Embedded tags decide the people outright; skip detection.
		item.Status = queue.StatusDescribingScene
	}
	return nil
}

func (s *ExtractStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("extractor")
}
