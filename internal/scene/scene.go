// Package scene produces the short scene description used as the filename
// tail, falling back to a timestamp token when the description service is
// unavailable.
package scene

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"photonym/internal/logging"
)

// Describer is the slice of the description client the scene stage needs.
type Describer interface {
	Describe(ctx context.Context, image []byte) (string, error)
	Configured() bool
}

// Service wraps the describer client with degradation behavior.
type Service struct {
	describer Describer
	logger    *slog.Logger
}

// New builds a scene Service.
func New(describer Describer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{describer: describer, logger: logger}
}

// Describe returns a scene description for the photo. Service failure or an
// unconfigured describer yields the deterministic fallback built from the
// capture time, never an error.
func (s *Service) Describe(ctx context.Context, image []byte, captureTime time.Time) string {
	log := logging.WithContext(ctx, s.logger)

	if s.describer == nil || !s.describer.Configured() {
		log.Debug("describer not configured, using fallback description")
		return Fallback(captureTime)
	}

	description, err := s.describer.Describe(ctx, image)
	if err != nil {
		log.Warn("scene description failed, using fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check describer service availability"))
		return Fallback(captureTime)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Fallback(captureTime)
	}
	return description
}

// Fallback builds the degraded description token from a capture time.
func Fallback(captureTime time.Time) string {
	return "photo_" + captureTime.Format("20060102-150405")
}
