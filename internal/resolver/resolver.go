// Package resolver decides whose names end up in a photo's filename:
// people already tagged in the photo's metadata win outright, otherwise
// the external detection service is consulted exactly once.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"photonym/internal/logging"
	"photonym/internal/services/detector"
	"photonym/internal/tags"
)

// Detector is the slice of the detection client the resolver needs.
type Detector interface {
	Detect(ctx context.Context, image []byte, knownPeople []string) ([]detector.Person, error)
	Configured() bool
}

// PeopleRepo stores the names the pipeline has resolved before. Known names
// are passed to the detector as hints and newly resolved names are written
// back after each photo.
type PeopleRepo interface {
	ListKnownPeople(ctx context.Context) ([]string, error)
	RememberPeople(ctx context.Context, names []string) error
}

// Resolution is the outcome of resolving one photo.
type Resolution struct {
	Names        []string
	Detections   []detector.Person
	UsedDetector bool
}

// Resolver applies the embedded-wins rule.
type Resolver struct {
	detector Detector
	people   PeopleRepo
	logger   *slog.Logger
}

// New builds a Resolver. The people repository may be nil, in which case the
// detector runs without hints and resolved names are not remembered.
func New(det Detector, people PeopleRepo, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{detector: det, people: people, logger: logger}
}

// Resolve produces the normalized name list for a photo. Embedded tags are
// used exclusively when present; only when the photo carries none does the
// detector run, and then exactly once. Detector failures degrade to an empty
// name list rather than an error.
func (r *Resolver) Resolve(ctx context.Context, image []byte, extraction tags.ExtractionResult) Resolution {
	log := logging.WithContext(ctx, r.logger)

	if extraction.HasEmbeddedTags {
		names := make([]string, 0, len(extraction.People))
		for _, person := range extraction.People {
			names = append(names, person.Name)
		}
		log.Debug("resolved from embedded tags", logging.Int("people", len(names)))
		r.remember(ctx, names)
		return Resolution{Names: names}
	}

	resolution := Resolution{UsedDetector: true}
	if r.detector == nil || !r.detector.Configured() {
		log.Debug("detector not configured, resolving to no people")
		return resolution
	}

	hints := r.hints(ctx)
	detections, err := r.detector.Detect(ctx, image, hints)
	if err != nil {
		log.Warn("person detection failed, continuing without people",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check detector service availability"))
		return resolution
	}
	resolution.Detections = detections

	seen := make(map[string]struct{}, len(detections))
	for _, person := range detections {
		if person.Confidence != detector.ConfidenceHigh && person.Confidence != detector.ConfidenceMedium {
			continue
		}
		name := tags.NormalizeName(person.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		resolution.Names = append(resolution.Names, name)
	}

	log.Debug("resolved from detector",
		logging.Int("detections", len(detections)),
		logging.Int("accepted", len(resolution.Names)))
	r.remember(ctx, resolution.Names)
	return resolution
}

func (r *Resolver) hints(ctx context.Context) []string {
	if r.people == nil {
		return nil
	}
	hints, err := r.people.ListKnownPeople(ctx)
	if err != nil {
		logging.WithContext(ctx, r.logger).Warn("listing known people failed", logging.Error(err))
		return nil
	}
	return hints
}

func (r *Resolver) remember(ctx context.Context, names []string) {
	if r.people == nil || len(names) == 0 {
		return
	}
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			cleaned = append(cleaned, name)
		}
	}
	if err := r.people.RememberPeople(ctx, cleaned); err != nil {
		logging.WithContext(ctx, r.logger).Warn("remembering people failed", logging.Error(err))
	}
}
