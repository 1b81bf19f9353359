package workflow

import (
	"log/slog"

	"photonym/internal/config"
	"photonym/internal/namer"
	"photonym/internal/queue"
	"photonym/internal/resolver"
	"photonym/internal/scene"
	"photonym/internal/services/describer"
	"photonym/internal/services/detector"
)

// DefaultStageSet wires the production pipeline from configuration: HTTP
// clients for the external services, the resolver backed by the queue's
// known-people table, and the namer targeting the configured library.
func DefaultStageSet(cfg *config.Config, store *queue.Store, logger *slog.Logger) StageSet {
	detectorClient := detector.NewClient(detector.Config{
		BaseURL:        cfg.Detector.BaseURL,
		APIKey:         cfg.Detector.APIKey,
		TimeoutSeconds: cfg.Detector.TimeoutSeconds,
	})
	describerClient := describer.NewClient(describer.Config{
		BaseURL:        cfg.Describer.BaseURL,
		APIKey:         cfg.Describer.APIKey,
		TimeoutSeconds: cfg.Describer.TimeoutSeconds,
	})

	res := resolver.New(detectorClient, store, logger)
	sceneSvc := scene.New(describerClient, logger)

	return StageSet{
		Extractor: NewExtractStage(res, logger),
		Resolver:  NewDetectStage(res, detectorClient, logger),
		Describer: NewDescribeStage(sceneSvc, describerClient, logger),
		Namer:     namer.New(cfg, logger),
	}
}
