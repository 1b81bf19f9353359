package testsupport

import (
	"path/filepath"
	"testing"

	"photonym/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.IncomingDir = filepath.Join(base, "incoming")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Detector.BaseURL = "http://127.0.0.1:0"
	cfg.Detector.APIKey = "test"
	cfg.Describer.BaseURL = "http://127.0.0.1:0"
	cfg.Describer.APIKey = "test"
	cfg.Ingest.MonitorRemovable = false

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithWorkers sets the worker pool size on the test config.
func WithWorkers(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.Workers = count
	}
}

// WithDetectorURL points the detector client at a test server.
func WithDetectorURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Detector.BaseURL = url
	}
}

// WithDescriberURL points the describer client at a test server.
func WithDescriberURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Describer.BaseURL = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.IncomingDir)
}
