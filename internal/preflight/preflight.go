// Package preflight runs startup checks: directory access, free disk
// space, and external service configuration.
package preflight

import (
	"context"

	"photonym/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Incoming directory", cfg.Paths.IncomingDir),
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace("Library free space", cfg.Paths.LibraryDir),
		CheckService(ctx, "Detector service", cfg.Detector.BaseURL, cfg.Detector.APIKey),
		CheckService(ctx, "Describer service", cfg.Describer.BaseURL, cfg.Describer.APIKey),
	}
	return results
}

// AllPassed reports whether every mandatory check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
