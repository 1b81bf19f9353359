// Package logging assembles the structured slog loggers used across Photonym.
//
// It centralizes level and output plumbing and exposes context-aware helpers
// so pipeline code can automatically tag log lines with photo IDs, stage
// names, and correlation IDs. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
