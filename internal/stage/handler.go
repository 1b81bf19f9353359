// Package stage defines the contract between the workflow manager and the
// pipeline stages a photo moves through.
package stage

import (
	"context"
	"log/slog"

	"photonym/internal/queue"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}

// LoggerAware lets a stage receive the request-scoped logger before running.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
