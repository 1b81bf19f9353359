package testsupport

import (
	"context"
	"testing"

	"photonym/internal/config"
	"photonym/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewPhoto enqueues a photo item for tests using the provided store.
func NewPhoto(t testing.TB, store *queue.Store, sourcePath string) *queue.Item {
	t.Helper()

	item, err := store.NewPhoto(context.Background(), sourcePath, "")
	if err != nil {
		t.Fatalf("store.NewPhoto: %v", err)
	}
	return item
}
