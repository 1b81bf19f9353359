package ingest_test

import (
	"context"
	"path/filepath"
	"testing"

	"photonym/internal/ingest"
	"photonym/internal/queue"
	"photonym/internal/testsupport"
)

func TestScanEnqueuesPhotos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WritePhoto(t, filepath.Join(cfg.Paths.IncomingDir, "IMG_0001.jpg"), "")
	testsupport.WritePhoto(t, filepath.Join(cfg.Paths.IncomingDir, "trip", "IMG_0002.JPG"), "")
	testsupport.WritePhoto(t, filepath.Join(cfg.Paths.IncomingDir, "notes.txt"), "")

	scanner := ingest.NewScanner(cfg, store, nil)
	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("expected 2 photos added, got %d", result.Added)
	}
	if result.BatchID == "" {
		t.Fatal("expected a batch ID")
	}

	items, err := store.List(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 pending items, got %d", len(items))
	}
	for _, item := range items {
		if item.BatchID != result.BatchID {
			t.Fatalf("item %d missing batch ID", item.ID)
		}
	}
}

func TestScanSkipsAlreadyRenamedPhotos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WritePhoto(t, filepath.Join(cfg.Paths.IncomingDir, "2024-05-01_alice_beach.jpg"), "")

	scanner := ingest.NewScanner(cfg, store, nil)
	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if result.Added != 0 || result.Skipped != 1 {
		t.Fatalf("expected skip, got added=%d skipped=%d", result.Added, result.Skipped)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Status != queue.StatusCompleted {
		t.Fatalf("expected completed, got %s", items[0].Status)
	}
	if items[0].FinalName != "2024-05-01_alice_beach.jpg" {
		t.Fatalf("expected original name kept, got %q", items[0].FinalName)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.WritePhoto(t, filepath.Join(cfg.Paths.IncomingDir, "IMG_0001.jpg"), "")

	scanner := ingest.NewScanner(cfg, store, nil)
	if _, err := scanner.Scan(context.Background()); err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	result, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}
	if result.Added != 0 || result.Skipped != 1 {
		t.Fatalf("expected idempotent rescan, got added=%d skipped=%d", result.Added, result.Skipped)
	}
}

func TestAddSinglePhoto(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	path := filepath.Join(cfg.Paths.IncomingDir, "holiday.png")
	testsupport.WritePhoto(t, path, "")

	scanner := ingest.NewScanner(cfg, store, nil)
	item, err := scanner.Add(context.Background(), path)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending, got %s", item.Status)
	}
}
