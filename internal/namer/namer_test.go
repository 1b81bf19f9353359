package namer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photonym/internal/namer"
	"photonym/internal/queue"
	"photonym/internal/testsupport"
)

var captureDate = time.Date(2024, 5, 1, 14, 30, 9, 0, time.UTC)

func TestAssemble(t *testing.T) {
	cases := []struct {
		name        string
		names       []string
		description string
		want        string
	}{
		{"people and description", []string{"alice", "bob"}, "beach sunset", "2024-05-01_alice_and_bob_beach_sunset"},
		{"single person", []string{"zoe"}, "Birthday Party!", "2024-05-01_zoe_birthday_party"},
		{"no people", nil, "mountain hike", "2024-05-01_mountain_hike"},
		{"fallback description", nil, "photo_20240501-143009", "2024-05-01_photo_20240501-143009"},
		{"empty description", []string{"alice"}, "", "2024-05-01_alice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := namer.Assemble(captureDate, tc.names, tc.description)
			if got != tc.want {
				t.Fatalf("Assemble = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsGeneratedName(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"2024-05-01_alice_and_bob_beach.jpg", true},
		{"2024-05-01_photo_20240501-143009.jpg", true},
		{"2024-05-01_hike.png", true},
		{"IMG_0001.jpg", false},
		{"2024-05-01.jpg", false},
		{"20240501_alice.jpg", false},
		{"2024-05-01_Alice.jpg", false},
	}
	for _, tc := range cases {
		if got := namer.IsGeneratedName(tc.filename); got != tc.want {
			t.Errorf("IsGeneratedName(%q) = %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestExecuteMovesPhotoIntoLibrary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(cfg.Paths.IncomingDir, "IMG_0001.JPG")
	testsupport.WritePhoto(t, source, "")
	item := testsupport.NewPhoto(t, store, source)
	item.CaptureDate = &captureDate
	item.Description = "beach sunset"
	if err := item.SetResolvedNames([]string{"alice"}); err != nil {
		t.Fatalf("SetResolvedNames failed: %v", err)
	}

	n := namer.New(cfg, nil)
	if err := n.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := filepath.Join(cfg.Paths.LibraryDir, "2024", "2024-05-01_alice_beach_sunset.jpg")
	if item.FinalPath != want {
		t.Fatalf("FinalPath = %q, want %q", item.FinalPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected photo at %s: %v", want, err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, got %v", err)
	}
	if item.Status != queue.StatusCompleted {
		t.Fatalf("expected completed, got %s", item.Status)
	}
}

func TestExecuteAvoidsCollisions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	existing := filepath.Join(cfg.Paths.LibraryDir, "2024", "2024-05-01_hike.jpg")
	testsupport.WritePhoto(t, existing, "")

	source := filepath.Join(cfg.Paths.IncomingDir, "IMG_0002.jpg")
	testsupport.WritePhoto(t, source, "")
	item := testsupport.NewPhoto(t, store, source)
	item.CaptureDate = &captureDate
	item.Description = "hike"

	n := namer.New(cfg, nil)
	if err := n.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.FinalName != "2024-05-01_hike_2.jpg" {
		t.Fatalf("expected suffixed name, got %q", item.FinalName)
	}
}

func TestExecuteUsesModTimeWithoutCaptureDate(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(cfg.Paths.IncomingDir, "IMG_0003.jpg")
	testsupport.WritePhoto(t, source, "")
	mtime := time.Date(2023, 12, 24, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(source, mtime, mtime); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	item := testsupport.NewPhoto(t, store, source)
	item.Description = "christmas eve"

	n := namer.New(cfg, nil)
	if err := n.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.FinalName != "2023-12-24_christmas_eve.jpg" {
		t.Fatalf("unexpected final name %q", item.FinalName)
	}
}
