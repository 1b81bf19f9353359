package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photonym/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndReadsEnvKeys(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PHOTONYM_DETECTOR_API_KEY", "detector-key")
	t.Setenv("PHOTONYM_DESCRIBER_API_KEY", "describer-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantIncoming := filepath.Join(tempHome, ".local", "share", "photonym", "incoming")
	if cfg.Paths.IncomingDir != wantIncoming {
		t.Fatalf("unexpected incoming dir: got %q want %q", cfg.Paths.IncomingDir, wantIncoming)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "photos") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.Detector.APIKey != "detector-key" {
		t.Fatalf("expected detector key from env, got %q", cfg.Detector.APIKey)
	}
	if cfg.Describer.APIKey != "describer-key" {
		t.Fatalf("expected describer key from env, got %q", cfg.Describer.APIKey)
	}
	if cfg.Workflow.Workers != 3 {
		t.Fatalf("expected default worker count 3, got %d", cfg.Workflow.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q %q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[paths]
incoming_dir = "~/camera"
library_dir = "~/named"

[ingest]
extensions = ["JPG", ".png", "png", ""]

[workflow]
workers = 5

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Paths.IncomingDir != filepath.Join(tempHome, "camera") {
		t.Fatalf("unexpected incoming dir: %q", cfg.Paths.IncomingDir)
	}
	if cfg.Workflow.Workers != 5 {
		t.Fatalf("unexpected workers: %d", cfg.Workflow.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowered level, got %q", cfg.Logging.Level)
	}
	want := []string{".jpg", ".png"}
	if len(cfg.Ingest.Extensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Ingest.Extensions)
	}
	for i, ext := range want {
		if cfg.Ingest.Extensions[i] != ext {
			t.Fatalf("extension %d: got %q want %q", i, cfg.Ingest.Extensions[i], ext)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "same incoming and library",
			mutate: func(c *config.Config) { c.Paths.LibraryDir = c.Paths.IncomingDir },
			want:   "must differ",
		},
		{
			name:   "bad detector url",
			mutate: func(c *config.Config) { c.Detector.BaseURL = "ftp://example.com" },
			want:   "detector.base_url",
		},
		{
			name:   "zero workers",
			mutate: func(c *config.Config) { c.Workflow.Workers = 0 },
			want:   "workflow.workers",
		},
		{
			name:   "bad log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.IncomingDir = "/tmp/photonym-in"
			cfg.Paths.LibraryDir = "/tmp/photonym-out"
			cfg.Paths.LogDir = "/tmp/photonym-logs"
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
