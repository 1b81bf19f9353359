package daemon_test

import (
	"context"
	"testing"

	"photonym/internal/config"
	"photonym/internal/daemon"
	"photonym/internal/testsupport"
	"photonym/internal/workflow"
)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	manager, err := workflow.NewManager(cfg, store, nil, workflow.DefaultStageSet(cfg, store, nil))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	d, err := daemon.New(cfg, store, nil, manager, nil)
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	return d
}

func quietConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Detector.BaseURL = ""
	cfg.Describer.BaseURL = ""
	return cfg
}

func TestStartStopLifecycle(t *testing.T) {
	d := newDaemon(t, quietConfig(t))
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Running() {
		t.Fatal("expected daemon to be running")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
	d.Stop()
	if d.Running() {
		t.Fatal("expected daemon stopped")
	}
}

func TestSecondInstanceBlockedByLock(t *testing.T) {
	cfg := quietConfig(t)
	ctx := context.Background()

	first := newDaemon(t, cfg)
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	second := newDaemon(t, cfg)
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected lock contention error")
	}
}
