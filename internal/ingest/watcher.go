package ingest

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"photonym/internal/config"
	"photonym/internal/logging"
)

// Watcher listens for udev netlink events and triggers an incoming scan
// when removable storage (a camera or card reader) appears.
type Watcher struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler func(ctx context.Context, device string)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewWatcher creates a removable-media watcher. Returns nil when monitoring
// is disabled in configuration.
func NewWatcher(cfg *config.Config, logger *slog.Logger, handler func(ctx context.Context, device string)) *Watcher {
	if cfg == nil || !cfg.Ingest.MonitorRemovable {
		return nil
	}
	return &Watcher{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "media-watcher"),
		handler: handler,
	}
}

// Start begins listening for udev netlink events.
func (w *Watcher) Start(ctx context.Context) error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket; removable media will need manual scans",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
		)
		return nil
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.monitorLoop(ctx, quit)

	w.logger.Info("media watcher started",
		logging.String(logging.FieldEventType, "media_watcher_started"))
	return nil
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false

	w.logger.Info("media watcher stopped",
		logging.String(logging.FieldEventType, "media_watcher_stopped"))
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, w.buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			w.handleEvent(ctx, uevent)
		case err := <-errs:
			w.logger.Warn("media watcher error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "media_watcher_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"))
		}
	}
}

// buildMatcher matches block devices with a mountable filesystem appearing,
// the signature of a camera or memory card being attached.
func (w *Watcher) buildMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":   "block",
			"ID_FS_USAGE": "filesystem",
		},
	})
	return rules
}

func (w *Watcher) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	devname := strings.TrimSpace(uevent.Env["DEVNAME"])
	if devname == "" {
		w.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}

	w.logger.Info("removable media detected",
		logging.String(logging.FieldEventType, "media_detected"),
		logging.String("device", devname),
		logging.String("action", string(uevent.Action)))

	if w.handler != nil {
		w.handler(ctx, devname)
	}
}
