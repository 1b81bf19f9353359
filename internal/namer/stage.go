package namer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photonym/internal/config"
	"photonym/internal/logging"
	"photonym/internal/queue"
	"photonym/internal/services"
	"photonym/internal/stage"
)

// Namer is the assembling_name stage: it builds the final filename and
// moves the photo into the library.
type Namer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New builds the naming stage handler.
func New(cfg *config.Config, logger *slog.Logger) *Namer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Namer{cfg: cfg, logger: logger}
}

func (n *Namer) Prepare(ctx context.Context, item *queue.Item) error {
	item.SetProgress("Assembling name", "Building descriptive filename")
	return nil
}

func (n *Namer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, n.logger)

	captureDate := n.captureDate(item)
	names, err := item.ResolvedNameList()
	if err != nil {
		logger.Warn("stored name list unreadable, naming without people", logging.Error(err))
		names = nil
	}

	stem := Assemble(captureDate, names, item.Description)
	ext := strings.ToLower(filepath.Ext(item.SourcePath))
	targetDir := filepath.Join(n.cfg.Paths.LibraryDir, captureDate.Format("2006"))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "assembling name", "create library dir",
			"Failed to create library directory; check library_dir permissions", err)
	}

	target, err := n.resolveTarget(targetDir, stem, ext)
	if err != nil {
		return err
	}

	if err := moveFile(item.SourcePath, target); err != nil {
		if !n.cfg.Library.OverwriteExisting {
			_ = os.Remove(target)
		}
		return services.Wrap(services.ErrTransient, "assembling name", "move to library",
			"Failed to move photo into library", err)
	}

	item.FinalName = filepath.Base(target)
	item.FinalPath = target
	item.Status = queue.StatusCompleted
	item.SetProgress("Completed", fmt.Sprintf("Renamed to %s", item.FinalName))
	logger.Info("photo renamed",
		logging.String("final_name", item.FinalName),
		logging.String("final_path", target))
	return nil
}

func (n *Namer) HealthCheck(ctx context.Context) stage.Health {
	const name = "namer"
	if err := os.MkdirAll(n.cfg.Paths.LibraryDir, 0o755); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("library dir unavailable: %v", err))
	}
	return stage.Healthy(name)
}

func (n *Namer) captureDate(item *queue.Item) time.Time {
	if item.CaptureDate != nil && !item.CaptureDate.IsZero() {
		return *item.CaptureDate
	}
	if info, err := os.Stat(item.SourcePath); err == nil {
		return info.ModTime()
	}
	return time.Now()
}

// resolveTarget finds a non-colliding target path, appending a numeric
// suffix unless overwriting is allowed. The chosen name is reserved with an
// exclusive create so concurrent workers cannot pick the same one; the
// subsequent move replaces the placeholder.
func (n *Namer) resolveTarget(dir, stem, ext string) (string, error) {
	target := filepath.Join(dir, stem+ext)
	if n.cfg.Library.OverwriteExisting {
		return target, nil
	}
	for i := 2; ; i++ {
		f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			return target, nil
		}
		if !os.IsExist(err) {
			return "", services.Wrap(services.ErrTransient, "assembling name", "reserve target",
				"Failed to reserve library target", err)
		}
		if i > 100 {
			return "", services.Wrap(services.ErrValidation, "assembling name", "resolve target",
				fmt.Sprintf("Too many filename collisions for %s", stem), nil)
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
}

// moveFile renames src to dst, falling back to copy-and-remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
