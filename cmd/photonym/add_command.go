package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"photonym/internal/config"
	"photonym/internal/ingest"
	"photonym/internal/logging"
	"photonym/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Add a single photo to the rename queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				if !photoExtension(cfg, info.Name()) {
					return fmt.Errorf("unsupported file extension %q", strings.ToLower(filepath.Ext(info.Name())))
				}

				scanner := ingest.NewScanner(cfg, store, logging.NewNop())
				item, err := scanner.Add(cmd.Context(), absPath)
				if err != nil {
					return err
				}
				if item.Status == queue.StatusCompleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Photo already renamed, recorded as item #%d (%s)\n", item.ID, filepath.Base(absPath))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued photo as item #%d (%s)\n", item.ID, filepath.Base(absPath))
				return nil
			})
		},
	}
}

func photoExtension(cfg *config.Config, name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range cfg.Ingest.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
