package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"photonym/internal/config"
	"photonym/internal/ingest"
	"photonym/internal/logging"
	"photonym/internal/queue"
	"photonym/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Scan the incoming directory and rename every queued photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				logger := logging.NewNop()

				scanner := ingest.NewScanner(cfg, store, logger)
				scan, err := scanner.Scan(cmd.Context())
				if err != nil {
					return fmt.Errorf("scan incoming directory: %w", err)
				}
				fmt.Fprintf(out, "Scanned incoming directory: %d added, %d skipped\n", scan.Added, scan.Skipped)

				before, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				remaining := before.Pending + before.Processing
				if remaining == 0 {
					fmt.Fprintln(out, "Nothing to process")
					return nil
				}

				manager, err := workflow.NewManager(cfg, store, logger, workflow.DefaultStageSet(cfg, store, logger))
				if err != nil {
					return fmt.Errorf("create workflow manager: %w", err)
				}

				bar := progressbar.NewOptions(remaining,
					progressbar.OptionSetDescription("Renaming photos"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
				)

				drainErr := make(chan error, 1)
				go func() {
					drainErr <- manager.Drain(cmd.Context())
				}()

				ticker := time.NewTicker(200 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case err := <-drainErr:
						_ = bar.Finish()
						fmt.Fprintln(out)
						after, healthErr := store.Health(cmd.Context())
						if healthErr != nil {
							return healthErr
						}
						renamed := after.Completed - before.Completed
						failed := after.Failed - before.Failed
						fmt.Fprintf(out, "Renamed %d photos, %d failed\n", renamed, failed)
						return err
					case <-ticker.C:
						health, healthErr := store.Health(cmd.Context())
						if healthErr != nil {
							continue
						}
						done := (health.Completed - before.Completed) + (health.Failed - before.Failed)
						if done >= 0 {
							_ = bar.Set(done)
						}
					}
				}
			})
		},
	}
}
