package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"photonym/internal/daemon"
	"photonym/internal/logging"
	"photonym/internal/preflight"
	"photonym/internal/queue"
	"photonym/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the photonym daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			results := preflight.RunAll(signalCtx, cfg)
			out := cmd.OutOrStdout()
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result, useColor(os.Stdout)))
			}
			if !preflight.AllPassed(results) {
				return fmt.Errorf("preflight checks failed")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			pidPath := filepath.Join(cfg.Paths.LogDir, "photonym.pid")
			if err := writePIDFile(pidPath); err != nil {
				return fmt.Errorf("write pid file: %w", err)
			}
			defer os.Remove(pidPath)

			store, err := queue.Open(cfg)
			if err != nil {
				logger.Error("open queue store", logging.Error(err))
				return err
			}
			defer store.Close()

			manager, err := workflow.NewManager(cfg, store, logger, workflow.DefaultStageSet(cfg, store, logger))
			if err != nil {
				return fmt.Errorf("create workflow manager: %w", err)
			}

			d, err := daemon.New(cfg, store, logger, manager, nil)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			logger.Info("photonym daemon shutting down")
			d.Stop()
			return nil
		},
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
