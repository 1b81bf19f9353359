package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"photonym/internal/config"
	"photonym/internal/preflight"
	"photonym/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue summary and environment checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(out, "Queue is empty")
				} else {
					table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
					fmt.Fprintln(out, table)
				}

				fmt.Fprintln(out, "Checks:")
				colorize := useColor(os.Stdout)
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					fmt.Fprintln(out, renderCheckLine(result, colorize))
				}
				return nil
			})
		},
	}
}

func buildQueueStatusRows(stats map[queue.Status]int) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		count, ok := stats[status]
		if !ok || count == 0 {
			continue
		}
		rows = append(rows, []string{string(status), strconv.Itoa(count)})
	}
	return rows
}
