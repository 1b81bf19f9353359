package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"photonym/internal/config"
	"photonym/internal/queue"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <itemID>",
		Short: "Display details for one queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("item %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Item #%d\n", item.ID)
				fmt.Fprintf(out, "  Source:       %s\n", item.SourcePath)
				fmt.Fprintf(out, "  Status:       %s\n", item.Status)
				if item.ProgressStage != "" {
					fmt.Fprintf(out, "  Stage:        %s\n", item.ProgressStage)
				}
				if item.ProgressMessage != "" {
					fmt.Fprintf(out, "  Progress:     %s\n", item.ProgressMessage)
				}
				if item.CaptureDate != nil {
					fmt.Fprintf(out, "  Captured:     %s\n", item.CaptureDate.Format(time.RFC3339))
				}
				if item.TaggingSoftware != "" {
					fmt.Fprintf(out, "  Tagged with:  %s\n", item.TaggingSoftware)
				}
				if names, err := item.ResolvedNameList(); err == nil && len(names) > 0 {
					fmt.Fprintf(out, "  People:       %s\n", strings.Join(names, ", "))
				}
				if item.Description != "" {
					fmt.Fprintf(out, "  Description:  %s\n", item.Description)
				}
				if item.FinalName != "" {
					fmt.Fprintf(out, "  Final name:   %s\n", item.FinalName)
				}
				if item.FinalPath != "" {
					fmt.Fprintf(out, "  Final path:   %s\n", item.FinalPath)
				}
				if item.ErrorMessage != "" {
					fmt.Fprintf(out, "  Error:        %s\n", item.ErrorMessage)
				}
				fmt.Fprintf(out, "  Created:      %s\n", item.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "  Updated:      %s\n", item.UpdatedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}
