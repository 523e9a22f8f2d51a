package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"moviefmt/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent filesystem actions from the run journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Journal.Path); os.IsNotExist(err) {
				fmt.Fprintf(out, "No journal at %s\n", cfg.Journal.Path)
				return nil
			}

			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			var entries []journal.Entry
			if runID != "" {
				entries, err = store.Run(cmd.Context(), runID)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries")
				return nil
			}
			fmt.Fprintln(out, renderHistory(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show every entry of one run id")
	return cmd
}

func renderHistory(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Timestamp.In(time.Local).Format("2006-01-02 15:04:05"),
			shortRunID(entry.RunID),
			entry.Folder,
			entry.Action,
			displayPath(entry.Source),
			displayPath(entry.Destination),
		})
	}
	return renderTable(
		[]string{"Time", "Run", "Folder", "Action", "Source", "Destination"},
		rows,
	)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func displayPath(path string) string {
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}
