package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"moviefmt/internal/logging"
	"moviefmt/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Check TMDB access and directory permissions before a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.runConfig()
			if err != nil {
				return err
			}
			client, err := newTMDBClient(cfg, logging.NewNop())
			if err != nil {
				return err
			}
			var inputDir string
			if len(args) == 1 {
				inputDir = args[0]
			}

			results := preflight.RunAll(cmd.Context(), cfg, client, inputDir)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(pluralChecks(len(failed)) + " failed")
			}
			return nil
		},
	}
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
