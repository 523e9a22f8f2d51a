package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	flags := &runFlags{}

	ctx := newCommandContext(&configFlag, flags)

	rootCmd := &cobra.Command{
		Use:   "moviefmt [dir]",
		Short: "Rename movie folders to the Title (Year) [tmdbid-N] layout",
		Long: "moviefmt matches every folder inside dir against The Movie Database and\n" +
			"moves or copies its files into canonically named folders.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runDirectory(cmd, ctx, args[0])
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	persistent.StringVarP(&flags.apiToken, "api-token", "t", "", "TMDB API read access token (default: $TMDB_API_TOKEN)")
	persistent.StringVarP(&flags.outDir, "out-dir", "o", "", "Output directory (default: next to each input folder)")

	runFlagSet := rootCmd.Flags()
	runFlagSet.BoolVarP(&flags.dontCapitalize, "dont-capitalize", "d", false, "Keep the title case returned by TMDB")
	runFlagSet.BoolVarP(&flags.deleteUnrecognized, "delete-unrecognised", "u", false, "Delete files that are not movie containers")
	runFlagSet.BoolVarP(&flags.move, "move", "m", false, "Move files instead of copying them")
	runFlagSet.BoolVar(&flags.dryRun, "dry-run", false, "Log planned actions without touching the filesystem")
	runFlagSet.BoolVar(&flags.nonInteractive, "non-interactive", false, "Never prompt; ambiguous folders keep their own name")

	rootCmd.AddCommand(newRunCommand(ctx, runFlagSet))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))

	return rootCmd
}
