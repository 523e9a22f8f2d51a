package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moviefmt/internal/config"
	"moviefmt/internal/identification"
	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/journal"
	"moviefmt/internal/logging"
	"moviefmt/internal/organizer"
	"moviefmt/internal/parser"
	"moviefmt/internal/prompt"
	"moviefmt/internal/workflow"
)

func newRunCommand(ctx *commandContext, shared *pflag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Organize every movie folder inside dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectory(cmd, ctx, args[0])
		},
	}
	cmd.Flags().AddFlagSet(shared)
	return cmd
}

func runDirectory(cmd *cobra.Command, ctx *commandContext, dir string) error {
	cfg, err := ctx.runConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, ctx.flags.verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	patterns, err := parserPatterns(cfg)
	if err != nil {
		return err
	}

	client, err := newTMDBClient(cfg, logger)
	if err != nil {
		return err
	}
	chooser, prompter := newPrompts(cmd, cfg)
	resolver := identification.NewResolver(client, chooser, prompter, logger)

	var recorder organizer.Recorder
	if cfg.Journal.Enabled && !cfg.Workflow.DryRun {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		recorder = workflow.NewJournalRecorder(store)
	}

	runner := workflow.NewRunner(cfg, parser.New(patterns, logger), resolver, organizer.New(cfg, recorder, logger), logger)
	summary, err := runner.Run(cmd.Context(), dir)
	out := cmd.OutOrStdout()
	if summary.Total() > 0 || err == nil {
		label := "Summary"
		if cfg.Workflow.DryRun {
			label = "Dry run summary"
		}
		fmt.Fprintf(out, "%s: %s\n", label, summary)
	}
	return err
}

func parserPatterns(cfg *config.Config) (parser.Patterns, error) {
	folderExpr, fileExpr := cfg.Parser.FolderPattern, cfg.Parser.FilePattern
	if folderExpr == "" && fileExpr == "" {
		return parser.DefaultPatterns(), nil
	}
	if folderExpr == "" {
		folderExpr = parser.DefaultFolderPattern
	}
	if fileExpr == "" {
		fileExpr = parser.DefaultFilePattern
	}
	return parser.CompilePatterns(folderExpr, fileExpr)
}

func newTMDBClient(cfg *config.Config, logger *slog.Logger) (*tmdb.Client, error) {
	return tmdb.New(cfg.TMDB.APIToken, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TMDB.TimeoutSeconds) * time.Second}),
		tmdb.WithBackoff(tmdb.Backoff{
			Delay:       time.Duration(cfg.TMDB.BackoffSeconds) * time.Second,
			MaxAttempts: cfg.TMDB.MaxAttempts,
		}),
		tmdb.WithIncludeAdult(cfg.TMDB.IncludeAdult),
		tmdb.WithLogger(logger),
	)
}

// newPrompts picks the terminal prompt when the command can read answers and
// the decline-everything prompt otherwise.
func newPrompts(cmd *cobra.Command, cfg *config.Config) (identification.Chooser, identification.IDPrompter) {
	if cfg.Workflow.NonInteractive {
		return prompt.Decline{}, prompt.Decline{}
	}
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && !prompt.IsInteractive(file) {
		return prompt.Decline{}, prompt.Decline{}
	}
	terminal := prompt.NewTerminal(in, cmd.OutOrStdout())
	return terminal, terminal
}
