package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"moviefmt/internal/config"
	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/logging"
	"moviefmt/internal/organizer"
	"moviefmt/internal/parser"
	"moviefmt/internal/services"
)

const (
	stageIdentify = "identify"
	stageOrganize = "organize"
)

// FolderParser turns a folder path into parsed data.
type FolderParser interface {
	ParseFolder(path string) (*parser.Folder, error)
}

// Identifier resolves a parsed folder to a TMDB record, or nil for no match.
type Identifier interface {
	Identify(ctx context.Context, folder *parser.Folder) (*tmdb.Record, error)
}

// Organizer reconciles a folder on disk.
type Organizer interface {
	Organize(ctx context.Context, folder *parser.Folder, record *tmdb.Record) (organizer.Result, error)
}

// Runner processes every folder of an input directory sequentially.
type Runner struct {
	parser          FolderParser
	identifier      Identifier
	organizer       Organizer
	outputDir       string
	continueOnError bool
	dryRun          bool
	logger          *slog.Logger
	newRunID        func() string
}

// NewRunner wires a runner from its stages and the workflow settings.
func NewRunner(cfg *config.Config, folderParser FolderParser, identifier Identifier, org Organizer, logger *slog.Logger) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &Runner{
		parser:          folderParser,
		identifier:      identifier,
		organizer:       org,
		outputDir:       cfg.Organize.OutputDir,
		continueOnError: cfg.Workflow.ContinueOnError,
		dryRun:          cfg.Workflow.DryRun,
		logger:          logging.NewComponentLogger(logger, "workflow"),
		newRunID:        uuid.NewString,
	}
}

// Run processes every direct child folder of inputDir. The returned summary
// is valid even when err is non-nil and covers the folders handled before
// the run stopped.
func (r *Runner) Run(ctx context.Context, inputDir string) (Summary, error) {
	var summary Summary
	input, err := filepath.Abs(inputDir)
	if err != nil {
		return summary, fmt.Errorf("resolve input directory: %w", err)
	}
	info, err := os.Stat(input)
	if err != nil || !info.IsDir() {
		return summary, services.Wrap(services.ErrValidation, "workflow", "open input",
			fmt.Sprintf("%s is not a directory", input), err)
	}
	output := input
	if r.outputDir != "" {
		if output, err = filepath.Abs(r.outputDir); err != nil {
			return summary, fmt.Errorf("resolve output directory: %w", err)
		}
	}

	summary.RunID = r.newRunID()
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if !r.dryRun {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return summary, services.Wrap(services.ErrConfiguration, "workflow", "create output",
				"could not create output directory", err)
		}
		release, err := acquireLock(output)
		if err != nil {
			return summary, err
		}
		defer func() {
			if err := release(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	folders, err := listFolders(input, output)
	if err != nil {
		return summary, err
	}
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input_dir", input),
		logging.String("output_dir", output),
		logging.Int("folders", len(folders)),
		logging.Bool("dry_run", r.dryRun),
	)

	for _, path := range folders {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, err := r.processFolder(ctx, path)
		if err == nil {
			summary.add(result)
			continue
		}

		folderLogger := logging.WithContext(services.WithFolder(ctx, filepath.Base(path)), r.logger)
		switch {
		case services.FolderDisposition(err, r.continueOnError) == services.DispositionAbort:
			summary.add(outcomeFailed)
			if !errors.Is(err, context.Canceled) {
				logging.ErrorWithContext(folderLogger, "folder failed; stopping run", "run_aborted",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, abortHint(err)),
				)
			}
			return summary, err
		case errors.Is(err, services.ErrParse):
			summary.add(outcomeSkipped)
		default:
			summary.add(outcomeFailed)
			logging.WarnWithContext(folderLogger, "folder failed; continuing", "folder_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "folder left unchanged"),
			)
		}
	}

	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("processed", summary.Processed),
		logging.Int("matched", summary.Matched),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Runner) processFolder(ctx context.Context, path string) (outcome, error) {
	ctx = services.WithFolder(ctx, filepath.Base(path))

	folder, err := r.parser.ParseFolder(path)
	if err != nil {
		return outcomeSkipped, err
	}

	identifyCtx := services.WithStage(ctx, stageIdentify)
	record, err := r.identifier.Identify(identifyCtx, folder)
	if err != nil {
		return outcomeFailed, err
	}

	organizeCtx := services.WithStage(ctx, stageOrganize)
	result, err := r.organizer.Organize(organizeCtx, folder, record)
	if err != nil {
		return outcomeFailed, err
	}

	matched := "unmatched"
	reason := "no single TMDB record chosen"
	if record != nil {
		matched = "matched"
		reason = fmt.Sprintf("tmdbid %d", record.ID)
	}
	attrs := logging.DecisionAttrs("folder_match", matched, reason)
	attrs = append(attrs,
		logging.String("destination", result.Destination),
		logging.Int("actions", len(result.Actions)),
	)
	logging.WithContext(organizeCtx, r.logger).Info("folder complete", logging.Args(attrs...)...)

	if record == nil {
		return outcomeUnmatched, nil
	}
	return outcomeMatched, nil
}

// listFolders returns the direct child directories of input in lexical
// order, leaving out the output directory when it lives inside input.
func listFolders(input, output string) ([]string, error) {
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "workflow", "list input", input, err)
	}
	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(input, entry.Name())
		if path == output {
			continue
		}
		folders = append(folders, path)
	}
	sort.Strings(folders)
	return folders, nil
}

func abortHint(err error) string {
	switch {
	case errors.Is(err, services.ErrConflict):
		return "move the existing destination aside or set workflow.continue_on_error"
	case errors.Is(err, services.ErrUpstream), errors.Is(err, services.ErrRateLimited):
		return "check the TMDB token and connectivity, or set workflow.continue_on_error"
	case errors.Is(err, services.ErrConfiguration):
		return "check the configuration and that the output directory is mounted"
	default:
		return "fix the error and re-run; completed folders are already in place"
	}
}
