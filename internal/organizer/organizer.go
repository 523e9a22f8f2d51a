package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"moviefmt/internal/config"
	"moviefmt/internal/fileutil"
	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/logging"
	"moviefmt/internal/parser"
	"moviefmt/internal/services"
	"moviefmt/internal/textutil"
)

// ActionKind names a filesystem step.
type ActionKind string

const (
	ActionMkdir        ActionKind = "mkdir"
	ActionMove         ActionKind = "move"
	ActionCopy         ActionKind = "copy"
	ActionDelete       ActionKind = "delete"
	ActionSkipEncoding ActionKind = "skip_encoding"
	ActionRemoveSource ActionKind = "remove_source"
)

// Action is one planned or applied filesystem step.
type Action struct {
	Kind        ActionKind
	Source      string
	Destination string
}

// Recorder receives every applied action. Implementations must not retain ctx.
type Recorder interface {
	Record(ctx context.Context, action Action) error
}

// Plan is the full set of steps needed to organize one folder.
type Plan struct {
	Name        Name
	Source      string
	Destination string
	Actions     []Action
}

// Result summarizes an applied (or, in dry-run mode, planned) organization.
type Result struct {
	Name        Name
	Destination string
	Actions     []Action
	DryRun      bool
}

// Count returns how many actions of kind the result holds.
func (r Result) Count(kind ActionKind) int {
	n := 0
	for _, action := range r.Actions {
		if action.Kind == kind {
			n++
		}
	}
	return n
}

// Organizer renders canonical names and reconciles folders on disk.
type Organizer struct {
	outputDir          string
	move               bool
	deleteUnrecognized bool
	capitalize         bool
	dryRun             bool
	extensions         Extensions
	recorder           Recorder
	logger             *slog.Logger
}

// New constructs an organizer from the organize and workflow settings. A nil
// recorder disables auditing.
func New(cfg *config.Config, recorder Recorder, logger *slog.Logger) *Organizer {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	return &Organizer{
		outputDir:          cfg.Organize.OutputDir,
		move:               cfg.Organize.Move,
		deleteUnrecognized: cfg.Organize.DeleteUnrecognized,
		capitalize:         cfg.Organize.Capitalize,
		dryRun:             cfg.Workflow.DryRun,
		extensions:         NewExtensions(cfg.Organize.MovieExtensions),
		recorder:           recorder,
		logger:             logging.NewComponentLogger(logger, "organizer"),
	}
}

// Organize plans and applies the layout for folder. record may be nil.
func (o *Organizer) Organize(ctx context.Context, folder *parser.Folder, record *tmdb.Record) (Result, error) {
	plan, err := o.Plan(ctx, folder, record)
	if err != nil {
		return Result{}, err
	}
	result := Result{Name: plan.Name, Destination: plan.Destination, DryRun: o.dryRun}
	logger := logging.WithContext(ctx, o.logger)

	if o.dryRun {
		for _, action := range plan.Actions {
			logger.Info("dry run: would "+string(action.Kind),
				logging.String("source", action.Source),
				logging.String("destination", action.Destination),
			)
		}
		result.Actions = plan.Actions
		return result, nil
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := o.apply(ctx, action); err != nil {
			return result, err
		}
		result.Actions = append(result.Actions, action)
		if o.recorder != nil {
			if err := o.recorder.Record(ctx, action); err != nil {
				logging.WarnWithContext(logger, "failed to journal action", "journal_write_failed",
					logging.String("action", string(action.Kind)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "action applied but missing from history"),
				)
			}
		}
	}
	logger.Info("folder organized",
		logging.String("destination", plan.Destination),
		logging.Int("actions", len(result.Actions)),
	)
	return result, nil
}

// Plan computes every step needed for folder without touching the
// filesystem. It fails with a wrapped ConflictError before anything would be
// overwritten.
func (o *Organizer) Plan(ctx context.Context, folder *parser.Folder, record *tmdb.Record) (*Plan, error) {
	if folder == nil {
		return nil, services.Wrap(services.ErrValidation, "organizer", "plan", "folder is nil", nil)
	}
	logger := logging.WithContext(ctx, o.logger)
	name := RenderName(folder, record, o.capitalize)

	outDir := o.outputDir
	if outDir == "" {
		outDir = filepath.Dir(folder.Path)
	}
	destination := filepath.Join(outDir, name.FolderName())
	plan := &Plan{Name: name, Source: folder.Path, Destination: destination}

	// Files are reconciled inside workDir. When the source already is the
	// destination (up to Unicode composition or filesystem case folding) no
	// second folder is created.
	workDir := destination
	sameDir := textutil.NFC(folder.Path) == textutil.NFC(destination) || fileutil.SameFile(folder.Path, destination)
	if sameDir {
		workDir = folder.Path
		if folder.Path != destination && textutil.NFC(folder.Path) == textutil.NFC(destination) {
			o.warnEncoding(logger, folder.Path, destination)
			plan.Actions = append(plan.Actions, Action{Kind: ActionSkipEncoding, Source: folder.Path, Destination: destination})
		}
	} else {
		info, err := os.Stat(destination)
		switch {
		case err == nil && !info.IsDir():
			return nil, o.conflict("", destination)
		case err != nil && !os.IsNotExist(err):
			return nil, fmt.Errorf("stat destination %s: %w", destination, err)
		case err != nil:
			plan.Actions = append(plan.Actions, Action{Kind: ActionMkdir, Destination: destination})
		}
	}

	names := make([]string, 0, len(folder.Files))
	for fileName := range folder.Files {
		names = append(names, fileName)
	}
	sort.Strings(names)

	planned := make(map[string]string, len(names))
	for _, fileName := range names {
		file := folder.Files[fileName]
		if !o.extensions.Movie(file) && o.deleteUnrecognized {
			if o.move || sameDir {
				plan.Actions = append(plan.Actions, Action{Kind: ActionDelete, Source: file.Path})
			} else {
				logger.Debug("not copying unrecognized entry", logging.String("path", file.Path))
			}
			continue
		}

		target := filepath.Join(workDir, name.FileName(file, o.extensions))
		normalizedSource, normalizedTarget := textutil.NFC(file.Path), textutil.NFC(target)
		switch {
		case file.Path == target:
			logger.Debug("file already in place", logging.String("path", target))
			continue
		case normalizedSource == normalizedTarget:
			o.warnEncoding(logger, file.Path, target)
			plan.Actions = append(plan.Actions, Action{Kind: ActionSkipEncoding, Source: file.Path, Destination: target})
			continue
		}

		if other, dup := planned[normalizedTarget]; dup {
			return nil, o.conflictWith(other, file.Path, target)
		}
		exists, err := fileutil.Exists(target)
		if err != nil {
			return nil, fmt.Errorf("stat destination %s: %w", target, err)
		}
		if exists && !fileutil.SameFile(file.Path, target) {
			return nil, o.conflict(file.Path, target)
		}
		if exists && !o.move {
			logger.Debug("destination is the source file; nothing to copy", logging.String("path", target))
			continue
		}
		planned[normalizedTarget] = file.Path

		kind := ActionCopy
		if o.move {
			kind = ActionMove
		}
		plan.Actions = append(plan.Actions, Action{Kind: kind, Source: file.Path, Destination: target})
	}

	if o.move {
		plan.Actions = append(plan.Actions, o.planSourceCleanup(logger, folder.Path, destination, sameDir)...)
	}
	return plan, nil
}

func (o *Organizer) planSourceCleanup(logger *slog.Logger, source, destination string, sameDir bool) []Action {
	if !sameDir {
		if strings.HasPrefix(destination, source+string(filepath.Separator)) {
			logging.WarnWithContext(logger, "destination is inside the source folder; keeping source", "source_cleanup_skipped",
				logging.String("source", source),
				logging.String("destination", destination),
				logging.String(logging.FieldImpact, "source folder left in place"),
				logging.String(logging.FieldErrorHint, "choose an output directory outside the input folders"),
			)
			return nil
		}
		return []Action{{Kind: ActionRemoveSource, Source: source}}
	}
	// Same directory that only differs by case on a case-insensitive
	// filesystem: rename the folder itself.
	if source != destination && textutil.NFC(source) != textutil.NFC(destination) {
		return []Action{{Kind: ActionMove, Source: source, Destination: destination}}
	}
	return nil
}

func (o *Organizer) apply(ctx context.Context, action Action) error {
	logger := logging.WithContext(ctx, o.logger)
	var err error
	switch action.Kind {
	case ActionMkdir:
		err = os.MkdirAll(action.Destination, 0o755)
		if err != nil && isOutputUnavailable(err) {
			return services.Wrap(services.ErrConfiguration, "organizer", "create folder",
				"output directory unavailable; check that the output filesystem is mounted", err)
		}
	case ActionMove:
		err = fileutil.Move(action.Source, action.Destination)
	case ActionCopy:
		err = fileutil.CopyTree(action.Source, action.Destination)
	case ActionDelete:
		logger.Info("deleting unrecognized entry", logging.String("path", action.Source))
		err = os.RemoveAll(action.Source)
	case ActionRemoveSource:
		err = os.RemoveAll(action.Source)
	case ActionSkipEncoding:
		return nil
	default:
		return fmt.Errorf("unknown action %q", action.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s %s -> %s: %w", action.Kind, action.Source, action.Destination, err)
	}
	logger.Debug("applied action",
		logging.String("action", string(action.Kind)),
		logging.String("source", action.Source),
		logging.String("destination", action.Destination),
	)
	return nil
}

func (o *Organizer) warnEncoding(logger *slog.Logger, source, destination string) {
	logging.WarnWithContext(logger, "path already in place under a different Unicode encoding", "encoding_mismatch",
		logging.String("source", source),
		logging.String("destination", destination),
		logging.String(logging.FieldImpact, "entry left untouched"),
		logging.String(logging.FieldErrorHint, "rename manually if byte-exact names matter"),
	)
}

func (o *Organizer) conflict(source, destination string) error {
	return services.Wrap(services.ErrConflict, "organizer", "plan", "",
		&ConflictError{Source: source, Destination: destination})
}

func (o *Organizer) conflictWith(first, second, destination string) error {
	return services.Wrap(services.ErrConflict, "organizer", "plan",
		fmt.Sprintf("%s and %s both map to the same name", first, second),
		&ConflictError{Source: second, Destination: destination})
}
