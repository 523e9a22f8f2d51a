package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	folderKey contextKey = "folder"
	stageKey  contextKey = "stage"
)

// WithRunID annotates context with the identifier of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFolder annotates context with the name of the folder being processed.
func WithFolder(ctx context.Context, folder string) context.Context {
	if folder == "" {
		return ctx
	}
	return context.WithValue(ctx, folderKey, folder)
}

// FolderFromContext returns the folder name if present.
func FolderFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(folderKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name (parse, identify, organize).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
