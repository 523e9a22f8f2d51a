package workflow

import (
	"context"

	"moviefmt/internal/journal"
	"moviefmt/internal/organizer"
	"moviefmt/internal/services"
)

// JournalWriter persists journal entries.
type JournalWriter interface {
	Record(ctx context.Context, entry journal.Entry) error
}

// JournalRecorder adapts a journal to the organizer's Recorder, tagging each
// action with the run id and folder carried by ctx.
type JournalRecorder struct {
	writer JournalWriter
}

// NewJournalRecorder wraps writer.
func NewJournalRecorder(writer JournalWriter) *JournalRecorder {
	return &JournalRecorder{writer: writer}
}

// Record implements organizer.Recorder.
func (j *JournalRecorder) Record(ctx context.Context, action organizer.Action) error {
	runID, _ := services.RunIDFromContext(ctx)
	folder, _ := services.FolderFromContext(ctx)
	return j.writer.Record(ctx, journal.Entry{
		RunID:       runID,
		Folder:      folder,
		Action:      string(action.Kind),
		Source:      action.Source,
		Destination: action.Destination,
	})
}
