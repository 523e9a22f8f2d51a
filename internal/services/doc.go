// Package services defines shared utilities consumed by every pipeline
// component.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier, folder name, and stage
//     for logging.
//   - Structured error markers plus the Wrap helper, and FolderDisposition,
//     which decides whether a failed folder is skipped or stops the run.
//
// Use these helpers when wiring new component logic so error handling and
// observability stay uniform across the pipeline.
package services
