// Package workflow drives one run over an input directory.
//
// The Runner lists the direct child folders of the input directory in
// lexical order and takes each one through parse, identify, and organize
// before starting the next. Folders are never processed concurrently and no
// two requests to TMDB overlap. Failures are classified with
// services.FolderDisposition: unparseable folders are skipped, while upstream
// and destination conflict errors stop the run unless continue_on_error is
// set.
//
// Every run gets a uuid run id that flows through the context into log lines
// and journal entries, and holds an exclusive lock file in the output tree for
// its whole duration.
package workflow
