// Package journal keeps an append-only SQLite audit of every filesystem
// action taken by a run. It is a history record for operators; runs never
// read it back to resume work.
package journal
