// Package parser extracts structured data from movie folder and file names.
//
// Folder names follow "{Title} ({Year})[ [tmdbid-{id}]][ other tags]" and
// files inside follow "...[ - [label]].{extension}". The compiled patterns are
// held in an immutable Patterns value that callers build once and inject.
package parser
