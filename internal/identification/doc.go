// Package identification decides which TMDB record, if any, describes a
// parsed movie folder.
//
// The Resolver looks candidates up by the folder's embedded tmdbid when
// present, otherwise by title and year. A single candidate whose title or
// original title normalizes to the folder title is accepted automatically;
// every other non-empty outcome is handed to an injected Chooser so the
// operator (or a scripted stand-in) picks one or declines.
package identification
