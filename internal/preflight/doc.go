// Package preflight provides readiness checks for the TMDB API and the
// directories a run reads and writes.
//
// The CLI "moviefmt check" command runs RunAll and prints one row per
// check. Checks never modify anything; a missing output directory is
// reported through its nearest existing parent.
package preflight
