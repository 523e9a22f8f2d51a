// Package tmdb provides the TMDB API client used to identify movie folders.
//
// Requests authenticate with a bearer token. Movie search walks every page the
// server reports and falls back to a title-only query when the release-year
// filter finds nothing; single movies can also be fetched by id. HTTP 429
// responses are retried after a fixed delay, forever unless a maximum attempt
// count is configured. Records decode strictly so a payload missing a required
// field fails instead of producing a half-empty match.
package tmdb
