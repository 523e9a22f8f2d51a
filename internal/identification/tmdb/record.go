package tmdb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the subset of a TMDB movie payload used for matching and naming.
type Record struct {
	ID            int64
	Title         string
	OriginalTitle string
	ReleaseDate   string
}

var requiredRecordFields = []string{"id", "title", "original_title", "release_date"}

// UnmarshalJSON decodes a movie payload and rejects it when any required key
// is absent. A null release_date is accepted as unknown.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range requiredRecordFields {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("tmdb record missing %q", key)
		}
	}
	var payload struct {
		ID            int64   `json:"id"`
		Title         string  `json:"title"`
		OriginalTitle string  `json:"original_title"`
		ReleaseDate   *string `json:"release_date"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("tmdb record: %w", err)
	}
	*r = Record{
		ID:            payload.ID,
		Title:         payload.Title,
		OriginalTitle: payload.OriginalTitle,
	}
	if payload.ReleaseDate != nil {
		r.ReleaseDate = *payload.ReleaseDate
	}
	return nil
}

// Year returns the release year portion of ReleaseDate, or "" when unknown.
func (r Record) Year() string {
	year, _, _ := strings.Cut(strings.TrimSpace(r.ReleaseDate), "-")
	return year
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Record `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}
