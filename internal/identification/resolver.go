package identification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/logging"
	"moviefmt/internal/parser"
	"moviefmt/internal/services"
	"moviefmt/internal/textutil"
)

// Chooser selects one of several candidates for a folder. Returning
// len(candidates) means none of them match.
type Chooser interface {
	ChooseCandidate(ctx context.Context, folder *parser.Folder, candidates []tmdb.Record) (int, error)
}

// IDPrompter asks for a TMDB id when searching found nothing. ok is false when
// the operator declines.
type IDPrompter interface {
	PromptID(ctx context.Context, folder *parser.Folder) (id int64, ok bool, err error)
}

// Resolver turns parsed folders into TMDB records.
type Resolver struct {
	client   tmdb.Searcher
	chooser  Chooser
	prompter IDPrompter
	logger   *slog.Logger
}

// NewResolver wires a resolver. chooser and prompter may be nil: without a
// chooser ambiguous folders resolve to no match, and without a prompter empty
// searches are final.
func NewResolver(client tmdb.Searcher, chooser Chooser, prompter IDPrompter, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:   client,
		chooser:  chooser,
		prompter: prompter,
		logger:   logging.NewComponentLogger(logger, "identification"),
	}
}

// Identify looks up candidates for folder and resolves them to a single
// record. A nil record with a nil error means no metadata applies.
func (r *Resolver) Identify(ctx context.Context, folder *parser.Folder) (*tmdb.Record, error) {
	candidates, err := r.Lookup(ctx, folder)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, folder, candidates)
}

// Lookup fetches candidate records for folder.
func (r *Resolver) Lookup(ctx context.Context, folder *parser.Folder) ([]tmdb.Record, error) {
	if folder == nil {
		return nil, services.Wrap(services.ErrValidation, "identification", "lookup", "folder is nil", nil)
	}
	logger := logging.WithContext(ctx, r.logger)

	if folder.TMDBID > 0 {
		records, err := r.client.FetchByID(ctx, folder.TMDBID)
		if err == nil {
			logger.Debug("fetched folder tmdbid", logging.Int64("tmdb_id", folder.TMDBID))
			return records, nil
		}
		if !tmdb.IsStatus(err, http.StatusNotFound) {
			return nil, err
		}
		logging.WarnWithContext(logger, "folder tmdbid not found; searching by title", "tmdbid_not_found",
			logging.Int64("tmdb_id", folder.TMDBID),
			logging.String(logging.FieldErrorHint, "fix or remove the [tmdbid-N] tag in the folder name"),
			logging.String(logging.FieldImpact, "match falls back to title search"),
		)
	}

	records, err := r.client.SearchByTitleYear(ctx, folder.Title, folder.Year)
	if err != nil {
		return nil, err
	}
	logger.Debug("tmdb candidates fetched",
		logging.String("title", folder.Title),
		logging.String("year", folder.Year),
		logging.Int("candidates", len(records)),
	)
	if len(records) > 0 || r.prompter == nil {
		return records, nil
	}

	id, ok, err := r.prompter.PromptID(ctx, folder)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Info("no tmdb results; manual id declined", logging.Args(logging.DecisionAttrs("tmdb_manual_id", "declined", "search returned no results")...)...)
		return nil, nil
	}
	logger.Info("no tmdb results; using manual id",
		logging.Args(append(logging.DecisionAttrs("tmdb_manual_id", "accepted", "search returned no results"),
			logging.Int64("tmdb_id", id))...)...,
	)
	records, err = r.client.FetchByID(ctx, id)
	if tmdb.IsStatus(err, http.StatusNotFound) {
		logging.WarnWithContext(logger, "manual tmdb id not found; treating folder as unmatched", "tmdb_manual_id_not_found",
			logging.Int64("tmdb_id", id),
			logging.String(logging.FieldErrorHint, "check the id on themoviedb.org and rerun"),
			logging.String(logging.FieldImpact, "folder is named from its parsed title and year"),
		)
		return nil, nil
	}
	return records, err
}

// Resolve picks the record describing folder from candidates. Empty input
// yields nil without prompting.
func (r *Resolver) Resolve(ctx context.Context, folder *parser.Folder, candidates []tmdb.Record) (*tmdb.Record, error) {
	if folder == nil {
		return nil, services.Wrap(services.ErrValidation, "identification", "resolve", "folder is nil", nil)
	}
	logger := logging.WithContext(ctx, r.logger)
	if len(candidates) == 0 {
		logger.Info("no tmdb match", logging.Args(logging.DecisionAttrs("tmdb_match", "none", "no candidates")...)...)
		return nil, nil
	}

	matches := MatchingIndexes(folder.Title, candidates)
	if len(matches) == 1 {
		chosen := candidates[matches[0]]
		logger.Info("tmdb match selected",
			logging.Args(append(logging.DecisionAttrs("tmdb_match", "auto", "single normalized title match"),
				logging.Int64("tmdb_id", chosen.ID),
				logging.String("title", chosen.Title),
			)...)...,
		)
		return &chosen, nil
	}

	reason := fmt.Sprintf("%d normalized title matches among %d candidates", len(matches), len(candidates))
	if r.chooser == nil {
		logger.Info("ambiguous tmdb match; no chooser configured",
			logging.Args(logging.DecisionAttrs("tmdb_match", "none", reason)...)...)
		return nil, nil
	}
	index, err := r.chooser.ChooseCandidate(ctx, folder, candidates)
	if err != nil {
		return nil, err
	}
	if index == len(candidates) {
		logger.Info("manual selection declined", logging.Args(logging.DecisionAttrs("tmdb_match", "none", reason)...)...)
		return nil, nil
	}
	if index < 0 || index > len(candidates) {
		return nil, services.Wrap(services.ErrValidation, "identification", "resolve",
			fmt.Sprintf("selection %d out of range 0..%d", index, len(candidates)), nil)
	}
	chosen := candidates[index]
	logger.Info("tmdb match selected",
		logging.Args(append(logging.DecisionAttrs("tmdb_match", "manual", reason),
			logging.Int64("tmdb_id", chosen.ID),
			logging.String("title", chosen.Title),
		)...)...,
	)
	return &chosen, nil
}

// MatchingIndexes returns the positions of candidates whose title or original
// title normalizes to the same text as title.
func MatchingIndexes(title string, candidates []tmdb.Record) []int {
	want := textutil.Normalize(title)
	var matches []int
	for i, candidate := range candidates {
		if textutil.Normalize(candidate.Title) == want || textutil.Normalize(candidate.OriginalTitle) == want {
			matches = append(matches, i)
		}
	}
	return matches
}
