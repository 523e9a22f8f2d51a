package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"moviefmt/internal/config"
	"moviefmt/internal/identification"
	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/journal"
	"moviefmt/internal/organizer"
	"moviefmt/internal/parser"
	"moviefmt/internal/prompt"
	"moviefmt/internal/services"
	"moviefmt/internal/workflow"
)

type movie struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
}

// fakeTMDB serves single-page searches keyed by query and movie lookups keyed
// by id. Unknown queries return an empty result set.
type fakeTMDB struct {
	mu       sync.Mutex
	searches map[string][]movie
	movies   map[string]movie
	status   int
	queries  []string
}

func (f *fakeTMDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"status_message":"boom"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == "/search/movie" {
		query := r.URL.Query().Get("query")
		f.queries = append(f.queries, query)
		results := f.searches[query]
		if results == nil {
			results = []movie{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"page":          1,
			"results":       results,
			"total_pages":   1,
			"total_results": len(results),
		})
		return
	}
	id := filepath.Base(r.URL.Path)
	m, ok := f.movies[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message":"not found"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

type harness struct {
	cfg     *config.Config
	tmdb    *fakeTMDB
	input   string
	output  string
	journal *journal.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		tmdb: &fakeTMDB{
			searches: map[string][]movie{},
			movies:   map[string]movie{},
		},
		input:  filepath.Join(root, "in"),
		output: filepath.Join(root, "out"),
	}
	if err := os.MkdirAll(h.input, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.TMDB.APIToken = "token"
	cfg.Organize.OutputDir = h.output
	cfg.Journal.Path = filepath.Join(root, "journal.db")
	h.cfg = &cfg

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	h.journal = store
	return h
}

func (h *harness) addFolder(t *testing.T, name string, files ...string) string {
	t.Helper()
	dir := filepath.Join(h.input, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(file), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func (h *harness) runner(t *testing.T, chooser identification.Chooser, prompter identification.IDPrompter) *workflow.Runner {
	t.Helper()
	server := httptest.NewServer(h.tmdb)
	t.Cleanup(server.Close)

	client, err := tmdb.New(h.cfg.TMDB.APIToken, server.URL, h.cfg.TMDB.Language,
		tmdb.WithHTTPClient(server.Client()),
		tmdb.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	if err != nil {
		t.Fatalf("tmdb.New: %v", err)
	}
	resolver := identification.NewResolver(client, chooser, prompter, nil)
	org := organizer.New(h.cfg, workflow.NewJournalRecorder(h.journal), nil)
	return workflow.NewRunner(h.cfg, parser.New(parser.DefaultPatterns(), nil), resolver, org, nil)
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunMatchesSingleCandidate(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "The Matrix (1999)", "movie.mkv")
	h.tmdb.searches["The Matrix"] = []movie{{ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-30"}}

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 1 || summary.Matched != 1 || summary.RunID == "" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := listNames(t, h.output); len(got) != 1 || got[0] != "The Matrix (1999) [tmdbid-603]" {
		t.Fatalf("unexpected output %v", got)
	}
	if got := listNames(t, filepath.Join(h.output, "The Matrix (1999) [tmdbid-603]")); len(got) != 1 || got[0] != "The Matrix (1999) [tmdbid-603].mkv" {
		t.Fatalf("unexpected files %v", got)
	}

	entries, err := h.journal.Run(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("journal Run: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "mkdir" || entries[1].Action != "copy" {
		t.Fatalf("unexpected journal entries %+v", entries)
	}
	if entries[1].Folder != "The Matrix (1999)" {
		t.Fatalf("expected folder on journal entry, got %q", entries[1].Folder)
	}
}

func TestRunWithoutResultsUsesFolderName(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "amelie (2001)", "amelie.mkv")

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Unmatched != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := listNames(t, h.output); len(got) != 1 || got[0] != "Amelie (2001)" {
		t.Fatalf("unexpected output %v", got)
	}
	if len(h.tmdb.queries) != 2 {
		t.Fatalf("expected filtered and unfiltered searches, got %v", h.tmdb.queries)
	}
}

func TestRunAmbiguousCandidatesAskChooser(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Solaris (1972)", "solaris.mkv")
	h.tmdb.searches["Solaris"] = []movie{
		{ID: 593, Title: "Solaris", OriginalTitle: "Solyaris", ReleaseDate: "1972-03-20"},
		{ID: 2103, Title: "Solaris", OriginalTitle: "Solaris", ReleaseDate: "2002-11-27"},
	}
	chooser := prompt.NewScripted([]int{2}, nil)

	summary, err := h.runner(t, chooser, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Unmatched != 1 {
		t.Fatalf("expected none of the above, got %+v", summary)
	}
	if got := listNames(t, h.output); len(got) != 1 || got[0] != "Solaris (1972)" {
		t.Fatalf("unexpected output %v", got)
	}

	// A second run with a scripted choice picks the record.
	h2 := newHarness(t)
	h2.addFolder(t, "Solaris (1972)", "solaris.mkv")
	h2.tmdb.searches = h.tmdb.searches
	if _, err := h2.runner(t, prompt.NewScripted([]int{0}, nil), prompt.Decline{}).Run(context.Background(), h2.input); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := listNames(t, h2.output); len(got) != 1 || got[0] != "Solyaris (1972) [tmdbid-593]" {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestRunUsesManualID(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Amelie (2001)", "film.mkv")
	h.tmdb.movies["194"] = movie{ID: 194, Title: "Amelie", OriginalTitle: "Le Fabuleux Destin d'Am\u00e9lie Poulain", ReleaseDate: "2001-04-25"}

	summary, err := h.runner(t, prompt.Decline{}, prompt.NewScripted(nil, []int64{194})).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Matched != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	want := "Le Fabuleux Destin D Am\u00e9lie Poulain (2001) [tmdbid-194]"
	if got := listNames(t, h.output); len(got) != 1 || got[0] != want {
		t.Fatalf("unexpected output %v, want %q", got, want)
	}
}

func TestRunUnknownManualIDLeavesFolderUnmatched(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Amelie (2001)", "film.mkv")
	h.addFolder(t, "Zzz Later (2005)", "later.mkv")

	summary, err := h.runner(t, prompt.Decline{}, prompt.NewScripted(nil, []int64{999999, 0})).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Processed != 2 || summary.Unmatched != 2 || summary.Failed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	got := listNames(t, h.output)
	if len(got) != 2 || got[0] != "Amelie (2001)" || got[1] != "Zzz Later (2005)" {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestRunSkipsUnparseableFolders(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Random Stuff", "x.mkv")
	h.addFolder(t, "The Matrix (1999)", "movie.mkv")
	h.tmdb.searches["The Matrix"] = []movie{{ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-30"}}
	if err := os.WriteFile(filepath.Join(h.input, "loose.mkv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Matched != 1 || summary.Total() != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunAbortsOnUpstreamError(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Alien (1979)", "alien.mkv")
	h.addFolder(t, "Brazil (1985)", "brazil.mkv")
	h.tmdb.status = http.StatusInternalServerError

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	var status *tmdb.StatusError
	if !errors.As(err, &status) || status.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
	if summary.Failed != 1 || summary.Total() != 1 {
		t.Fatalf("expected the run to stop after the first folder, got %+v", summary)
	}
	if got := listNames(t, filepath.Join(h.input, "Brazil (1985)")); len(got) != 1 {
		t.Fatalf("second folder should be untouched, got %v", got)
	}
}

func TestRunContinuesOnErrorWhenConfigured(t *testing.T) {
	h := newHarness(t)
	h.cfg.Workflow.ContinueOnError = true
	h.addFolder(t, "Alien (1979)", "alien.mkv")
	h.addFolder(t, "Brazil (1985)", "brazil.mkv")
	h.tmdb.status = http.StatusInternalServerError

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Failed != 2 || summary.Processed != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunAbortsOnDestinationConflict(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Amelie (2001)", "amelie.mkv")
	existing := filepath.Join(h.output, "Amelie (2001)", "Amelie (2001).mkv")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if !errors.Is(err, services.ErrConflict) || !organizer.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	data, readErr := os.ReadFile(existing)
	if readErr != nil || string(data) != "keep" {
		t.Fatalf("existing file was modified: %q %v", data, readErr)
	}
}

func TestRunDryRunLeavesTreeUntouched(t *testing.T) {
	h := newHarness(t)
	h.cfg.Workflow.DryRun = true
	h.cfg.Organize.Move = true
	h.addFolder(t, "The Matrix (1999)", "movie.mkv")
	h.tmdb.searches["The Matrix"] = []movie{{ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-30"}}

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Matched != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if _, err := os.Stat(h.output); !os.IsNotExist(err) {
		t.Fatalf("dry run created the output directory: %v", err)
	}
	if got := listNames(t, filepath.Join(h.input, "The Matrix (1999)")); len(got) != 1 || got[0] != "movie.mkv" {
		t.Fatalf("dry run changed the source: %v", got)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), filepath.Join(h.input, "missing"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	h := newHarness(t)
	h.addFolder(t, "Alien (1979)", "alien.mkv")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(ctx, h.input)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if got := listNames(t, filepath.Join(h.input, "Alien (1979)")); len(got) != 1 {
		t.Fatalf("cancelled run touched the folder: %v", got)
	}
}

func TestRunSkipsOutputInsideInput(t *testing.T) {
	h := newHarness(t)
	h.cfg.Organize.OutputDir = filepath.Join(h.input, "Library (2000)")
	h.addFolder(t, "Library (2000)")
	h.addFolder(t, "amelie (2001)", "a.mkv")

	summary, err := h.runner(t, prompt.Decline{}, prompt.Decline{}).Run(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Total() != 1 || summary.Unmatched != 1 {
		t.Fatalf("expected only the movie folder to be processed, got %+v", summary)
	}
	if got := listNames(t, h.cfg.Organize.OutputDir); len(got) != 1 || got[0] != "Amelie (2001)" {
		t.Fatalf("unexpected output %v", got)
	}
}
