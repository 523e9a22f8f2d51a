package organizer_test

import (
	"testing"

	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/organizer"
	"moviefmt/internal/parser"
)

func TestRenderNameFromRecord(t *testing.T) {
	folder := &parser.Folder{Title: "leon", Year: "1995"}
	record := &tmdb.Record{ID: 101, Title: "Leon: The Professional", OriginalTitle: "L\u00c9ON", ReleaseDate: "1994-09-14"}

	name := organizer.RenderName(folder, record, true)
	if name.Title != "L\u00e9on" || name.Year != "1994" || name.TMDBID != 101 {
		t.Fatalf("unexpected name %+v", name)
	}
	if got := name.FolderName(); got != "L\u00e9on (1994) [tmdbid-101]" {
		t.Fatalf("unexpected folder name %q", got)
	}
}

func TestRenderNameWithoutRecord(t *testing.T) {
	folder := &parser.Folder{Title: "amelie", Year: "2001"}
	if got := organizer.RenderName(folder, nil, true).FolderName(); got != "Amelie (2001)" {
		t.Fatalf("unexpected folder name %q", got)
	}
	if got := organizer.RenderName(folder, nil, false).FolderName(); got != "amelie (2001)" {
		t.Fatalf("expected case preserved without capitalization, got %q", got)
	}
}

func TestRenderNameFallsBackToFolderYear(t *testing.T) {
	folder := &parser.Folder{Title: "Lost Film", Year: "1931"}
	record := &tmdb.Record{ID: 7, Title: "Lost Film", OriginalTitle: "Lost Film"}
	if got := organizer.RenderName(folder, record, true).FolderName(); got != "Lost Film (1931) [tmdbid-7]" {
		t.Fatalf("unexpected folder name %q", got)
	}
}

func TestCanonicalNamesRoundTrip(t *testing.T) {
	p := parser.New(parser.DefaultPatterns(), nil)
	for _, canonical := range []string{
		"The Matrix (1999)",
		"2001 A Space Odyssey (1968)",
		"Am\u00e9lie (2001)",
		"The Matrix (1999) [tmdbid-603]",
		"千と千尋の神隠し (2001) [tmdbid-129]",
	} {
		title, year, id, err := p.ParseName(canonical)
		if err != nil {
			t.Fatalf("ParseName(%q): %v", canonical, err)
		}
		folder := &parser.Folder{Title: title, Year: year, TMDBID: id}
		var record *tmdb.Record
		if id > 0 {
			record = &tmdb.Record{ID: id, Title: title, OriginalTitle: title, ReleaseDate: year + "-01-01"}
		}
		if got := organizer.RenderName(folder, record, false).FolderName(); got != canonical {
			t.Fatalf("round trip of %q produced %q", canonical, got)
		}
	}
}

func TestFileName(t *testing.T) {
	exts := organizer.NewExtensions([]string{"mkv", ".MP4"})
	name := organizer.Name{Title: "The Matrix", Year: "1999", TMDBID: 603}
	tests := []struct {
		file parser.File
		want string
	}{
		{parser.File{Path: "/in/movie.mkv", Extension: "mkv"}, "The Matrix (1999) [tmdbid-603].mkv"},
		{parser.File{Path: "/in/movie - Extended.mp4", Label: "Extended", Extension: "mp4"}, "The Matrix (1999) [tmdbid-603] - Extended.mp4"},
		{parser.File{Path: "/in/poster.jpg", Extension: "jpg"}, "poster.jpg"},
		{parser.File{Path: "/in/Extras", IsDir: true}, "Extras"},
	}
	for _, tt := range tests {
		if got := name.FileName(tt.file, exts); got != tt.want {
			t.Fatalf("FileName(%s) = %q, want %q", tt.file.Path, got, tt.want)
		}
	}
}

func TestExtensionsMovie(t *testing.T) {
	exts := organizer.NewExtensions([]string{"mkv"})
	tests := []struct {
		name string
		file parser.File
		want bool
	}{
		{"container", parser.File{Path: "/in/movie.mkv", Extension: "mkv"}, true},
		{"other extension", parser.File{Path: "/in/poster.jpg", Extension: "jpg"}, false},
		{"unmatched name", parser.File{Path: "/in/notes"}, false},
		{"directory", parser.File{Path: "/in/Extras", IsDir: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exts.Movie(tt.file); got != tt.want {
				t.Fatalf("Movie(%s) = %v, want %v", tt.file.Path, got, tt.want)
			}
		})
	}
}
