package organizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"moviefmt/internal/identification/tmdb"
	"moviefmt/internal/parser"
	"moviefmt/internal/textutil"
)

// Name is the canonical identity used for output folder and file names.
type Name struct {
	Title string
	Year  string
	// TMDBID is 0 when the folder was not matched.
	TMDBID int64
}

// RenderName derives the canonical name from the matched record, or from the
// folder itself when record is nil.
func RenderName(folder *parser.Folder, record *tmdb.Record, capitalize bool) Name {
	if record == nil {
		return Name{
			Title: textutil.FormatTitle(folder.Title, capitalize),
			Year:  folder.Year,
		}
	}
	title := textutil.FormatTitle(record.OriginalTitle, capitalize)
	if title == "" {
		title = textutil.FormatTitle(record.Title, capitalize)
	}
	if title == "" {
		title = textutil.FormatTitle(folder.Title, capitalize)
	}
	year := record.Year()
	if year == "" {
		year = folder.Year
	}
	return Name{Title: title, Year: year, TMDBID: record.ID}
}

// FolderName returns "Title (Year)" with a " [tmdbid-N]" suffix when matched.
func (n Name) FolderName() string {
	base := fmt.Sprintf("%s (%s)", n.Title, n.Year)
	if n.TMDBID > 0 {
		return fmt.Sprintf("%s [tmdbid-%d]", base, n.TMDBID)
	}
	return base
}

// FileName returns the canonical name for a movie file, or the entry's
// current name when its extension is not a movie container.
func (n Name) FileName(file parser.File, extensions Extensions) string {
	if !extensions.Movie(file) {
		return filepath.Base(file.Path)
	}
	if file.Label != "" {
		return fmt.Sprintf("%s - %s.%s", n.FolderName(), file.Label, file.Extension)
	}
	return fmt.Sprintf("%s.%s", n.FolderName(), file.Extension)
}

// Extensions is the set of recognized movie container extensions.
type Extensions map[string]struct{}

// NewExtensions builds a set from extensions, ignoring case and leading dots.
func NewExtensions(list []string) Extensions {
	set := make(Extensions, len(list))
	for _, ext := range list {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// Contains reports whether ext is a movie container. Empty never matches.
func (e Extensions) Contains(ext string) bool {
	if ext == "" {
		return false
	}
	_, ok := e[strings.ToLower(ext)]
	return ok
}

// Movie reports whether file matched the file pattern with a movie container
// extension.
func (e Extensions) Movie(file parser.File) bool {
	return file.Recognized() && e.Contains(file.Extension)
}
