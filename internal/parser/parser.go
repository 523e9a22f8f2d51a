package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviefmt/internal/logging"
	"moviefmt/internal/services"
)

// File is a direct child entry of a movie folder.
type File struct {
	Path string
	// Label distinguishes alternate cuts ("Extended Edition"); empty when absent.
	Label string
	// Extension is lowercase and empty when the name did not match the file pattern.
	Extension string
	IsDir     bool
}

// Recognized reports whether the entry matched the file pattern.
func (f File) Recognized() bool {
	return f.Extension != ""
}

// Folder is the parsed form of one input movie folder.
type Folder struct {
	Path  string
	Title string
	Year  string
	// TMDBID is the external id hint embedded in the folder name, 0 when absent.
	TMDBID int64
	Files  map[string]File
}

// Name returns the folder's base name.
func (f *Folder) Name() string {
	return filepath.Base(f.Path)
}

// Parser turns folder paths into Folder values.
type Parser struct {
	patterns Patterns
	logger   *slog.Logger
}

// New constructs a parser. Zero-value patterns fall back to DefaultPatterns.
func New(patterns Patterns, logger *slog.Logger) *Parser {
	if !patterns.valid() {
		patterns = DefaultPatterns()
	}
	return &Parser{
		patterns: patterns,
		logger:   logging.NewComponentLogger(logger, "parser"),
	}
}

// ParseName extracts title, year, and tmdbid from a folder base name.
func (p *Parser) ParseName(name string) (title, year string, tmdbID int64, err error) {
	groups, ok := namedGroups(p.patterns.folder, name)
	if !ok || strings.TrimSpace(groups["title"]) == "" || groups["year"] == "" {
		return "", "", 0, services.Wrap(
			services.ErrParse,
			"parser",
			"parse folder name",
			fmt.Sprintf("%q does not look like \"Title (Year)\"", name),
			nil,
		)
	}
	if raw := groups["tmdbid"]; raw != "" {
		tmdbID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", "", 0, services.Wrap(services.ErrParse, "parser", "parse tmdbid", raw, err)
		}
	}
	return groups["title"], groups["year"], tmdbID, nil
}

// ParseFile extracts the label and extension from a file name. Names that do
// not match yield empty label and extension.
func (p *Parser) ParseFile(name string) (label, extension string) {
	groups, ok := namedGroups(p.patterns.file, name)
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(groups["label"]), strings.ToLower(groups["extension"])
}

// ParseFolder parses the folder at path and every direct child entry. It
// fails as a whole when the folder name cannot be parsed.
func (p *Parser) ParseFolder(path string) (*Folder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve folder path: %w", err)
	}
	name := filepath.Base(abs)
	title, year, tmdbID, err := p.ParseName(name)
	if err != nil {
		logging.ErrorWithContext(p.logger, "could not parse folder name, skipping", "folder_parse_failed",
			logging.String("path", abs),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, `rename the folder to "Title (Year)"`),
		)
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "parser", "read folder", abs, err)
	}

	folder := &Folder{
		Path:   abs,
		Title:  title,
		Year:   year,
		TMDBID: tmdbID,
		Files:  make(map[string]File, len(entries)),
	}
	for _, entry := range entries {
		label, ext := p.ParseFile(entry.Name())
		folder.Files[entry.Name()] = File{
			Path:      filepath.Join(abs, entry.Name()),
			Label:     label,
			Extension: ext,
			IsDir:     entry.IsDir(),
		}
	}
	if len(entries) == 0 {
		logging.WarnWithContext(p.logger, "folder is empty", "folder_empty",
			logging.String("path", abs),
			logging.String(logging.FieldErrorHint, "check that the media files were copied"),
			logging.String(logging.FieldImpact, "folder will be renamed without files"),
		)
	}

	p.logger.Debug("parsed folder",
		logging.String("path", abs),
		logging.String("title", title),
		logging.String("year", year),
		logging.Int64("tmdbid", tmdbID),
		logging.Int("files", len(folder.Files)),
	)
	return folder, nil
}
