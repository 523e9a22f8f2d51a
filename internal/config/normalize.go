package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTMDB()
	if err := c.normalizeOrganize(); err != nil {
		return err
	}
	c.Parser.FolderPattern = strings.TrimSpace(c.Parser.FolderPattern)
	c.Parser.FilePattern = strings.TrimSpace(c.Parser.FilePattern)
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIToken = strings.TrimSpace(c.TMDB.APIToken)
	if c.TMDB.APIToken == "" {
		if value, ok := os.LookupEnv(TokenEnvVar); ok {
			c.TMDB.APIToken = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeOrganize() error {
	var err error
	if c.Organize.OutputDir, err = expandPath(strings.TrimSpace(c.Organize.OutputDir)); err != nil {
		return fmt.Errorf("organize.output_dir: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Organize.MovieExtensions))
	extensions := make([]string, 0, len(c.Organize.MovieExtensions))
	for _, ext := range c.Organize.MovieExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		extensions = append(extensions, ext)
	}
	c.Organize.MovieExtensions = extensions
	return nil
}

func (c *Config) normalizeJournal() error {
	path := strings.TrimSpace(c.Journal.Path)
	if path == "" {
		path = defaultJournalPath
	}
	var err error
	if c.Journal.Path, err = expandPath(path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
