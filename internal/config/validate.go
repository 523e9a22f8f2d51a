package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("tmdb.api_token is required. Pass --api-token, set %s, or edit %s (create with 'moviefmt config init')", TokenEnvVar, defaultPath)
	}
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("tmdb.base_url must be an http(s) URL, got %q", c.TMDB.BaseURL)
	}
	if c.TMDB.BackoffSeconds <= 0 {
		return errors.New("tmdb.backoff_seconds must be positive")
	}
	if c.TMDB.MaxAttempts < 0 {
		return errors.New("tmdb.max_attempts must be >= 0 (0 retries forever)")
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if len(c.Organize.MovieExtensions) == 0 {
		return errors.New("organize.movie_extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateParser() error {
	for key, expr := range map[string]string{
		"parser.folder_pattern": c.Parser.FolderPattern,
		"parser.file_pattern":   c.Parser.FilePattern,
	} {
		if expr == "" {
			continue
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New("journal.path must be set when journal.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
