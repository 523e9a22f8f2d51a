package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIToken       string `toml:"api_token"`
	BaseURL        string `toml:"base_url"`
	Language       string `toml:"language"`
	IncludeAdult   bool   `toml:"include_adult"`
	BackoffSeconds int    `toml:"backoff_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Organize controls how matched folders are written to the output tree.
type Organize struct {
	OutputDir          string   `toml:"output_dir"`
	Move               bool     `toml:"move"`
	DeleteUnrecognized bool     `toml:"delete_unrecognized"`
	Capitalize         bool     `toml:"capitalize"`
	MovieExtensions    []string `toml:"movie_extensions"`
}

// Parser holds optional overrides for the folder and file name patterns.
type Parser struct {
	FolderPattern string `toml:"folder_pattern"`
	FilePattern   string `toml:"file_pattern"`
}

// Workflow contains run-level behaviour switches.
type Workflow struct {
	ContinueOnError bool `toml:"continue_on_error"`
	NonInteractive  bool `toml:"non_interactive"`
	DryRun          bool `toml:"dry_run"`
}

// Journal configures the SQLite audit log of filesystem actions.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for moviefmt.
type Config struct {
	TMDB     TMDB     `toml:"tmdb"`
	Organize Organize `toml:"organize"`
	Parser   Parser   `toml:"parser"`
	Workflow Workflow `toml:"workflow"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates and parses a configuration file and normalizes the result.
// Validation is left to the caller so command-line overrides can be applied
// first. The returned bool reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
