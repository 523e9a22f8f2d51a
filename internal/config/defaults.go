package config

const (
	defaultConfigPath     = "~/.config/moviefmt/config.toml"
	projectConfigName     = "moviefmt.toml"
	defaultTMDBBaseURL    = "https://api.themoviedb.org/3"
	defaultTMDBLanguage   = "en-US"
	defaultBackoffSeconds = 10
	defaultTimeoutSeconds = 30
	defaultJournalPath    = "~/.local/share/moviefmt/journal.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// TokenEnvVar is consulted when no token is configured or passed on the command line.
	TokenEnvVar = "TMDB_API_TOKEN"
)

// defaultMovieExtensions follows the container list Jellyfin plays directly.
var defaultMovieExtensions = []string{"mkv", "mp4", "avi", "mov", "webm", "ts", "ogg"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			IncludeAdult:   true,
			BackoffSeconds: defaultBackoffSeconds,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Organize: Organize{
			Capitalize:      true,
			MovieExtensions: append([]string(nil), defaultMovieExtensions...),
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
