package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviefmt/internal/logging"
	"moviefmt/internal/services"
	"moviefmt/internal/textutil"
)

// DefaultBackoffDelay is the fixed wait after an HTTP 429 response.
const DefaultBackoffDelay = 10 * time.Second

// Searcher defines the TMDB operations used by identification.
type Searcher interface {
	FetchByID(ctx context.Context, id int64) ([]Record, error)
	SearchByTitleYear(ctx context.Context, title, year string) ([]Record, error)
}

// Backoff controls how rate-limited requests are retried. A MaxAttempts of
// zero retries forever.
type Backoff struct {
	Delay       time.Duration
	MaxAttempts int
}

// StatusError reports a non-200, non-429 response from TMDB.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "tmdb status error"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("tmdb returned HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("tmdb returned HTTP %d for %s: %s", e.StatusCode, e.URL, body)
}

// Client provides access to the TMDB API.
type Client struct {
	token        string
	baseURL      string
	language     string
	includeAdult bool
	backoff      Backoff
	httpClient   *http.Client
	sleep        func(context.Context, time.Duration) error
	logger       *slog.Logger
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBackoff overrides the rate-limit retry policy. A non-positive delay keeps
// the default.
func WithBackoff(b Backoff) Option {
	return func(c *Client) {
		if b.Delay > 0 {
			c.backoff.Delay = b.Delay
		}
		if b.MaxAttempts >= 0 {
			c.backoff.MaxAttempts = b.MaxAttempts
		}
	}
}

// WithIncludeAdult toggles the include_adult search parameter.
func WithIncludeAdult(include bool) Option {
	return func(c *Client) {
		c.includeAdult = include
	}
}

// WithSleep replaces the backoff wait, mainly so tests do not block.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithLogger attaches a logger for retry and pagination diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tmdb")
	}
}

// New creates a TMDB client.
func New(token, baseURL, language string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "api token required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "base url required", nil)
	}
	client := &Client{
		token:        token,
		baseURL:      strings.TrimRight(baseURL, "/"),
		language:     strings.TrimSpace(language),
		includeAdult: true,
		backoff:      Backoff{Delay: DefaultBackoffDelay},
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		sleep:        sleepContext,
		logger:       logging.NewComponentLogger(nil, "tmdb"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchByID returns the movie with the given TMDB id as a single-element list.
func (c *Client) FetchByID(ctx context.Context, id int64) ([]Record, error) {
	if id <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "fetch by id", "movie id must be positive", nil)
	}
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	var record Record
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), params, &record); err != nil {
		return nil, err
	}
	return []Record{record}, nil
}

// SearchPage fetches one page of movie search results. An empty year omits the
// primary release year filter.
func (c *Client) SearchPage(ctx context.Context, title, year string, page int) (*Response, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "search", "query must not be empty", nil)
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", strconv.FormatBool(c.includeAdult))
	params.Set("page", strconv.Itoa(page))
	if c.language != "" {
		params.Set("language", c.language)
	}
	if year = strings.TrimSpace(year); year != "" {
		params.Set("primary_release_year", year)
	}
	var payload Response
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchByTitleYear returns every result across all pages for title filtered
// by primary release year. When the filtered search reports no results the
// query is repeated without the year.
func (c *Client) SearchByTitleYear(ctx context.Context, title, year string) ([]Record, error) {
	title = textutil.NFC(strings.TrimSpace(title))
	year = strings.TrimSpace(year)

	first, err := c.SearchPage(ctx, title, year, 1)
	if err != nil {
		return nil, err
	}
	if first.TotalResults == 0 && year != "" {
		c.logger.Debug("no results with year filter; retrying without year",
			logging.String("title", title),
			logging.String("year", year),
		)
		year = ""
		first, err = c.SearchPage(ctx, title, year, 1)
		if err != nil {
			return nil, err
		}
	}
	if first.TotalResults == 0 {
		return nil, nil
	}

	records := append([]Record(nil), first.Results...)
	totalPages := first.TotalPages
	for page := 2; page <= totalPages; page++ {
		resp, err := c.SearchPage(ctx, title, year, page)
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Results...)
		totalPages = resp.TotalPages
	}
	c.logger.Debug("tmdb search complete",
		logging.String("title", title),
		logging.String("year", year),
		logging.Int("total_results", first.TotalResults),
		logging.Int("fetched", len(records)),
		logging.Int("pages", totalPages),
	)
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return services.Wrap(services.ErrUpstream, "tmdb", path, "build request", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		requestStart := time.Now()
		resp, err := c.httpClient.Do(req)
		latency := time.Since(requestStart)
		if err != nil {
			return services.Wrap(services.ErrUpstream, "tmdb", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return services.Wrap(services.ErrUpstream, "tmdb", path, "decode response", err)
			}
			return nil
		case http.StatusTooManyRequests:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if c.backoff.MaxAttempts > 0 && attempt >= c.backoff.MaxAttempts {
				return services.Wrap(services.ErrRateLimited, "tmdb", path, fmt.Sprintf("gave up after %d attempts", attempt), nil)
			}
			c.logger.Info("tmdb rate limited; waiting before retry",
				logging.Int("attempt", attempt),
				logging.Duration("delay", c.backoff.Delay),
			)
			if err := c.sleep(ctx, c.backoff.Delay); err != nil {
				return err
			}
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			statusErr := &StatusError{URL: c.baseURL + path, StatusCode: resp.StatusCode, Body: string(body)}
			return services.Wrap(services.ErrUpstream, "tmdb", path, fmt.Sprintf("latency=%v", latency), statusErr)
		}
	}
}

// Ping verifies the token against the configuration endpoint without
// spending a search request.
func (c *Client) Ping(ctx context.Context) error {
	var payload map[string]any
	return c.get(ctx, "/configuration", nil, &payload)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsStatus reports whether err carries a TMDB StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
