// Package catalog talks to the external movie catalog (TMDB) and maps its
// records into the internal Movie schema.  Every call passes through a
// rate limiter and fails fast: a transport or HTTP failure surfaces as
// ErrCatalogUnavailable without retry.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/ratelimit"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// PlaceholderAPIKey is the sample value shipped in example env files; it
	// counts as "not configured".
	PlaceholderAPIKey = "your_api_key_here"
)

// Config holds the catalog API settings.
type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// Client fetches movies from the catalog API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter ratelimit.Limiter
	cities  *CitySampler
	log     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithLimiter(l ratelimit.Limiter) Option { return func(c *Client) { c.limiter = l } }

// WithRand replaces the source used for city sampling.
func WithRand(r Rand) Option { return func(c *Client) { c.cities = NewCitySampler(r) } }

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient returns a Client.  Missing URLs fall back to the public TMDB
// endpoints.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.Unlimited{},
		cities:  NewCitySampler(globalRand{}),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Configured reports whether the client holds a usable API key.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.APIKey != PlaceholderAPIKey
}

// FetchNowPlaying returns the now-playing facet.  An empty result is not
// an error: the popular list is returned in its place.
func (c *Client) FetchNowPlaying(ctx context.Context, page int) ([]model.Movie, error) {
	movies, err := c.list(ctx, "/movie/now_playing", englishQuery(page))
	if errors.Is(err, ErrCatalogEmpty) {
		c.log.Warn("catalog: no now playing movies, using popular", "page", page)
		return c.FetchPopular(ctx, page)
	}
	return movies, err
}

// FetchPopular returns the popular facet.
func (c *Client) FetchPopular(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/popular", englishQuery(page))
}

// FetchTopRated returns the top-rated facet.
func (c *Client) FetchTopRated(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/top_rated", englishQuery(page))
}

// FetchRegional returns popular movies whose original language is lang.
func (c *Client) FetchRegional(ctx context.Context, lang string, page int) ([]model.Movie, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))
	q.Set("with_original_language", lang)
	q.Set("sort_by", "popularity.desc")
	q.Set("vote_count.gte", "10")
	return c.list(ctx, "/discover/movie", q)
}

// FetchByID returns a single movie with its genres.
func (c *Client) FetchByID(ctx context.Context, id int64) (model.Movie, error) {
	q := url.Values{}
	q.Set("language", "en-US")
	var raw tmdbMovie
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), q, &raw); err != nil {
		return model.Movie{}, err
	}
	if raw.ID == 0 {
		return model.Movie{}, ErrCatalogEmpty
	}
	return c.mapMovie(raw), nil
}

// Search looks movies up by title.  No match yields an empty slice.
func (c *Client) Search(ctx context.Context, query string, page int) ([]model.Movie, error) {
	q := englishQuery(page)
	q.Set("query", query)
	movies, err := c.list(ctx, "/search/movie", q)
	if errors.Is(err, ErrCatalogEmpty) {
		return []model.Movie{}, nil
	}
	return movies, err
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]model.Movie, error) {
	var p tmdbPage
	if err := c.get(ctx, path, q, &p); err != nil {
		return nil, err
	}
	if len(p.Results) == 0 {
		return nil, ErrCatalogEmpty
	}
	out := make([]model.Movie, 0, len(p.Results))
	for _, r := range p.Results {
		out = append(out, c.mapMovie(r))
	}
	return out, nil
}

type tmdbError struct {
	StatusMessage string `json:"status_message"`
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrCatalogUnavailable, err)
	}
	q.Set("api_key", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full URL including the key; keep only the cause.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return fmt.Errorf("%w: %s: %v", ErrCatalogUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrCatalogUnavailable, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e tmdbError
		_ = json.Unmarshal(body, &e)
		return &StatusError{Code: resp.StatusCode, Message: e.StatusMessage}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrCatalogUnavailable, path, err)
	}
	return nil
}

func englishQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageOrFirst(page)))
	q.Set("language", "en-US")
	return q
}

func pageOrFirst(p int) int {
	if p < 1 {
		return 1
	}
	return p
}

// globalRand uses the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
