// Package catalogsync keeps the local movie and cinema collections in step
// with the external catalog.  EnsureFresh bootstraps empty collections,
// repairs the cinema list, refreshes the catalog at most once per refresh
// interval, falls back to a built-in seed catalog, and leaves every cinema
// pointing at exactly the current set of movie identifiers.
package catalogsync

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/store"
)

// Catalog is the part of the catalog client the engine depends on.
type Catalog interface {
	Configured() bool
	FetchNowPlaying(ctx context.Context, page int) ([]model.Movie, error)
	FetchTopRated(ctx context.Context, page int) ([]model.Movie, error)
	FetchRegional(ctx context.Context, lang string, page int) ([]model.Movie, error)
	FetchByID(ctx context.Context, id int64) (model.Movie, error)
}

// Config tunes the refresh policy and the merge.
type Config struct {
	RefreshInterval time.Duration
	RegionLanguage  string
	NowPlayingLimit int
	TopRatedLimit   int
	RegionalLimit   int
}

// DefaultConfig refreshes daily and mixes 6 now-playing, 4 top-rated and 6
// Hindi titles.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 24 * time.Hour,
		RegionLanguage:  "hi",
		NowPlayingLimit: 6,
		TopRatedLimit:   4,
		RegionalLimit:   6,
	}
}

// Report summarises one EnsureFresh run.
type Report struct {
	Bootstrapped    bool      `json:"bootstrapped"`
	CinemasRebuilt  bool      `json:"cinemasRebuilt"`
	CinemasRepaired bool      `json:"cinemasRepaired"`
	RefreshDue      bool      `json:"refreshDue"`
	Refreshed       bool      `json:"refreshed"`
	Seeded          bool      `json:"seeded"`
	Movies          int       `json:"movies"`
	LastRefresh     time.Time `json:"lastRefresh,omitzero"`
	CatalogError    string    `json:"catalogError,omitempty"`
}

// Changed reports whether the run rewrote the movies or cinemas, meaning
// cached responses are out of date.
func (r Report) Changed() bool {
	return r.Refreshed || r.Seeded || r.CinemasRebuilt || r.CinemasRepaired
}

// Engine is the only writer of the movies and cinemas collections.
type Engine struct {
	movies   *repository.MovieRepo
	cinemas  *repository.CinemaRepo
	users    *repository.UserRepo
	bookings *repository.BookingRepo
	meta     *repository.MetaRepo
	client   Catalog
	cfg      Config
	now      func() time.Time
	log      *slog.Logger

	mu sync.Mutex
	sf singleflight.Group
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine builds an engine over s.  client may be nil, which keeps the
// engine in seed-only mode.
func NewEngine(s *store.Store, client Catalog, cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.RegionLanguage == "" {
		cfg.RegionLanguage = def.RegionLanguage
	}
	if cfg.NowPlayingLimit <= 0 {
		cfg.NowPlayingLimit = def.NowPlayingLimit
	}
	if cfg.TopRatedLimit <= 0 {
		cfg.TopRatedLimit = def.TopRatedLimit
	}
	if cfg.RegionalLimit <= 0 {
		cfg.RegionalLimit = def.RegionalLimit
	}
	e := &Engine{
		movies:   repository.NewMovieRepo(s),
		cinemas:  repository.NewCinemaRepo(s),
		users:    repository.NewUserRepo(s),
		bookings: repository.NewBookingRepo(s),
		meta:     repository.NewMetaRepo(s),
		client:   client,
		cfg:      cfg,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) configured() bool { return e.client != nil && e.client.Configured() }

// refreshTimeout bounds one EnsureFresh run.
const refreshTimeout = 2 * time.Minute

// EnsureFresh brings the local catalog up to date.  Concurrent callers
// share a single run.  Catalog failures are recovered (stale or seed data
// is kept) and reported in Report.CatalogError; only store failures are
// returned as errors.
//
// Cancelling ctx does not stop a run once started: it completes or fails
// within refreshTimeout.
func (e *Engine) EnsureFresh(ctx context.Context) (Report, error) {
	v, err, _ := e.sf.Do("ensure-fresh", func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.ensureFresh(runCtx)
	})
	rep, _ := v.(Report)
	return rep, err
}

func (e *Engine) ensureFresh(ctx context.Context) (Report, error) {
	var rep Report

	boot, err := e.bootstrapLedgers(ctx)
	if err != nil {
		return rep, err
	}
	rep.Bootstrapped = boot

	movies, err := e.movies.All(ctx)
	if err != nil {
		return rep, err
	}
	cinemas, err := e.cinemas.ListAll(ctx)
	if err != nil {
		return rep, err
	}
	canonical := CanonicalCinemas()
	if len(cinemas) != len(canonical) {
		cinemas = pointCinemasAt(canonical, model.MovieIDs(movies))
		if err := e.cinemas.Replace(ctx, cinemas); err != nil {
			return rep, err
		}
		rep.CinemasRebuilt = true
		e.log.Info("catalogsync: rebuilt cinema list", "cinemas", len(cinemas))
	}

	last, hasLast, err := e.meta.LastRefresh(ctx)
	if err != nil {
		return rep, err
	}
	rep.LastRefresh = last
	rep.RefreshDue = len(movies) == 0 ||
		!hasLast ||
		e.now().Sub(last) > e.cfg.RefreshInterval ||
		(looksSeeded(movies) && e.configured())

	if rep.RefreshDue {
		if !e.configured() {
			rep.CatalogError = catalog.ErrNotConfigured.Error()
		} else {
			merged, ferr := e.fetchMerged(ctx)
			if ferr != nil {
				rep.CatalogError = ferr.Error()
				e.log.Warn("catalogsync: refresh failed, keeping current catalog", "err", ferr, "movies", len(movies))
			} else {
				if err := e.movies.Replace(ctx, merged); err != nil {
					return rep, err
				}
				movies = merged
				repaired, err := e.repairCinemas(ctx, cinemas, movies)
				if err != nil {
					return rep, err
				}
				rep.CinemasRepaired = repaired
				at := e.now()
				if err := e.meta.SetLastRefresh(ctx, at); err != nil {
					return rep, err
				}
				rep.Refreshed = true
				rep.LastRefresh = at
				e.log.Info("catalogsync: catalog refreshed", "movies", len(movies))
			}
		}
	}

	if !rep.Refreshed && len(movies) == 0 {
		movies = SeedMovies()
		if err := e.movies.Replace(ctx, movies); err != nil {
			return rep, err
		}
		rep.Seeded = true
		e.log.Info("catalogsync: stored seed catalog", "movies", len(movies))
	}

	if !rep.Refreshed {
		repaired, err := e.repairCinemas(ctx, cinemas, movies)
		if err != nil {
			return rep, err
		}
		rep.CinemasRepaired = repaired
	}
	rep.Movies = len(movies)
	return rep, nil
}

func (e *Engine) bootstrapLedgers(ctx context.Context) (bool, error) {
	created := false
	ok, err := e.users.Exists(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		if err := e.users.Replace(ctx, []model.User{}); err != nil {
			return false, err
		}
		created = true
	}
	ok, err = e.bookings.Exists(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		if err := e.bookings.Replace(ctx, []model.Booking{}); err != nil {
			return false, err
		}
		created = true
	}
	return created, nil
}

// repairCinemas rewrites the cinema list when any cinema's movie ids differ
// from the catalog's id set.  Nothing is written when they already match.
func (e *Engine) repairCinemas(ctx context.Context, cinemas []model.Cinema, movies []model.Movie) (bool, error) {
	ids := model.MovieIDs(movies)
	stale := false
	for _, c := range cinemas {
		if !slices.Equal(c.MovieIDs, ids) {
			stale = true
			break
		}
	}
	if !stale {
		return false, nil
	}
	if err := e.cinemas.Replace(ctx, pointCinemasAt(cinemas, ids)); err != nil {
		return false, err
	}
	return true, nil
}

type facet struct {
	name   string
	limit  int
	movies []model.Movie
	err    error
}

// fetchMerged queries the three facets concurrently and merges them in
// now-playing, top-rated, regional order.  A failing facet contributes
// nothing; the refresh fails only when the merge is empty.
func (e *Engine) fetchMerged(ctx context.Context) ([]model.Movie, error) {
	facets := []*facet{
		{name: "now_playing", limit: e.cfg.NowPlayingLimit},
		{name: "top_rated", limit: e.cfg.TopRatedLimit},
		{name: "regional", limit: e.cfg.RegionalLimit},
	}
	fetch := []func() ([]model.Movie, error){
		func() ([]model.Movie, error) { return e.client.FetchNowPlaying(ctx, 1) },
		func() ([]model.Movie, error) { return e.client.FetchTopRated(ctx, 1) },
		func() ([]model.Movie, error) { return e.client.FetchRegional(ctx, e.cfg.RegionLanguage, 1) },
	}

	var g errgroup.Group
	for i := range facets {
		f, call := facets[i], fetch[i]
		g.Go(func() error {
			f.movies, f.err = call()
			return nil
		})
	}
	_ = g.Wait()

	lists := make([][]model.Movie, 0, len(facets))
	var firstErr error
	for _, f := range facets {
		if f.err != nil && !errors.Is(f.err, catalog.ErrCatalogEmpty) {
			e.log.Warn("catalogsync: facet failed", "facet", f.name, "err", f.err)
			if firstErr == nil {
				firstErr = f.err
			}
		}
		lists = append(lists, head(f.movies, f.limit))
	}
	merged := Merge(lists...)
	if len(merged) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, catalog.ErrCatalogEmpty
	}
	return merged, nil
}

// Merge concatenates lists and drops repeated movie ids, keeping the first
// occurrence.
func Merge(lists ...[]model.Movie) []model.Movie {
	seen := make(map[int64]struct{})
	out := []model.Movie{}
	for _, l := range lists {
		for _, m := range l {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func head(movies []model.Movie, n int) []model.Movie {
	if len(movies) > n {
		return movies[:n]
	}
	return movies
}

func looksSeeded(movies []model.Movie) bool {
	for _, m := range movies {
		if m.ID < seedIDCeiling {
			return true
		}
	}
	return false
}

// pointCinemasAt copies cinemas with every movie id list set to ids.
func pointCinemasAt(cinemas []model.Cinema, ids []int64) []model.Cinema {
	out := make([]model.Cinema, len(cinemas))
	for i, c := range cinemas {
		c.MovieIDs = slices.Clone(ids)
		if c.MovieIDs == nil {
			c.MovieIDs = []int64{}
		}
		out[i] = c
	}
	return out
}

// Movie returns the stored movie with id.  When it is not in the local
// catalog and the client is configured, the external catalog is asked
// directly; the result is returned but not stored.
func (e *Engine) Movie(ctx context.Context, id int64) (model.Movie, error) {
	m, err := e.movies.GetByID(ctx, id)
	if !errors.Is(err, repository.ErrMovieNotFound) || !e.configured() {
		return m, err
	}
	m, ferr := e.client.FetchByID(ctx, id)
	if ferr != nil {
		e.log.Debug("catalogsync: lookup by id failed", "id", id, "err", ferr)
		return model.Movie{}, repository.ErrMovieNotFound
	}
	return m, nil
}
