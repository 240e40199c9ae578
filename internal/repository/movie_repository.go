package repository

import (
	"context"
	"sort"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/store"
)

// MovieRepo reads and replaces the movies collection.  Only the catalog
// sync engine calls Replace.
type MovieRepo struct {
	s *store.Store
}

// NewMovieRepo constructs a MovieRepo over the store.
func NewMovieRepo(s *store.Store) *MovieRepo { return &MovieRepo{s: s} }

// All returns the current catalog snapshot in stored order.
func (r *MovieRepo) All(ctx context.Context) ([]model.Movie, error) {
	return store.Load[model.Movie](ctx, r.s, store.KeyMovies)
}

// Exists reports whether the movies collection has ever been written.
func (r *MovieRepo) Exists(ctx context.Context) (bool, error) {
	return r.s.Exists(ctx, store.KeyMovies)
}

// Replace swaps the whole catalog snapshot.
func (r *MovieRepo) Replace(ctx context.Context, movies []model.Movie) error {
	return r.s.Put(ctx, store.KeyMovies, movies)
}

// GetByID returns the movie with the given id or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (model.Movie, error) {
	movies, err := r.All(ctx)
	if err != nil {
		return model.Movie{}, err
	}
	for _, m := range movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, ErrMovieNotFound
}

// ListByCity returns the movies showing in city.  An empty city returns
// every movie.
func (r *MovieRepo) ListByCity(ctx context.Context, city string) ([]model.Movie, error) {
	movies, err := r.All(ctx)
	if err != nil || city == "" {
		return movies, err
	}
	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if m.ShowsIn(city) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Cities returns the sorted union of every movie's city list.
func (r *MovieRepo) Cities(ctx context.Context) ([]string, error) {
	movies, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range movies {
		for _, c := range m.Cities {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}
