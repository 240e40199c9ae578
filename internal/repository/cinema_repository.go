package repository

import (
	"context"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/store"
)

// CinemaRepo encapsulates access to the cinemas collection.  The catalog
// sync engine is the only caller of Replace; everything else reads.
type CinemaRepo struct {
	s *store.Store
}

// NewCinemaRepo constructs a CinemaRepo with the provided store.
func NewCinemaRepo(s *store.Store) *CinemaRepo { return &CinemaRepo{s: s} }

// ListAll returns every cinema in stored order.
func (r *CinemaRepo) ListAll(ctx context.Context) ([]model.Cinema, error) {
	return store.Load[model.Cinema](ctx, r.s, store.KeyCinemas)
}

// Replace swaps the whole cinemas collection.
func (r *CinemaRepo) Replace(ctx context.Context, cinemas []model.Cinema) error {
	return r.s.Put(ctx, store.KeyCinemas, cinemas)
}

// GetByID fetches a cinema by its ID.  It returns ErrCinemaNotFound if no
// cinema matches.
func (r *CinemaRepo) GetByID(ctx context.Context, id int64) (model.Cinema, error) {
	cinemas, err := r.ListAll(ctx)
	if err != nil {
		return model.Cinema{}, err
	}
	for _, c := range cinemas {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Cinema{}, ErrCinemaNotFound
}

// ListForMovie returns the cinemas screening movieID, restricted to city
// when city is not empty.
func (r *CinemaRepo) ListForMovie(ctx context.Context, movieID int64, city string) ([]model.Cinema, error) {
	cinemas, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Cinema, 0, len(cinemas))
	for _, c := range cinemas {
		if !c.Screens(movieID) {
			continue
		}
		if city != "" && c.City != city {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
