package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/iliyamo/cinebook/internal/store"
)

// MetaRepo holds the small scalars that are not records: the last catalog
// refresh and the selected city.
type MetaRepo struct{ s *store.Store }

func NewMetaRepo(s *store.Store) *MetaRepo { return &MetaRepo{s: s} }

// LastRefresh returns the time of the last successful catalog refresh.  ok
// is false when no refresh has been recorded or the value is unreadable.
func (r *MetaRepo) LastRefresh(ctx context.Context) (t time.Time, ok bool, err error) {
	raw, ok, err := r.s.GetScalar(ctx, store.KeyMoviesLastFetch)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ms, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}

// SetLastRefresh records t as epoch milliseconds.
func (r *MetaRepo) SetLastRefresh(ctx context.Context, t time.Time) error {
	return r.s.SetScalar(ctx, store.KeyMoviesLastFetch, strconv.FormatInt(t.UnixMilli(), 10))
}

// SelectedCity returns the persisted city preference, empty when unset.
func (r *MetaRepo) SelectedCity(ctx context.Context) (string, error) {
	v, _, err := r.s.GetScalar(ctx, store.KeySelectedCity)
	return v, err
}

// SetSelectedCity persists the city preference.
func (r *MetaRepo) SetSelectedCity(ctx context.Context, city string) error {
	return r.s.SetScalar(ctx, store.KeySelectedCity, city)
}

// ClearSelectedCity removes the city preference.
func (r *MetaRepo) ClearSelectedCity(ctx context.Context) error {
	return r.s.DeleteScalar(ctx, store.KeySelectedCity)
}
