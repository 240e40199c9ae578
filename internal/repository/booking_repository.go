package repository

import (
	"context"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/store"
)

// BookingRepo is the persistence side of the booking ledger.
type BookingRepo struct{ s *store.Store }

func NewBookingRepo(s *store.Store) *BookingRepo { return &BookingRepo{s: s} }

// ListAll returns every booking in insertion order.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return store.Load[model.Booking](ctx, r.s, store.KeyBookings)
}

// Exists reports whether the bookings collection has been initialised.
func (r *BookingRepo) Exists(ctx context.Context) (bool, error) {
	return r.s.Exists(ctx, store.KeyBookings)
}

// Replace swaps the whole bookings collection.  Used for bootstrap only;
// the ledger appends through Append.
func (r *BookingRepo) Replace(ctx context.Context, bookings []model.Booking) error {
	return r.s.Put(ctx, store.KeyBookings, bookings)
}

// Append adds b to the end of the collection.
func (r *BookingRepo) Append(ctx context.Context, b model.Booking) error {
	all, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	return r.s.Put(ctx, store.KeyBookings, append(all, b))
}

// ListByUser returns userID's bookings in insertion order.
func (r *BookingRepo) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0)
	for _, b := range all {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
