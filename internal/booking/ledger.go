// Package booking is the append-only booking ledger.  Movie and cinema
// display fields are copied into every record so history survives later
// catalog changes.  Bookings are never updated or cancelled.
//
// Seats are not reserved per showing: the ledger accepts any selection it
// is given, so two bookings may name the same seat.
package booking

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/store"
)

// ErrInvalidBooking is wrapped with the name of the failing field.
var ErrInvalidBooking = errors.New("invalid booking")

// Publisher announces confirmed bookings.  queue.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, b model.Booking) error
}

// Request is everything needed to confirm a booking.  User, Movie and
// Cinema must already be resolved.
type Request struct {
	User     model.User
	Movie    model.Movie
	Cinema   model.Cinema
	ShowDate string
	ShowTime string
	Seats    []model.Seat
}

func (r Request) validate() error {
	switch {
	case r.User.ID == 0:
		return fmt.Errorf("%w: user is required", ErrInvalidBooking)
	case r.Movie.ID == 0:
		return fmt.Errorf("%w: movie is required", ErrInvalidBooking)
	case r.Cinema.ID == 0:
		return fmt.Errorf("%w: cinema is required", ErrInvalidBooking)
	case r.ShowDate == "":
		return fmt.Errorf("%w: show date is required", ErrInvalidBooking)
	case r.ShowTime == "":
		return fmt.Errorf("%w: show time is required", ErrInvalidBooking)
	case len(r.Seats) == 0:
		return fmt.Errorf("%w: at least one seat is required", ErrInvalidBooking)
	case len(r.Seats) > seating.MaxSelection:
		return fmt.Errorf("%w: at most %d seats", ErrInvalidBooking, seating.MaxSelection)
	}
	seen := make(map[string]struct{}, len(r.Seats))
	for _, s := range r.Seats {
		if s.ID == "" || s.Price <= 0 {
			return fmt.Errorf("%w: seat %q has no price", ErrInvalidBooking, s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: seat %s listed twice", ErrInvalidBooking, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// Ledger is the only writer of the bookings collection.
type Ledger struct {
	bookings  *repository.BookingRepo
	publisher Publisher
	now       func() time.Time
	log       *slog.Logger

	mu sync.Mutex
}

type Option func(*Ledger)

// WithPublisher announces every stored booking through p.
func WithPublisher(p Publisher) Option { return func(l *Ledger) { l.publisher = p } }

func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

func WithLogger(lg *slog.Logger) Option {
	return func(l *Ledger) {
		if lg != nil {
			l.log = lg
		}
	}
}

func NewLedger(s *store.Store, opts ...Option) *Ledger {
	l := &Ledger{bookings: repository.NewBookingRepo(s), now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CreateBooking validates req, appends the booking and returns the stored
// record.  A configured publisher is notified afterwards; publish
// failures are logged and do not fail the booking.
func (l *Ledger) CreateBooking(ctx context.Context, req Request) (model.Booking, error) {
	if err := req.validate(); err != nil {
		return model.Booking{}, err
	}

	l.mu.Lock()
	existing, err := l.bookings.ListAll(ctx)
	if err != nil {
		l.mu.Unlock()
		return model.Booking{}, err
	}
	var last int64
	for _, b := range existing {
		last = max(last, b.ID)
	}
	now := l.now()
	b := newRecord(req, max(now.UnixMilli(), last+1), now.UTC())
	err = l.bookings.Append(ctx, b)
	l.mu.Unlock()
	if err != nil {
		return model.Booking{}, err
	}
	l.log.Info("booking: created", "booking_id", b.ID, "user_id", b.UserID, "seats", b.NumberOfSeats, "amount", b.AmountPayable)

	if l.publisher != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if perr := l.publisher.Publish(pctx, b); perr != nil {
			l.log.Warn("booking: publish confirmation failed", "booking_id", b.ID, "err", perr)
		}
		cancel()
	}
	return b, nil
}

func newRecord(req Request, id int64, at time.Time) model.Booking {
	n := len(req.Seats)
	b := model.Booking{
		ID:             id,
		UserID:         req.User.ID,
		UserName:       req.User.Name,
		MovieID:        req.Movie.ID,
		MovieTitle:     req.Movie.Title,
		CinemaID:       req.Cinema.ID,
		CinemaName:     req.Cinema.Name,
		CinemaLocation: req.Cinema.Location,
		City:           req.Cinema.City,
		ShowDate:       req.ShowDate,
		ShowTime:       req.ShowTime,
		Seats:          make([]string, 0, n),
		SeatPrices:     make([]int, 0, n),
		SeatDetails:    make([]model.BookedSeat, 0, n),
		NumberOfSeats:  n,
		TotalPrice:     seating.Total(req.Seats),
		ConvenienceFee: seating.Fee(n),
		BookingDate:    at,
	}
	for _, s := range req.Seats {
		b.Seats = append(b.Seats, s.ID)
		b.SeatPrices = append(b.SeatPrices, s.Price)
		b.SeatDetails = append(b.SeatDetails, model.BookedSeat{ID: s.ID, Tier: s.Tier, Price: s.Price})
	}
	b.AmountPayable = b.TotalPrice + b.ConvenienceFee
	return b
}

// ListBookingsForUser returns userID's bookings in insertion order.
func (l *Ledger) ListBookingsForUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	return l.bookings.ListByUser(ctx, userID)
}

// SortByNewest orders bookings by creation time, newest first, in place.
// Ties keep insertion order.
func SortByNewest(bookings []model.Booking) {
	slices.SortStableFunc(bookings, func(a, b model.Booking) int {
		return cmp.Compare(b.BookingDate.UnixNano(), a.BookingDate.UnixNano())
	})
}
