package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/seating"
	"github.com/iliyamo/cinebook/internal/store"
)

type recordingPublisher struct {
	mu   sync.Mutex
	got  []model.Booking
	fail error
}

func (p *recordingPublisher) Publish(_ context.Context, b model.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, b)
	return p.fail
}

var (
	inception = model.Movie{ID: 1, Title: "Inception"}
	pvr       = model.Cinema{ID: 1, Name: "PVR Cinemas", Location: "Phoenix Mall, Mumbai", City: "Mumbai"}
)

func seats(t *testing.T, ids ...string) []model.Seat {
	t.Helper()
	layout := seating.NewGenerator(constRand(0.99)).Generate()
	sel := seating.NewSelection(layout)
	require.NoError(t, sel.Select(ids...))
	return sel.Seats()
}

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func request(t *testing.T, u model.User, ids ...string) Request {
	return Request{User: u, Movie: inception, Cinema: pvr, ShowDate: "2026-10-20", ShowTime: "7:00 PM", Seats: seats(t, ids...)}
}

func TestCreateBooking_A1H5(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l := NewLedger(store.NewMemory(), WithClock(func() time.Time { return at }))
	alice := model.User{ID: 10, Name: "Alice"}

	b, err := l.CreateBooking(context.Background(), request(t, alice, "A1", "H5"))
	require.NoError(t, err)

	assert.Equal(t, at.UnixMilli(), b.ID)
	assert.Equal(t, at, b.BookingDate)
	assert.Equal(t, []string{"A1", "H5"}, b.Seats)
	assert.Equal(t, []int{350, 150}, b.SeatPrices)
	assert.Equal(t, model.TierEconomy, b.SeatDetails[1].Tier)
	assert.Equal(t, 2, b.NumberOfSeats)
	assert.Equal(t, 500, b.TotalPrice)
	assert.Equal(t, 40, b.ConvenienceFee)
	assert.Equal(t, 540, b.AmountPayable)

	assert.Equal(t, "Alice", b.UserName)
	assert.Equal(t, "Inception", b.MovieTitle)
	assert.Equal(t, "PVR Cinemas", b.CinemaName)
	assert.Equal(t, "Phoenix Mall, Mumbai", b.CinemaLocation)
	assert.Equal(t, "Mumbai", b.City)
}

func TestCreateBooking_TotalNeverBelowSeatSum(t *testing.T) {
	l := NewLedger(store.NewMemory())
	for _, ids := range [][]string{{"A1"}, {"D4", "D5", "D6"}, {"J1", "J2", "J3", "J4", "J5", "J6", "J7", "J8", "J9", "J10"}} {
		b, err := l.CreateBooking(context.Background(), request(t, model.User{ID: 1}, ids...))
		require.NoError(t, err)
		sum := 0
		for _, p := range b.SeatPrices {
			sum += p
		}
		assert.GreaterOrEqual(t, b.TotalPrice, sum)
		assert.Equal(t, b.TotalPrice+seating.ConvenienceFee*len(ids), b.AmountPayable)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	l := NewLedger(store.NewMemory())
	ctx := context.Background()
	alice := model.User{ID: 10}

	cases := map[string]func(*Request){
		"no seats":  func(r *Request) { r.Seats = nil },
		"no user":   func(r *Request) { r.User = model.User{} },
		"no movie":  func(r *Request) { r.Movie = model.Movie{} },
		"no cinema": func(r *Request) { r.Cinema = model.Cinema{} },
		"no date":   func(r *Request) { r.ShowDate = "" },
		"no time":   func(r *Request) { r.ShowTime = "" },
		"duplicate": func(r *Request) { r.Seats = append(r.Seats, r.Seats[0]) },
		"too many": func(r *Request) {
			for i := 0; i < seating.MaxSelection; i++ {
				r.Seats = append(r.Seats, model.Seat{ID: "Z" + string(rune('a'+i)), Price: 1})
			}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := request(t, alice, "A1")
			mutate(&req)
			_, err := l.CreateBooking(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidBooking)
		})
	}

	all, err := l.ListBookingsForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListBookingsForUser_OnlyOwnBookings(t *testing.T) {
	l := NewLedger(store.NewMemory())
	ctx := context.Background()
	alice := model.User{ID: 1, Name: "Alice"}
	bob := model.User{ID: 2, Name: "Bob"}

	ab, err := l.CreateBooking(ctx, request(t, alice, "A1"))
	require.NoError(t, err)
	bb, err := l.CreateBooking(ctx, request(t, bob, "A1"))
	require.NoError(t, err)
	assert.NotEqual(t, ab.ID, bb.ID)

	got, err := l.ListBookingsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ab.ID, got[0].ID)

	got, err = l.ListBookingsForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bb.ID, got[0].ID)
}

func TestCreateBooking_IdentifiersIncreaseWithFrozenClock(t *testing.T) {
	at := time.UnixMilli(1_000)
	l := NewLedger(store.NewMemory(), WithClock(func() time.Time { return at }))
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		b, err := l.CreateBooking(ctx, request(t, model.User{ID: 1}, "B2"))
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{1000, 1001, 1002}, ids)
}

func TestCreateBooking_PublishFailureIsIgnored(t *testing.T) {
	pub := &recordingPublisher{fail: errors.New("broker down")}
	l := NewLedger(store.NewMemory(), WithPublisher(pub))
	ctx := context.Background()

	b, err := l.CreateBooking(ctx, request(t, model.User{ID: 7}, "C3"))
	require.NoError(t, err)
	require.Len(t, pub.got, 1)
	assert.Equal(t, b.ID, pub.got[0].ID)

	stored, err := l.ListBookingsForUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSortByNewest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bs := []model.Booking{
		{ID: 1, BookingDate: base},
		{ID: 2, BookingDate: base.Add(2 * time.Hour)},
		{ID: 3, BookingDate: base.Add(time.Hour)},
		{ID: 4, BookingDate: base.Add(2 * time.Hour)},
	}
	SortByNewest(bs)
	var ids []int64
	for _, b := range bs {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
}
