// Package queue carries booking confirmations over RabbitMQ: the event
// payload, a publisher used by the booking ledger, and the consumer that
// appends confirmations to logs/booking.log.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
)

// BookingQueue is the durable queue confirmations are routed to.
const BookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking has been appended to
// the ledger.  It carries the denormalised booking so consumers never need
// to read the store.
type BookingConfirmedEvent struct {
	BookingID      int64    `json:"booking_id"`
	UserID         int64    `json:"user_id"`
	UserName       string   `json:"user_name"`
	MovieID        int64    `json:"movie_id"`
	MovieTitle     string   `json:"movie_title"`
	CinemaID       int64    `json:"cinema_id"`
	CinemaName     string   `json:"cinema_name"`
	City           string   `json:"city"`
	ShowDate       string   `json:"show_date"`
	ShowTime       string   `json:"show_time"`
	Seats          []string `json:"seats"`
	TotalPrice     int      `json:"total_price"`
	ConvenienceFee int      `json:"convenience_fee"`
	AmountPayable  int      `json:"amount_payable"`
	ConfirmedAt    string   `json:"confirmed_at"`
}

// NewBookingConfirmed builds the event for b.
func NewBookingConfirmed(b model.Booking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		UserName:       b.UserName,
		MovieID:        b.MovieID,
		MovieTitle:     b.MovieTitle,
		CinemaID:       b.CinemaID,
		CinemaName:     b.CinemaName,
		City:           b.City,
		ShowDate:       b.ShowDate,
		ShowTime:       b.ShowTime,
		Seats:          append([]string(nil), b.Seats...),
		TotalPrice:     b.TotalPrice,
		ConvenienceFee: b.ConvenienceFee,
		AmountPayable:  b.AmountPayable,
		ConfirmedAt:    b.BookingDate.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as one line of logs/booking.log.
func (ev BookingConfirmedEvent) LogLine() string {
	seats := "[]"
	if len(ev.Seats) > 0 {
		seats = fmt.Sprintf("[%s]", strings.Join(ev.Seats, ","))
	}
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | user_id=%d | movie=%q | cinema=%q | city=%q | show=\"%s %s\" | seats=%s | total=%d | fee=%d | payable=%d\n",
		ev.ConfirmedAt, ev.BookingID, ev.UserID, ev.MovieTitle, ev.CinemaName, ev.City, ev.ShowDate, ev.ShowTime, seats, ev.TotalPrice, ev.ConvenienceFee, ev.AmountPayable)
}
