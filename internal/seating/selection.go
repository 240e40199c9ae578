package seating

import (
	"errors"
	"fmt"

	"github.com/iliyamo/cinebook/internal/model"
)

const (
	// MaxSelection is the largest number of seats one booking may hold.
	MaxSelection = 10
	// ConvenienceFee is charged per seat when the booking is confirmed.
	ConvenienceFee = 20
)

var (
	ErrSeatBooked    = errors.New("seat is already booked")
	ErrSelectionFull = fmt.Errorf("at most %d seats can be selected", MaxSelection)
	ErrUnknownSeat   = errors.New("unknown seat")
)

// Selection tracks the seats picked from one seat map.  It is not safe for
// concurrent use.
type Selection struct {
	layout map[string]model.Seat
	picked []model.Seat
}

// NewSelection starts an empty selection over a generated seat map.
func NewSelection(seats []model.Seat) *Selection {
	layout := make(map[string]model.Seat, len(seats))
	for _, s := range seats {
		layout[s.ID] = s
	}
	return &Selection{layout: layout}
}

// Toggle selects the seat when it is not selected and deselects it
// otherwise.  It reports whether the seat is selected afterwards.
func (s *Selection) Toggle(id string) (bool, error) {
	seat, ok := s.layout[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSeat, id)
	}
	for i, p := range s.picked {
		if p.ID == id {
			s.picked = append(s.picked[:i], s.picked[i+1:]...)
			return false, nil
		}
	}
	if seat.Booked() {
		return false, fmt.Errorf("%w: %s", ErrSeatBooked, id)
	}
	if len(s.picked) >= MaxSelection {
		return false, ErrSelectionFull
	}
	s.picked = append(s.picked, seat)
	return true, nil
}

// Select adds every seat in ids, stopping at the first failure.
func (s *Selection) Select(ids ...string) error {
	for _, id := range ids {
		if s.Selected(id) {
			continue
		}
		if _, err := s.Toggle(id); err != nil {
			return err
		}
	}
	return nil
}

// Selected reports whether id is part of the selection.
func (s *Selection) Selected(id string) bool {
	for _, p := range s.picked {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Seats returns the selected seats in selection order.
func (s *Selection) Seats() []model.Seat {
	return append([]model.Seat(nil), s.picked...)
}

func (s *Selection) Len() int { return len(s.picked) }

// Total is the sum of the selected seat prices, without fees.
func (s *Selection) Total() int { return Total(s.picked) }

// ConfirmationTotal adds the per-seat convenience fee to Total.
func (s *Selection) ConfirmationTotal() int { return ConfirmationTotal(s.picked) }

// Total sums seat prices.
func Total(seats []model.Seat) int {
	sum := 0
	for _, s := range seats {
		sum += s.Price
	}
	return sum
}

// Fee is the convenience fee for n seats.
func Fee(n int) int { return ConvenienceFee * n }

// ConfirmationTotal is Total plus the convenience fee for every seat.
func ConfirmationTotal(seats []model.Seat) int { return Total(seats) + Fee(len(seats)) }
