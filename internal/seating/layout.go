// Package seating generates the seat map of a showing and enforces the
// selection rules applied before a booking is confirmed.
//
// Availability is random and is not tracked per showing: every call to
// Generate produces a fresh map.  It is a demo stand in for a real
// reservation system and two callers can hold the same seat.
package seating

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/iliyamo/cinebook/internal/model"
)

const (
	Rows        = 10
	SeatsPerRow = 12

	PricePremium = 350
	PriceRegular = 200
	PriceEconomy = 150

	// BookedProbability is the chance that a generated seat is already taken.
	BookedProbability = 0.3
)

const rowLetters = "ABCDEFGHIJ"

// Rand is the random source used to decide seat availability.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Generator builds seat maps.  The zero value is not usable; call
// NewGenerator.
type Generator struct {
	mu  sync.Mutex
	rnd Rand
}

// NewGenerator returns a generator drawing from rnd, or from the process
// wide source when rnd is nil.
func NewGenerator(rnd Rand) *Generator {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Generator{rnd: rnd}
}

// TierForRow returns the pricing tier and price of a 0-based row index.
func TierForRow(row int) (model.SeatTier, int) {
	switch {
	case row < 3:
		return model.TierPremium, PricePremium
	case row >= 7:
		return model.TierEconomy, PriceEconomy
	default:
		return model.TierRegular, PriceRegular
	}
}

// Generate returns a fresh seat map in row-major order, A1 first.
func (g *Generator) Generate() []model.Seat {
	g.mu.Lock()
	defer g.mu.Unlock()

	seats := make([]model.Seat, 0, Rows*SeatsPerRow)
	for r := 0; r < Rows; r++ {
		tier, price := TierForRow(r)
		letter := string(rowLetters[r])
		for n := 1; n <= SeatsPerRow; n++ {
			status := model.SeatAvailable
			if g.rnd.Float64() < BookedProbability {
				status = model.SeatBooked
			}
			seats = append(seats, model.Seat{
				ID:     letter + strconv.Itoa(n),
				Row:    letter,
				Number: n,
				Tier:   tier,
				Price:  price,
				Status: status,
			})
		}
	}
	return seats
}

// SeatByID resolves a seat identifier such as "H5" to its structural
// description.  The returned seat is always available; availability is a
// property of a generated map, not of the seat.
func SeatByID(id string) (model.Seat, bool) {
	if len(id) < 2 {
		return model.Seat{}, false
	}
	r := strings.IndexByte(rowLetters, id[0])
	n, err := strconv.Atoi(id[1:])
	if r < 0 || err != nil || n < 1 || n > SeatsPerRow || strconv.Itoa(n) != id[1:] {
		return model.Seat{}, false
	}
	tier, price := TierForRow(r)
	return model.Seat{ID: id, Row: id[:1], Number: n, Tier: tier, Price: price, Status: model.SeatAvailable}, true
}

// Row is one line of the grouped seat map.
type Row struct {
	Label string       `json:"row"`
	Tier  string       `json:"type"`
	Price int          `json:"price"`
	Seats []model.Seat `json:"seats"`
}

// GroupByRow groups a row-major seat list into rows, preserving order.
func GroupByRow(seats []model.Seat) []Row {
	var rows []Row
	for _, s := range seats {
		if n := len(rows); n == 0 || rows[n-1].Label != s.Row {
			rows = append(rows, Row{Label: s.Row, Tier: string(s.Tier), Price: s.Price})
		}
		last := &rows[len(rows)-1]
		last.Seats = append(last.Seats, s)
	}
	return rows
}
