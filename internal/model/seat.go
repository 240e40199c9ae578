package model

// SeatTier is the pricing tier of a seat.
type SeatTier string

const (
	TierPremium SeatTier = "premium"
	TierRegular SeatTier = "regular"
	TierEconomy SeatTier = "economy"
)

// SeatStatus is the availability of a seat for one showing.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// Seat is a derived, never persisted, entry of a showing's seat map.
//
// Fields:
//
//	ID     – row letter followed by seat number, e.g. "H5".
//	Row    – row letter A–J.
//	Number – seat number within the row, starting at 1.
//	Tier   – pricing tier determined by the row.
//	Price  – price of the seat in rupees.
//	Status – availability for this showing.
type Seat struct {
	ID     string     `json:"id"`
	Row    string     `json:"row"`
	Number int        `json:"number"`
	Tier   SeatTier   `json:"type"`
	Price  int        `json:"price"`
	Status SeatStatus `json:"status"`
}

// Booked reports whether the seat is unavailable.
func (s Seat) Booked() bool { return s.Status == SeatBooked }
