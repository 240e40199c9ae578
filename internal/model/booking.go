package model

import "time"

// Booking is one entry of the append-only booking ledger.  Movie and cinema
// display fields are copied at booking time so history survives later
// catalog changes.  A booking is never modified after creation.
//
// Fields:
//
//	ID             – ledger identifier, never reused.
//	UserID         – owning user.
//	UserName       – owner's display name at booking time.
//	MovieID        – booked movie.
//	MovieTitle     – title snapshot.
//	CinemaID       – booked cinema.
//	CinemaName     – cinema name snapshot.
//	CinemaLocation – cinema location snapshot.
//	City           – cinema city snapshot.
//	ShowDate       – show date as YYYY-MM-DD.
//	ShowTime       – show time label, e.g. "7:00 PM".
//	Seats          – seat identifiers in selection order.
//	SeatPrices     – price of each seat, aligned with Seats.
//	SeatDetails    – tier and price for each seat.
//	NumberOfSeats  – len(Seats).
//	TotalPrice     – sum of SeatPrices.
//	ConvenienceFee – per-seat fee times NumberOfSeats.
//	AmountPayable  – TotalPrice plus ConvenienceFee.
//	BookingDate    – creation timestamp.
type Booking struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"userId"`
	UserName       string       `json:"userName"`
	MovieID        int64        `json:"movieId"`
	MovieTitle     string       `json:"movieTitle"`
	CinemaID       int64        `json:"cinemaId"`
	CinemaName     string       `json:"cinemaName"`
	CinemaLocation string       `json:"cinemaLocation"`
	City           string       `json:"city"`
	ShowDate       string       `json:"showDate"`
	ShowTime       string       `json:"showTime"`
	Seats          []string     `json:"seats"`
	SeatPrices     []int        `json:"seatPrices"`
	SeatDetails    []BookedSeat `json:"seatDetails"`
	NumberOfSeats  int          `json:"numberOfSeats"`
	TotalPrice     int          `json:"totalPrice"`
	ConvenienceFee int          `json:"convenienceFee"`
	AmountPayable  int          `json:"amountPayable"`
	BookingDate    time.Time    `json:"bookingDate"`
}

// BookedSeat is the per-seat snapshot stored with a booking.
type BookedSeat struct {
	ID    string   `json:"id"`
	Tier  SeatTier `json:"type"`
	Price int      `json:"price"`
}
