package handler

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/catalogsync"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
)

// BookingHandler confirms bookings for the signed in user and lists their
// history.
type BookingHandler struct {
	Ledger  *booking.Ledger
	Engine  *catalogsync.Engine
	Cinemas *repository.CinemaRepo
}

func NewBookingHandler(ledger *booking.Ledger, engine *catalogsync.Engine, cinemas *repository.CinemaRepo) *BookingHandler {
	if ledger == nil || engine == nil || cinemas == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Ledger: ledger, Engine: engine, Cinemas: cinemas}
}

type createBookingReq struct {
	MovieID  int64    `json:"movie_id"`
	CinemaID int64    `json:"cinema_id"`
	ShowDate string   `json:"show_date"`
	ShowTime string   `json:"show_time"`
	Seats    []string `json:"seats"`
}

// Create handles POST /v1/bookings.  Seat prices come from the seat's row,
// never from the client.
func (h *BookingHandler) Create(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.MovieID <= 0 || req.CinemaID <= 0 {
		return badRequest(c, "movie_id and cinema_id are required")
	}
	if _, err := time.Parse(time.DateOnly, req.ShowDate); err != nil {
		return badRequest(c, "show_date must be YYYY-MM-DD")
	}
	if !slices.Contains(catalogsync.ShowTimings(), req.ShowTime) {
		return badRequest(c, "unknown show_time")
	}
	if len(req.Seats) == 0 {
		return badRequest(c, "select at least one seat")
	}

	ctx := c.Request().Context()
	movie, err := h.Engine.Movie(ctx, req.MovieID)
	if err != nil {
		return respondError(c, err)
	}
	cinema, err := h.Cinemas.GetByID(ctx, req.CinemaID)
	if err != nil {
		return respondError(c, err)
	}
	if !cinema.Screens(movie.ID) {
		return badRequest(c, "movie is not screening at this cinema")
	}

	seats := make([]model.Seat, 0, len(req.Seats))
	for _, id := range req.Seats {
		s, ok := seating.SeatByID(strings.ToUpper(strings.TrimSpace(id)))
		if !ok {
			return badRequest(c, "unknown seat "+id)
		}
		seats = append(seats, s)
	}
	sel := seating.NewSelection(seats)
	for _, s := range seats {
		if err := sel.Select(s.ID); err != nil {
			return respondError(c, err)
		}
	}

	b, err := h.Ledger.CreateBooking(ctx, booking.Request{
		User:     user,
		Movie:    movie,
		Cinema:   cinema,
		ShowDate: req.ShowDate,
		ShowTime: req.ShowTime,
		Seats:    sel.Seats(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /v1/bookings, newest first.
func (h *BookingHandler) List(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Ledger.ListBookingsForUser(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	booking.SortByNewest(items)
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
