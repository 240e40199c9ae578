// Package handler contains the echo handlers that expose the catalog,
// seat maps, accounts and bookings over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/booking"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
)

// respondError maps domain errors to HTTP statuses.  Anything unknown is
// logged and reported as 500 without details.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, account.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, repository.ErrMovieNotFound),
		errors.Is(err, repository.ErrCinemaNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, booking.ErrInvalidBooking),
		errors.Is(err, seating.ErrUnknownSeat),
		errors.Is(err, seating.ErrSeatBooked),
		errors.Is(err, seating.ErrSelectionFull):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}
