package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/catalogsync"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/seating"
)

// SeatHandler serves seat maps.  Every request gets a freshly generated
// map; availability is not tracked between requests.
type SeatHandler struct {
	Engine    *catalogsync.Engine
	Cinemas   *repository.CinemaRepo
	Generator *seating.Generator
}

func NewSeatHandler(engine *catalogsync.Engine, cinemas *repository.CinemaRepo, gen *seating.Generator) *SeatHandler {
	if gen == nil {
		gen = seating.NewGenerator(nil)
	}
	return &SeatHandler{Engine: engine, Cinemas: cinemas, Generator: gen}
}

// Layout handles GET /v1/movies/:id/cinemas/:cinemaId/seats and returns
// the seat map grouped by row.
func (h *SeatHandler) Layout(c echo.Context) error {
	movieID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	cinemaID, ok := pathID(c, "cinemaId")
	if !ok {
		return badRequest(c, "invalid cinema id")
	}
	ctx := c.Request().Context()
	if _, err := h.Engine.Movie(ctx, movieID); err != nil {
		return respondError(c, err)
	}
	cinema, err := h.Cinemas.GetByID(ctx, cinemaID)
	if err != nil {
		return respondError(c, err)
	}
	if !cinema.Screens(movieID) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie is not screening at this cinema"})
	}

	seats := h.Generator.Generate()
	available := 0
	for _, s := range seats {
		if !s.Booked() {
			available++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie_id":        movieID,
		"cinema_id":       cinemaID,
		"date":            c.QueryParam("date"),
		"time":            c.QueryParam("time"),
		"max_selection":   seating.MaxSelection,
		"convenience_fee": seating.ConvenienceFee,
		"available":       available,
		"rows":            seating.GroupByRow(seats),
	})
}
