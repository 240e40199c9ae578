package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/catalogsync"
	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
)

// CachePurger drops cached catalog responses after a refresh.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// CatalogHandler serves movies, cinemas, cities and show timings.
type CatalogHandler struct {
	Engine  *catalogsync.Engine
	Movies  *repository.MovieRepo
	Cinemas *repository.CinemaRepo
	Cache   CachePurger // optional
}

func NewCatalogHandler(engine *catalogsync.Engine, movies *repository.MovieRepo, cinemas *repository.CinemaRepo, cache CachePurger) *CatalogHandler {
	if engine == nil || movies == nil || cinemas == nil {
		panic("nil dependency passed to NewCatalogHandler")
	}
	return &CatalogHandler{Engine: engine, Movies: movies, Cinemas: cinemas, Cache: cache}
}

// Refresh handles POST /v1/catalog/refresh.  It runs the sync engine and
// returns its report.
func (h *CatalogHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	rep, err := h.Engine.EnsureFresh(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if h.Cache != nil && rep.Changed() {
		if err := h.Cache.Purge(ctx); err != nil {
			c.Logger().Warnf("catalog: purge cache: %v", err)
		}
	}
	return c.JSON(http.StatusOK, rep)
}

// ListMovies handles GET /v1/movies?city=.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	city := c.QueryParam("city")
	movies, err := h.Movies.ListByCity(c.Request().Context(), city)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"city": city, "count": len(movies), "items": movies})
}

// GetMovie handles GET /v1/movies/:id.  Movies missing locally are looked
// up in the external catalog without being stored.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie id")
	}
	m, err := h.Engine.Movie(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListCities handles GET /v1/cities: every city some movie is showing in.
func (h *CatalogHandler) ListCities(c echo.Context) error {
	cities, err := h.Movies.Cities(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cities})
}

// ShowTimings handles GET /v1/showtimes.
func (h *CatalogHandler) ShowTimings(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": catalogsync.ShowTimings()})
}

// ListCinemas handles GET /v1/cinemas?movie_id=&city=.  Without movie_id
// every cinema is returned, optionally filtered by city.
func (h *CatalogHandler) ListCinemas(c echo.Context) error {
	ctx := c.Request().Context()
	city := c.QueryParam("city")

	var (
		cinemas []model.Cinema
		err     error
	)
	if raw := c.QueryParam("movie_id"); raw != "" {
		movieID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || movieID <= 0 {
			return badRequest(c, "invalid movie_id")
		}
		cinemas, err = h.Cinemas.ListForMovie(ctx, movieID, city)
	} else {
		cinemas, err = h.Cinemas.ListAll(ctx)
		if err == nil && city != "" {
			filtered := make([]model.Cinema, 0, len(cinemas))
			for _, cn := range cinemas {
				if cn.City == city {
					filtered = append(filtered, cn)
				}
			}
			cinemas = filtered
		}
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(cinemas), "items": cinemas})
}

// GetCinema handles GET /v1/cinemas/:id.
func (h *CatalogHandler) GetCinema(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid cinema id")
	}
	cn, err := h.Cinemas.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cn)
}
