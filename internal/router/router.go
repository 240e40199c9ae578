package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Catalog     *handler.CatalogHandler
	Seats       *handler.SeatHandler
	Auth        *handler.AuthHandler
	Bookings    *handler.BookingHandler
	Preferences *handler.PreferenceHandler
}

// RegisterRoutes registers routes that need no session.  Currently it
// exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the browse endpoints.  GET responses go
// through cache; cache may be a pass-through.
func RegisterCatalog(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	if cache == nil {
		cache = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	e.POST("/v1/catalog/refresh", h.Catalog.Refresh)

	// middleware is attached per route: group middleware would also claim
	// unmatched /v1/* paths
	g := e.Group("/v1")
	g.GET("/movies", h.Catalog.ListMovies, cache)
	g.GET("/movies/:id", h.Catalog.GetMovie, cache)
	g.GET("/cities", h.Catalog.ListCities, cache)
	g.GET("/showtimes", h.Catalog.ShowTimings, cache)
	g.GET("/cinemas", h.Catalog.ListCinemas, cache)
	g.GET("/cinemas/:id", h.Catalog.GetCinema, cache)

	// seat maps are random per request and must never be cached
	e.GET("/v1/movies/:id/cinemas/:cinemaId/seats", h.Seats.Layout)
}

// RegisterAuth registers the account endpoints.  Register, login and
// logout need no session; /v1/me does.
func RegisterAuth(e *echo.Echo, h Handlers) {
	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/logout", h.Auth.Logout)

	e.GET("/v1/me", h.Auth.Me, middleware.RequireSession())
}

// RegisterCustomer registers endpoints scoped to the signed in user.
func RegisterCustomer(e *echo.Echo, h Handlers) {
	auth := middleware.RequireSession()
	e.GET("/v1/bookings", h.Bookings.List, auth)
	e.POST("/v1/bookings", h.Bookings.Create, auth)

	e.GET("/v1/preferences/city", h.Preferences.GetCity)
	e.PUT("/v1/preferences/city", h.Preferences.SetCity)
}

// Register wires every route group.
func Register(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	RegisterRoutes(e)
	RegisterCatalog(e, h, cache)
	RegisterAuth(e, h)
	RegisterCustomer(e, h)
}
