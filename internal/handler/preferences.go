package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/account"
	"github.com/iliyamo/cinebook/internal/catalogsync"
)

// PreferenceHandler reads and writes the selected city.
type PreferenceHandler struct {
	City *account.CityPreference
}

func NewPreferenceHandler(city *account.CityPreference) *PreferenceHandler {
	return &PreferenceHandler{City: city}
}

// GetCity handles GET /v1/preferences/city.
func (h *PreferenceHandler) GetCity(c echo.Context) error {
	city, err := h.City.Get(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"city": city})
}

type cityReq struct {
	City string `json:"city"`
}

// SetCity handles PUT /v1/preferences/city.  An empty city clears the
// selection.
func (h *PreferenceHandler) SetCity(c echo.Context) error {
	var req cityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	city := strings.TrimSpace(req.City)
	if city != "" && !slices.Contains(catalogsync.SelectableCities(), city) {
		return badRequest(c, "unknown city")
	}
	if err := h.City.Set(c.Request().Context(), city); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"city": city})
}
