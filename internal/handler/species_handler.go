package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
	"canopy/internal/service"
)

// SpeciesHandler serves the species and planting reason lookups.
type SpeciesHandler struct {
	speciesService service.SpeciesService
}

// NewSpeciesHandler creates a new species handler.
func NewSpeciesHandler(speciesService service.SpeciesService) *SpeciesHandler {
	return &SpeciesHandler{speciesService: speciesService}
}

// Search godoc
// @Summary Search tree species by name
// @Tags species
// @Produce json
// @Param q query string false "Name substring"
// @Param limit query int false "Maximum results (default 20)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/tree-species [get]
func (h *SpeciesHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	species, err := h.speciesService.Search(c.Request().Context(), query, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"species": species,
	})
}

// ListReasons godoc
// @Summary List planting reasons
// @Tags species
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/planting-reasons [get]
func (h *SpeciesHandler) ListReasons(c echo.Context) error {
	reasons, err := h.speciesService.ListReasons(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"planting_reasons": reasons,
	})
}
