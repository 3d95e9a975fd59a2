package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
	"canopy/internal/middleware"
	"canopy/internal/model"
	"canopy/internal/repository"
	"canopy/internal/service"
)

// TreeHandler handles tree submission, listing, and deletion.
type TreeHandler struct {
	treeService service.TreeService
}

// NewTreeHandler creates a new tree handler.
func NewTreeHandler(treeService service.TreeService) *TreeHandler {
	return &TreeHandler{treeService: treeService}
}

// BatchRequest wraps a batch of tree submissions.
type BatchRequest struct {
	Trees []service.TreeSubmission `json:"trees" validate:"required,min=1,dive"`
}

// Submit godoc
// @Summary Submit a new tree for verification
// @Tags trees
// @Accept json
// @Produce json
// @Param request body service.TreeSubmission true "Tree data"
// @Success 201 {object} model.Tree
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /manage/add [post]
func (h *TreeHandler) Submit(c echo.Context) error {
	// Authentication is checked before any field validation.
	user, _ := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "you must be logged in to create a tree",
			Code:  "UNAUTHENTICATED",
		})
	}

	var req service.TreeSubmission
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	tree, err := h.treeService.Submit(c.Request().Context(), user, req)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "tree submitted for verification",
		"tree":    tree,
	})
}

// SubmitBatch godoc
// @Summary Submit multiple trees in one request
// @Tags trees
// @Accept json
// @Produce json
// @Param request body BatchRequest true "Batch of trees"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/trees/batch [post]
func (h *TreeHandler) SubmitBatch(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "you must be logged in to create trees",
			Code:  "UNAUTHENTICATED",
		})
	}

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	created, err := h.treeService.SubmitBatch(c.Request().Context(), user, req.Trees)
	if err != nil {
		// Earlier rows are kept; report how far we got.
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, map[string]interface{}{
			"error":    httpErr.Message,
			"code":     httpErr.Code,
			"tree_ids": created,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "trees created successfully",
		"tree_ids": created,
	})
}

// Explore godoc
// @Summary Public listing of approved trees
// @Tags trees
// @Produce json
// @Success 200 {array} model.Tree
// @Failure 500 {object} errors.ErrorResponse
// @Router /explore [get]
func (h *TreeHandler) Explore(c echo.Context) error {
	trees, err := h.treeService.Explore(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, trees)
}

// Manage godoc
// @Summary Management listing of all trees regardless of status
// @Tags trees
// @Produce json
// @Success 200 {array} model.Tree
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /manage [get]
func (h *TreeHandler) Manage(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)
	trees, err := h.treeService.ManageList(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, trees)
}

// Search godoc
// @Summary Filterable listing of approved trees
// @Tags trees
// @Produce json
// @Param q query string false "Name substring"
// @Param health query string false "poor|fair|good|excellent"
// @Param date query string false "week|month|year"
// @Param height query string false "short|medium|tall"
// @Success 200 {array} service.TreeListing
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/trees [get]
func (h *TreeHandler) Search(c echo.Context) error {
	filter := buildTreeFilter(c)

	trees, err := h.treeService.Search(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, trees)
}

// Delete godoc
// @Summary Delete a tree
// @Tags trees
// @Produce json
// @Param id path int true "Tree ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/trees/{id} [delete]
func (h *TreeHandler) Delete(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	treeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid tree id",
			Code:  "INVALID_TREE_ID",
		})
	}

	if err := h.treeService.Delete(c.Request().Context(), user, uint(treeID)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "tree deleted"})
}

// buildTreeFilter maps the listing query params onto a repository filter.
func buildTreeFilter(c echo.Context) repository.TreeFilter {
	var filter repository.TreeFilter

	filter.Query = c.QueryParam("q")

	switch c.QueryParam("health") {
	case "poor":
		filter.Health = model.HealthPoor
	case "fair":
		filter.Health = model.HealthFair
	case "good":
		filter.Health = model.HealthGood
	case "excellent":
		filter.Health = model.HealthExcellent
	}

	now := time.Now()
	switch c.QueryParam("date") {
	case "week":
		from := now.AddDate(0, 0, -7)
		filter.PlantedFrom = &from
	case "month":
		from := now.AddDate(0, -1, 0)
		filter.PlantedFrom = &from
	case "year":
		from := now.AddDate(-1, 0, 0)
		filter.PlantedFrom = &from
	}

	switch c.QueryParam("height") {
	case "short":
		max := 10.0
		filter.MaxHeight = &max
	case "medium":
		min, max := 10.0, 20.0
		filter.MinHeight = &min
		filter.MaxHeight = &max
	case "tall":
		min := 20.0
		filter.MinHeight = &min
	}

	return filter
}
