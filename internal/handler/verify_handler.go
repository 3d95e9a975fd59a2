package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
	"canopy/internal/middleware"
	"canopy/internal/service"
)

// VerifyHandler handles the admin verification queue.
type VerifyHandler struct {
	treeService service.TreeService
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(treeService service.TreeService) *VerifyHandler {
	return &VerifyHandler{treeService: treeService}
}

// VerifyRequest represents a verification decision. The approved flag
// arrives as the string "true" or "false" from the review form.
type VerifyRequest struct {
	TreeID   string `json:"tree_id" form:"tree_id"`
	Approved string `json:"approved" form:"approved"`
}

// ListPending godoc
// @Summary Pending trees awaiting review, oldest first
// @Tags verify
// @Produce json
// @Success 200 {array} model.Tree
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /verify [get]
func (h *VerifyHandler) ListPending(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	trees, err := h.treeService.ListPending(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending_trees": trees,
	})
}

// Verify godoc
// @Summary Approve or decline a pending tree
// @Tags verify
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Decision"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /verify [post]
func (h *VerifyHandler) Verify(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if req.TreeID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "tree id is required",
			Code:  "TREE_ID_REQUIRED",
		})
	}
	treeID, err := strconv.ParseUint(req.TreeID, 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid tree id",
			Code:  "INVALID_TREE_ID",
		})
	}

	tree, err := h.treeService.Verify(c.Request().Context(), user, uint(treeID), req.Approved == "true")
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"tree":    tree,
	})
}
