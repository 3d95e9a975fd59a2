package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"canopy/internal/errors"
	"canopy/internal/middleware"
	"canopy/internal/service"
)

// NotificationHandler serves notification listing and device token saves.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// SaveTokenRequest registers a device push token for the caller.
type SaveTokenRequest struct {
	FCMToken   string `json:"fcmToken" validate:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

// SaveToken godoc
// @Summary Register the caller's device push token
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body SaveTokenRequest true "Token data"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/save-fcm-token [post]
func (h *NotificationHandler) SaveToken(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	var req SaveTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := h.notificationService.SaveToken(c.Request().Context(), user, req.FCMToken, req.DeviceInfo); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// List godoc
// @Summary List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	user, _ := middleware.CurrentUser(c)

	notifications, err := h.notificationService.ListForUser(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}
