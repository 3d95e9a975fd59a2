package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"canopy/internal/config"
	"canopy/internal/handler"
	"canopy/internal/middleware"
	"canopy/internal/model"
	"canopy/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	treeHandler *handler.TreeHandler,
	verifyHandler *handler.VerifyHandler,
	speciesHandler *handler.SpeciesHandler,
	reportHandler *handler.ReportHandler,
	uploadHandler *handler.UploadHandler,
	notificationHandler *handler.NotificationHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Session resolution runs on every route; failures downgrade to anonymous.
	e.Use(middleware.Session([]byte(cfg.JWTSecret)))
	e.Use(middleware.ResolveUser(userRepo))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Auth routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// Public browsing
	e.GET("/explore", treeHandler.Explore)
	e.GET("/api/trees", treeHandler.Search)
	e.GET("/api/tree-species", speciesHandler.Search)
	e.GET("/api/planting-reasons", speciesHandler.ListReasons)

	// Routes that require a resolved session
	authed := e.Group("", middleware.RequireAuth())
	authed.GET("/manage", treeHandler.Manage)
	authed.POST("/manage/add", treeHandler.Submit)
	authed.POST("/api/trees/batch", treeHandler.SubmitBatch)
	authed.DELETE("/api/trees/:id", treeHandler.Delete)
	authed.POST("/api/upload", uploadHandler.Upload)
	authed.POST("/api/save-fcm-token", notificationHandler.SaveToken)
	authed.GET("/api/notifications", notificationHandler.List)

	// Verification queue is admin-only
	admin := e.Group("", middleware.RequireRole(model.RoleIDAdmin))
	admin.GET("/verify", verifyHandler.ListPending)
	admin.POST("/verify", verifyHandler.Verify)

	// Reports are open to admins and environmentalists
	reports := e.Group("", middleware.RequireRole(model.RoleIDAdmin, model.RoleIDEnvironmentalist))
	reports.GET("/api/reports", reportHandler.Generate)
	reports.GET("/api/reports/export", reportHandler.Export)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
