package http

import (
	"fmt"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "precis/backend/docs"
	"precis/backend/internal/handler"
	"precis/backend/internal/service"
)

// formOverhead is allowed on top of the upload limit for multipart framing
// and the other form fields.
const formOverhead = 1 << 20

type healthResponse struct {
	Status string `json:"status"`
}

func NewRouter(
	pageHandler *handler.PageHandler,
	summarizeHandler *handler.SummarizeHandler,
	modelHandler *handler.ModelHandler,
	settingsHandler *handler.SettingsHandler,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	renderer echo.Renderer,
	maxUploadBytes int64,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestLoggerMiddleware())
	e.Use(middleware.BodyLimit(bodyLimit(maxUploadBytes)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(nethttp.StatusOK, healthResponse{Status: "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	pageHandler.RegisterRoutes(e)

	api := e.Group("/api")
	summarizeHandler.RegisterRoutes(api)
	modelHandler.RegisterPublicRoutes(api)
	authHandler.RegisterPublicRoutes(api)

	// Per-route so unknown /api paths still 404 instead of 401.
	requireAdmin := JWTAuthMiddleware(authService)
	modelHandler.RegisterProtectedRoutes(api, requireAdmin)
	settingsHandler.RegisterProtectedRoutes(api, requireAdmin)

	return e
}

// bodyLimit renders the request size cap in the form BodyLimit expects.
func bodyLimit(maxUploadBytes int64) string {
	kb := (maxUploadBytes + formOverhead + 1023) / 1024
	return fmt.Sprintf("%dK", kb)
}
