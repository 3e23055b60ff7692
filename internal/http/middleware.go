package http

import (
	"errors"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/handler"
	"precis/backend/internal/logger"
	"precis/backend/internal/service"
)

// RequestLoggerMiddleware logs HTTP requests using logger.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			status := res.Status

			result := "ok"
			if status >= 400 {
				result = "failed"
			}
			args := []any{
				"module", "http",
				"action", "request",
				"resource", "http",
				"result", result,
				"method", req.Method,
				"path", req.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", res.Size,
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}

			switch {
			case status >= 500:
				logger.Error("http request", args...)
			case status >= 400:
				logger.Warn("http request", args...)
			default:
				logger.Debug("http request", args...)
			}

			return nil
		}
	}
}

// JWTAuthMiddleware creates a middleware that validates admin tokens.
// It checks the Authorization header first, then the auth cookie.
func JWTAuthMiddleware(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					token = strings.TrimSpace(parts[1])
				}
			}
			if token == "" {
				if cookie, err := c.Cookie(handler.AuthCookieName); err == nil && cookie.Value != "" {
					token = cookie.Value
				}
			}

			if token == "" {
				logAuthFailure(c, "auth missing")
				return c.JSON(nethttp.StatusUnauthorized, map[string]string{
					"error": "missing authentication",
					"kind":  handler.KindUnauthorized,
				})
			}

			valid, err := authService.ValidateToken(c.Request().Context(), token)
			if errors.Is(err, service.ErrAdminDisabled) {
				logAuthFailure(c, "admin api disabled")
				return c.JSON(nethttp.StatusForbidden, map[string]string{
					"error": err.Error(),
					"kind":  handler.KindAdminDisabled,
				})
			}
			if err != nil || !valid {
				logAuthFailure(c, "auth invalid")
				return c.JSON(nethttp.StatusUnauthorized, map[string]string{
					"error": "invalid token",
					"kind":  handler.KindUnauthorized,
				})
			}

			return next(c)
		}
	}
}

func logAuthFailure(c echo.Context, msg string) {
	logger.Warn(msg,
		"module", "http",
		"action", "request",
		"resource", "auth",
		"result", "failed",
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"remote_ip", c.RealIP(),
	)
}
