package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/service"
)

// AuthCookieName is the cookie that carries the admin token for browsers.
const AuthCookieName = "precis_auth"

// Auth error kinds
const (
	KindUnauthorized  = "unauthorized"
	KindAdminDisabled = "admin_disabled"
)

type AuthHandler struct {
	service service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPublicRoutes registers routes that don't require authentication.
func (h *AuthHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
}

// Login authenticates the operator.
// @Summary Login
// @Description Exchange the admin credentials for a bearer token used by the settings and reload endpoints
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 200 {object} loginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Kind: KindInvalid})
	}

	resp, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrAdminDisabled):
		return c.JSON(http.StatusForbidden, errorResponse{Error: err.Error(), Kind: KindAdminDisabled})
	case errors.Is(err, service.ErrInvalidPassword):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: KindUnauthorized})
	case err != nil:
		return writeServiceError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    resp.Token,
		Path:     "/api",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, loginResponse{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
