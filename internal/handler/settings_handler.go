package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

// Request/Response types

type modelSettingsResponse struct {
	Backend string `json:"backend"`
	ModelID string `json:"modelId"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

type modelSettingsRequest struct {
	Backend string `json:"backend"`
	ModelID string `json:"modelId"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

type modelTestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// RegisterProtectedRoutes registers routes behind the admin middleware m.
func (h *SettingsHandler) RegisterProtectedRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.GET("/settings/model", h.GetModelSettings, m...)
	g.PUT("/settings/model", h.UpdateModelSettings, m...)
	g.POST("/settings/model/test", h.TestModel, m...)
}

// GetModelSettings returns the model configuration.
// @Summary Get model settings
// @Description Get the effective model configuration with the API key masked
// @Tags settings
// @Produce json
// @Success 200 {object} modelSettingsResponse
// @Failure 500 {object} errorResponse
// @Security BearerAuth
// @Failure 401 {object} errorResponse
// @Router /settings/model [get]
func (h *SettingsHandler) GetModelSettings(c echo.Context) error {
	settings, err := h.service.GetModelSettings(c.Request().Context())
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get settings", Kind: KindInternal})
	}

	return c.JSON(http.StatusOK, modelSettingsResponse{
		Backend: settings.Backend,
		ModelID: settings.ModelID,
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
	})
}

// UpdateModelSettings updates the model configuration.
// @Summary Update model settings
// @Description Store model overrides. Empty apiKey keeps the existing key. Takes effect on the next reload.
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body modelSettingsRequest true "Model settings"
// @Success 200 {object} modelSettingsResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Security BearerAuth
// @Failure 401 {object} errorResponse
// @Router /settings/model [put]
func (h *SettingsHandler) UpdateModelSettings(c echo.Context) error {
	var req modelSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Kind: KindInvalid})
	}

	err := h.service.SetModelSettings(c.Request().Context(), &service.ModelSettings{
		Backend: req.Backend,
		ModelID: req.ModelID,
		APIKey:  req.APIKey,
		BaseURL: req.BaseURL,
	})
	if errors.Is(err, service.ErrInvalid) {
		return writeServiceError(c, err)
	}
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save settings", Kind: KindInternal})
	}

	// Return updated settings (with masked key)
	return h.GetModelSettings(c)
}

// TestModel loads a model configuration and summarizes a sample.
// @Summary Test model settings
// @Description Load the given configuration without saving it and summarize a short sample
// @Tags settings
// @Accept json
// @Produce json
// @Param config body modelSettingsRequest true "Model configuration"
// @Success 200 {object} modelTestResponse
// @Failure 400 {object} errorResponse
// @Security BearerAuth
// @Failure 401 {object} errorResponse
// @Router /settings/model/test [post]
func (h *SettingsHandler) TestModel(c echo.Context) error {
	var req modelSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Kind: KindInvalid})
	}

	out, err := h.service.TestModel(c.Request().Context(), &service.ModelSettings{
		Backend: req.Backend,
		ModelID: req.ModelID,
		APIKey:  req.APIKey,
		BaseURL: req.BaseURL,
	})
	if err != nil {
		return c.JSON(http.StatusOK, modelTestResponse{Success: false, Error: err.Error()})
	}
	return c.JSON(http.StatusOK, modelTestResponse{Success: true, Message: out})
}
