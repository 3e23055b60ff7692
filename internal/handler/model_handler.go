package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/model"
	"precis/backend/internal/service"
)

type ModelHandler struct {
	service service.ModelService
}

type modelStatusResponse struct {
	State    string  `json:"state" example:"ready"`
	Backend  string  `json:"backend" example:"huggingface"`
	ModelID  string  `json:"modelId" example:"facebook/bart-large-cnn"`
	Revision string  `json:"revision,omitempty"`
	Error    string  `json:"error,omitempty"`
	LoadedAt *string `json:"loadedAt,omitempty"`
}

func NewModelHandler(service service.ModelService) *ModelHandler {
	return &ModelHandler{service: service}
}

func (h *ModelHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/model", h.Status)
}

// RegisterProtectedRoutes registers routes behind the admin middleware m.
func (h *ModelHandler) RegisterProtectedRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/model/reload", h.Reload, m...)
}

// Status returns the model load state.
// @Summary Get model status
// @Description Report whether the summarization model is loading, ready or failed
// @Tags model
// @Produce json
// @Success 200 {object} modelStatusResponse
// @Router /model [get]
func (h *ModelHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, newModelStatusResponse(h.service.Status()))
}

// Reload loads the model again with the current settings.
// @Summary Reload model
// @Description Resolve the configured model again. A failure leaves the service degraded.
// @Tags model
// @Produce json
// @Security BearerAuth
// @Success 200 {object} modelStatusResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /model/reload [post]
func (h *ModelHandler) Reload(c echo.Context) error {
	status, err := h.service.Load(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, newModelStatusResponse(status))
}

func newModelStatusResponse(s model.ModelStatus) modelStatusResponse {
	resp := modelStatusResponse{
		State:    string(s.State),
		Backend:  s.Backend,
		ModelID:  s.ModelID,
		Revision: s.Revision,
		Error:    s.Error,
	}
	if s.LoadedAt != nil {
		v := s.LoadedAt.UTC().Format(time.RFC3339)
		resp.LoadedAt = &v
	}
	return resp
}
