package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/service"
)

// Error kinds reported next to the message.
const (
	KindEmptyInput       = "empty_input"
	KindDecodeFailure    = "decode_failure"
	KindInvalid          = "invalid"
	KindModelLoadFailure = "model_load_failure"
	KindGeneration       = "generation_failure"
	KindInternal         = "internal"
)

// EmptyInputMessage is shown when there is nothing to summarize.
const EmptyInputMessage = "Please enter some text or upload a file to summarize!"

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// classifyError maps a service error to a status, kind and user-facing message.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return http.StatusUnprocessableEntity, KindEmptyInput, EmptyInputMessage
	case errors.Is(err, service.ErrDecode):
		return http.StatusBadRequest, KindDecodeFailure, err.Error()
	case errors.Is(err, service.ErrInvalid):
		return http.StatusBadRequest, KindInvalid, err.Error()
	case errors.Is(err, service.ErrModelLoad):
		return http.StatusServiceUnavailable, KindModelLoadFailure, err.Error()
	case errors.Is(err, service.ErrGeneration):
		return http.StatusBadGateway, KindGeneration, err.Error()
	default:
		return http.StatusInternalServerError, KindInternal, "internal error"
	}
}

func writeServiceError(c echo.Context, err error) error {
	status, kind, msg := classifyError(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, errorResponse{Error: msg, Kind: kind})
}
