package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/model"
	"precis/backend/internal/service"
)

type SummarizeHandler struct {
	inputs    service.InputService
	summaries service.SummarizeService
}

// Request/Response types

type summarizeRequest struct {
	Mode string `json:"mode" example:"typed"`
	Text string `json:"text"`
}

type downloadInfo struct {
	FileName string `json:"fileName" example:"summary.txt"`
	MIMEType string `json:"mimeType" example:"text/plain"`
	URL      string `json:"url" example:"/api/summary/download"`
}

type summarizeResponse struct {
	Summary     string       `json:"summary"`
	Backend     string       `json:"backend"`
	ModelID     string       `json:"modelId"`
	InputTokens int          `json:"inputTokens"`
	Truncated   bool         `json:"truncated"`
	RunID       string       `json:"runId,omitempty"`
	Download    downloadInfo `json:"download"`
}

type downloadRequest struct {
	Summary string `json:"summary"`
}

type runResponse struct {
	ID          string  `json:"id"`
	Mode        string  `json:"mode"`
	Backend     string  `json:"backend"`
	ModelID     string  `json:"modelId"`
	InputChars  int     `json:"inputChars"`
	InputTokens int     `json:"inputTokens"`
	Truncated   bool    `json:"truncated"`
	OutputChars int     `json:"outputChars"`
	Status      string  `json:"status"`
	Error       *string `json:"error,omitempty"`
	DurationMS  int64   `json:"durationMs"`
	CreatedAt   string  `json:"createdAt"`
}

func NewSummarizeHandler(inputs service.InputService, summaries service.SummarizeService) *SummarizeHandler {
	return &SummarizeHandler{inputs: inputs, summaries: summaries}
}

func (h *SummarizeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/summarize", h.Summarize)
	g.POST("/summary/download", h.Download)
	g.GET("/runs", h.ListRuns)
}

// Summarize summarizes typed or uploaded text.
// @Summary Summarize text
// @Description Summarize typed text (JSON) or an uploaded .txt file (multipart, mode=uploaded). Input beyond 1024 tokens is truncated and reported.
// @Tags summary
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param request body summarizeRequest false "Typed input"
// @Param mode formData string false "typed or uploaded"
// @Param file formData file false "UTF-8 .txt file"
// @Success 200 {object} summarizeResponse
// @Failure 400 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /summarize [post]
func (h *SummarizeHandler) Summarize(c echo.Context) error {
	mode, payload, cleanup, err := readSubmission(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	defer cleanup()

	input, err := h.inputs.Acquire(mode, payload)
	if err != nil {
		return writeServiceError(c, err)
	}

	summary, err := h.summaries.Summarize(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, newSummarizeResponse(summary))
}

// Download returns a summary as summary.txt.
// @Summary Download summary
// @Description Return the given summary as a text/plain attachment named summary.txt
// @Tags summary
// @Accept json
// @Produce plain
// @Param request body downloadRequest true "Summary to download"
// @Success 200 {string} string "summary.txt"
// @Failure 400 {object} errorResponse
// @Router /summary/download [post]
func (h *SummarizeHandler) Download(c echo.Context) error {
	var req downloadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request", Kind: KindInvalid})
	}
	if req.Summary == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "summary is required", Kind: KindInvalid})
	}
	return writeArtifact(c, service.DownloadArtifact(req.Summary))
}

// ListRuns returns recent summarization metadata.
// @Summary List runs
// @Description List recent summarization runs, newest first. Texts are never stored.
// @Tags summary
// @Produce json
// @Param limit query int false "Maximum number of runs (default 50)"
// @Success 200 {array} runResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /runs [get]
func (h *SummarizeHandler) ListRuns(c echo.Context) error {
	limit, err := parseLimitParam(c, 50)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit", Kind: KindInvalid})
	}

	runs, err := h.summaries.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	resp := make([]runResponse, 0, len(runs))
	for _, r := range runs {
		resp = append(resp, runResponse{
			ID:          idToString(r.ID),
			Mode:        string(r.Mode),
			Backend:     r.Backend,
			ModelID:     r.ModelID,
			InputChars:  r.InputChars,
			InputTokens: r.InputTokens,
			Truncated:   r.Truncated,
			OutputChars: r.OutputChars,
			Status:      r.Status,
			Error:       r.ErrorMessage,
			DurationMS:  r.DurationMS,
			CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func newSummarizeResponse(s *model.Summary) summarizeResponse {
	resp := summarizeResponse{
		Summary:     s.Text,
		Backend:     s.Backend,
		ModelID:     s.ModelID,
		InputTokens: s.InputTokens,
		Truncated:   s.Truncated,
		Download: downloadInfo{
			FileName: service.ArtifactFileName,
			MIMEType: service.ArtifactMIMEType,
			URL:      "/api/summary/download",
		},
	}
	if s.RunID != 0 {
		resp.RunID = idToString(s.RunID)
	}
	return resp
}

// writeArtifact sends an artifact as an attachment with its exact bytes.
func writeArtifact(c echo.Context, a service.Artifact) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+a.FileName+`"`)
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	return c.Blob(http.StatusOK, a.MIMEType+"; charset=utf-8", a.Body)
}

// readSubmission extracts the input mode and payload from a JSON or
// multipart request. cleanup closes any opened upload.
func readSubmission(c echo.Context) (model.InputMode, service.InputPayload, func(), error) {
	noop := func() {}
	ctype := c.Request().Header.Get(echo.HeaderContentType)

	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) || strings.HasPrefix(ctype, echo.MIMEApplicationForm) {
		return readForm(c)
	}

	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return "", service.InputPayload{}, noop, service.ErrInvalid
	}
	if req.Mode == "" {
		req.Mode = string(model.InputTyped)
	}
	mode, err := service.ParseInputMode(req.Mode)
	if err != nil {
		return "", service.InputPayload{}, noop, err
	}
	if mode == model.InputUploaded {
		return "", service.InputPayload{}, noop, fmt.Errorf("%w: uploads must be sent as multipart/form-data", service.ErrInvalid)
	}
	return mode, service.InputPayload{Text: req.Text}, noop, nil
}

func readForm(c echo.Context) (model.InputMode, service.InputPayload, func(), error) {
	noop := func() {}

	rawMode := c.FormValue("mode")
	if rawMode == "" {
		rawMode = string(model.InputTyped)
	}
	mode, err := service.ParseInputMode(rawMode)
	if err != nil {
		return "", service.InputPayload{}, noop, err
	}

	if mode == model.InputTyped {
		return mode, service.InputPayload{Text: c.FormValue("text")}, noop, nil
	}

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return mode, service.InputPayload{}, noop, nil
	}
	if err != nil {
		return "", service.InputPayload{}, noop, fmt.Errorf("%w: %v", service.ErrInvalid, err)
	}
	// Browsers submit an empty part when no file was picked.
	if fh.Filename == "" && fh.Size == 0 {
		return mode, service.InputPayload{}, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", service.InputPayload{}, noop, fmt.Errorf("%w: %v", service.ErrInvalid, err)
	}
	return mode, service.InputPayload{FileName: fh.Filename, File: f}, closeFile(f), nil
}

func closeFile(f multipart.File) func() {
	return func() { _ = f.Close() }
}
