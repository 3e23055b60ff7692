package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"precis/backend/internal/model"
	"precis/backend/internal/service"
	"precis/backend/internal/web"
)

const pageTitle = "Text Summarizer"

// PageHandler serves the server-rendered summarizer page.
type PageHandler struct {
	inputs    service.InputService
	summaries service.SummarizeService
	models    service.ModelService
	copy      web.Copy
}

func NewPageHandler(inputs service.InputService, summaries service.SummarizeService, models service.ModelService, pageCopy web.Copy) *PageHandler {
	return &PageHandler{inputs: inputs, summaries: summaries, models: models, copy: pageCopy}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/", h.Submit)
	e.POST("/download", h.Download)
}

// Index renders the empty page.
func (h *PageHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageTemplate, h.page(string(model.InputTyped)))
}

// Submit runs one summarization from the form and re-renders the page.
func (h *PageHandler) Submit(c echo.Context) error {
	data := h.page(c.FormValue("mode"))
	data.Text = c.FormValue("text")

	mode, payload, cleanup, err := readForm(c)
	if err != nil {
		return h.renderError(c, data, err)
	}
	defer cleanup()

	input, err := h.inputs.Acquire(mode, payload)
	if err != nil {
		return h.renderError(c, data, err)
	}
	if input.Mode == model.InputUploaded {
		data.FileName = input.FileName
		data.FileContent = input.Text
	}

	summary, err := h.summaries.Summarize(c.Request().Context(), input)
	if err != nil {
		return h.renderError(c, data, err)
	}

	data.Summary = summary.Text
	data.Truncated = summary.Truncated
	return c.Render(http.StatusOK, web.PageTemplate, data)
}

// Download returns the posted summary as summary.txt.
func (h *PageHandler) Download(c echo.Context) error {
	// Browsers submit form newlines as CRLF.
	summary := strings.ReplaceAll(c.FormValue("summary"), "\r\n", "\n")
	if summary == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return writeArtifact(c, service.DownloadArtifact(summary))
}

func (h *PageHandler) page(mode string) web.PageData {
	status := h.models.Status()
	if mode != string(model.InputUploaded) {
		mode = string(model.InputTyped)
	}
	return web.PageData{
		Title: pageTitle,
		Copy:  h.copy,
		Model: web.ModelView{
			State:   string(status.State),
			Backend: status.Backend,
			ModelID: status.ModelID,
			Error:   status.Error,
			Ready:   status.Ready(),
		},
		Mode:       mode,
		AllowedExt: service.AllowedUploadExt,
	}
}

// renderError shows err on the page. The empty-input case is a warning,
// not an error.
func (h *PageHandler) renderError(c echo.Context, data web.PageData, err error) error {
	status, _, msg := classifyError(err)
	if errors.Is(err, service.ErrEmptyInput) {
		data.Warning = msg
	} else {
		data.Error = msg
	}
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.Render(status, web.PageTemplate, data)
}
