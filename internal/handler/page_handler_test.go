package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPage_Index(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	require.Contains(t, html, "AI-Powered Text Summarizer")
	require.Contains(t, html, "Model loaded successfully!")
	require.Contains(t, html, "Summarize long texts quickly and efficiently.")
	require.NotContains(t, html, `id="download"`)
}

func TestPage_IndexModelFailed(t *testing.T) {
	f := newFixture(t, errHubDown)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Error loading model: hub unreachable")
	require.Contains(t, rec.Body.String(), `id="generate" disabled`)
}

func TestPage_SubmitTyped(t *testing.T) {
	f := newFixture(t, nil)
	f.model.EXPECT().Summarize(gomock.Any(), foxText, gomock.Any()).Return("A fox ran into the forest.", nil)
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	req := multipartRequest(t, "/", map[string]string{"mode": "typed", "text": foxText}, "", nil)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	require.Contains(t, html, "Generated Summary")
	require.Contains(t, html, "A fox ran into the forest.")
	require.Contains(t, html, `id="download"`)
}

func TestPage_SubmitEmptyShowsWarningWithoutDownload(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartRequest(t, "/", map[string]string{"mode": "typed", "text": "  "}, "", nil)
	rec := f.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	html := rec.Body.String()
	require.Contains(t, html, "Please enter some text or upload a file to summarize!")
	require.NotContains(t, html, `id="download"`)
	require.NotContains(t, html, "Generated Summary")
}

func TestPage_SubmitUploadShowsFileContent(t *testing.T) {
	f := newFixture(t, nil)
	f.model.EXPECT().Summarize(gomock.Any(), "File body text.", gomock.Any()).Return("Body.", nil)
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	req := multipartRequest(t, "/", map[string]string{"mode": "uploaded"}, "notes.txt", []byte("File body text."))
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	require.Contains(t, html, "File Content (notes.txt)")
	require.Contains(t, html, `value="uploaded" checked`)
	require.Contains(t, html, "Body.")
}

func TestPage_SubmitDecodeFailure(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartRequest(t, "/", map[string]string{"mode": "uploaded"}, "bad.txt", []byte{0xc3, 0x28})
	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "bad.txt is not valid UTF-8 text")
}

func TestPage_Download(t *testing.T) {
	f := newFixture(t, nil)

	form := url.Values{"summary": {"First line.\r\nSecond line."}}
	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="summary.txt"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, "First line.\nSecond line.", rec.Body.String())
}

func TestPage_DownloadEmptyRedirects(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := f.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
}
