package handler_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"precis/backend/internal/handler"
	"precis/backend/internal/repository/mock"
	"precis/backend/internal/service"
	"precis/backend/internal/service/inference"
	inferencemock "precis/backend/internal/service/inference/mock"
	"precis/backend/internal/tokenizer"
	"precis/backend/internal/web"
)

const foxText = "The quick brown fox jumps over the lazy dog. The dog did not react, and the fox ran into the forest."

type fixture struct {
	e        *echo.Echo
	model    *inferencemock.MockModel
	runs     *mock.MockSummaryRunRepository
	settings *mock.MockSettingsRepository
}

// newFixture wires real services over mocked storage and a mocked model.
// A non-nil loadErr leaves the model in the failed state.
func newFixture(t *testing.T, loadErr error) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	runs := mock.NewMockSummaryRunRepository(ctrl)

	m := inferencemock.NewMockModel(ctrl)
	m.EXPECT().Backend().Return(inference.BackendHuggingFace).AnyTimes()
	m.EXPECT().ID().Return("facebook/bart-large-cnn").AnyTimes()

	loader := func(context.Context, inference.Config) (inference.Model, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return m, nil
	}
	models := service.NewModelService(inference.Config{
		Backend: inference.BackendHuggingFace,
		ModelID: "facebook/bart-large-cnn",
	}, settings, loader)
	_, _ = models.Load(context.Background())

	inputs := service.NewInputService(1 << 20)
	summaries := service.NewSummarizeService(models, runs, tokenizer.New(), inference.NewThrottle(1, 100))

	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	pageCopy, err := web.LoadCopy()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	handler.NewPageHandler(inputs, summaries, models, pageCopy).RegisterRoutes(e)
	api := e.Group("/api")
	handler.NewSummarizeHandler(inputs, summaries).RegisterRoutes(api)
	modelHandler := handler.NewModelHandler(models)
	modelHandler.RegisterPublicRoutes(api)
	modelHandler.RegisterProtectedRoutes(api)
	handler.NewSettingsHandler(service.NewSettingsService(settings, models, loader)).RegisterProtectedRoutes(api)

	return &fixture{e: e, model: m, runs: runs, settings: settings}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	return serve(f.e, req)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// multipartRequest builds a form post; an empty fileName omits the file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

var errHubDown = errors.New("hub unreachable")

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
