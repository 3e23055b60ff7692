package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"precis/backend/internal/model"
	"precis/backend/internal/service/inference"
)

func decodeJSON(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestSummarize_TypedJSON(t *testing.T) {
	f := newFixture(t, nil)
	f.model.EXPECT().Summarize(gomock.Any(), foxText, inference.DefaultOptions).Return("A fox ran into the forest.", nil)
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1234567890123), nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summarize", `{"mode":"typed","text":"`+foxText+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec.Body.Bytes())
	require.Equal(t, "A fox ran into the forest.", body["summary"])
	require.Equal(t, "facebook/bart-large-cnn", body["modelId"])
	require.Equal(t, false, body["truncated"])
	require.Equal(t, "1234567890123", body["runId"])
	download := body["download"].(map[string]any)
	require.Equal(t, "summary.txt", download["fileName"])
	require.Equal(t, "text/plain", download["mimeType"])
}

func TestSummarize_EmptyInput(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summarize", `{"mode":"typed","text":"   \n "}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeJSON(t, rec.Body.Bytes())
	require.Equal(t, "empty_input", body["kind"])
	require.Equal(t, "Please enter some text or upload a file to summarize!", body["error"])
}

func TestSummarize_UploadedMultipart(t *testing.T) {
	f := newFixture(t, nil)
	content := "Ünïcödé article body. It has two sentences."
	f.model.EXPECT().Summarize(gomock.Any(), content, gomock.Any()).Return("An article.", nil)
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, run model.SummaryRun) (int64, error) {
			require.Equal(t, model.InputUploaded, run.Mode)
			return 1, nil
		},
	)

	req := multipartRequest(t, "/api/summarize", map[string]string{"mode": "uploaded"}, "article.txt", []byte(content))
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "An article.", decodeJSON(t, rec.Body.Bytes())["summary"])
}

func TestSummarize_UploadedInvalidUTF8(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartRequest(t, "/api/summarize", map[string]string{"mode": "uploaded"}, "bad.txt", []byte{0xff, 0xfe, 'x'})
	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "decode_failure", decodeJSON(t, rec.Body.Bytes())["kind"])
}

func TestSummarize_UploadedWrongExtension(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartRequest(t, "/api/summarize", map[string]string{"mode": "uploaded"}, "doc.md", []byte("# hi"))
	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", decodeJSON(t, rec.Body.Bytes())["kind"])
}

func TestSummarize_UploadedNoFileIsEmpty(t *testing.T) {
	f := newFixture(t, nil)

	req := multipartRequest(t, "/api/summarize", map[string]string{"mode": "uploaded"}, "", nil)
	rec := f.do(req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSummarize_UnknownMode(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summarize", `{"mode":"speech","text":"hi"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", decodeJSON(t, rec.Body.Bytes())["kind"])
}

func TestSummarize_ModelLoadFailure(t *testing.T) {
	f := newFixture(t, errHubDown)
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summarize", `{"text":"`+foxText+`"}`))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decodeJSON(t, rec.Body.Bytes())
	require.Equal(t, "model_load_failure", body["kind"])
	require.Contains(t, body["error"], "hub unreachable")
}

func TestSummarize_GenerationFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.model.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("inference HTTP 500: boom"))
	f.runs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(1), nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summarize", `{"text":"`+foxText+`"}`))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	body := decodeJSON(t, rec.Body.Bytes())
	require.Equal(t, "generation_failure", body["kind"])
	require.Equal(t, "error during summarization: inference HTTP 500: boom", body["error"])
}

func TestDownload_ExactArtifact(t *testing.T) {
	f := newFixture(t, nil)
	summary := "Line one.\nÜnïcödé \"quoted\" line two."

	payload, err := json.Marshal(map[string]string{"summary": summary})
	require.NoError(t, err)
	rec := f.do(jsonRequest(http.MethodPost, "/api/summary/download", string(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="summary.txt"`, rec.Header().Get("Content-Disposition"))
	require.Equal(t, summary, rec.Body.String())
}

func TestDownload_EmptySummary(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(jsonRequest(http.MethodPost, "/api/summary/download", `{"summary":""}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRuns(t *testing.T) {
	f := newFixture(t, nil)
	msg := "error during summarization: boom"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.runs.EXPECT().ListRecent(gomock.Any(), 2).Return([]model.SummaryRun{
		{ID: 2, Mode: model.InputTyped, Status: model.RunStatusFailed, ErrorMessage: &msg, CreatedAt: created},
		{ID: 1, Mode: model.InputUploaded, Status: model.RunStatusOK, Truncated: true, CreatedAt: created},
	}, nil)

	rec := f.do(jsonRequest(http.MethodGet, "/api/runs?limit=2", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 2)
	require.Equal(t, "2", runs[0]["id"])
	require.Equal(t, msg, runs[0]["error"])
	require.Equal(t, "2026-01-02T03:04:05Z", runs[0]["createdAt"])
	require.Equal(t, true, runs[1]["truncated"])
	require.NotContains(t, runs[1], "error")
}

func TestListRuns_InvalidLimit(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(jsonRequest(http.MethodGet, "/api/runs?limit=abc", ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
