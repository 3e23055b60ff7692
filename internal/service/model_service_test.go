package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"precis/backend/internal/model"
	"precis/backend/internal/repository/mock"
	"precis/backend/internal/service"
	"precis/backend/internal/service/inference"
	inferencemock "precis/backend/internal/service/inference/mock"
)

var defaultModelConfig = inference.Config{
	Backend: inference.BackendHuggingFace,
	ModelID: "facebook/bart-large-cnn",
}

func TestModelService_LoadReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), "model.").Return(nil, nil)

	m := inferencemock.NewMockModel(ctrl)
	m.EXPECT().Backend().Return(inference.BackendHuggingFace).AnyTimes()
	m.EXPECT().ID().Return("facebook/bart-large-cnn").AnyTimes()

	var loaded inference.Config
	svc := service.NewModelService(defaultModelConfig, settings, func(_ context.Context, cfg inference.Config) (inference.Model, error) {
		loaded = cfg
		return m, nil
	})

	require.Equal(t, model.ModelLoading, svc.Status().State)
	_, err := svc.Model()
	require.ErrorIs(t, err, service.ErrModelLoad)

	status, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.True(t, status.Ready())
	require.NotNil(t, status.LoadedAt)
	require.Equal(t, "facebook/bart-large-cnn", loaded.ModelID)

	got, err := svc.Model()
	require.NoError(t, err)
	require.Same(t, m, got)
}

func TestModelService_LoadFailureIsDegraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, nil)

	svc := service.NewModelService(defaultModelConfig, settings, func(context.Context, inference.Config) (inference.Model, error) {
		return nil, errors.New("hub unreachable")
	})

	status, err := svc.Load(context.Background())
	require.ErrorIs(t, err, service.ErrModelLoad)
	require.Contains(t, err.Error(), "error loading model facebook/bart-large-cnn")
	require.Contains(t, err.Error(), "hub unreachable")
	require.Equal(t, model.ModelFailed, status.State)
	require.Equal(t, "hub unreachable", status.Error)

	_, err = svc.Model()
	require.ErrorIs(t, err, service.ErrModelLoad)
	require.Contains(t, err.Error(), "hub unreachable")
}

func TestModelService_ReloadRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	m := inferencemock.NewMockModel(ctrl)
	m.EXPECT().Backend().Return(inference.BackendHuggingFace).AnyTimes()
	m.EXPECT().ID().Return("facebook/bart-large-cnn").AnyTimes()

	calls := 0
	svc := service.NewModelService(defaultModelConfig, settings, func(context.Context, inference.Config) (inference.Model, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("timeout")
		}
		return m, nil
	})

	_, err := svc.Load(context.Background())
	require.Error(t, err)

	status, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.True(t, status.Ready())
	require.Empty(t, status.Error)
}

func TestModelService_SettingsOverrideDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), "model.").Return([]model.Setting{
		{Key: service.KeyModelBackend, Value: inference.BackendOpenAI},
		{Key: service.KeyModelID, Value: "gpt-4o-mini"},
		{Key: service.KeyModelAPIKey, Value: "sk-secret"},
		{Key: service.KeyModelBaseURL, Value: ""},
	}, nil)

	svc := service.NewModelService(defaultModelConfig, settings, nil)
	cfg, err := svc.Config(context.Background())
	require.NoError(t, err)
	require.Equal(t, inference.BackendOpenAI, cfg.Backend)
	require.Equal(t, "gpt-4o-mini", cfg.ModelID)
	require.Equal(t, "sk-secret", cfg.APIKey)
	require.Empty(t, cfg.BaseURL, "empty stored values keep the default")
}

func TestModelService_SettingsErrorFailsLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, errors.New("db closed"))

	svc := service.NewModelService(defaultModelConfig, settings, func(context.Context, inference.Config) (inference.Model, error) {
		t.Fatal("loader must not run")
		return nil, nil
	})

	status, err := svc.Load(context.Background())
	require.ErrorIs(t, err, service.ErrModelLoad)
	require.Equal(t, model.ModelFailed, status.State)
}

func TestModelService_FailedReloadKeepsServing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	m := inferencemock.NewMockModel(ctrl)
	m.EXPECT().Backend().Return(inference.BackendHuggingFace).AnyTimes()
	m.EXPECT().ID().Return("facebook/bart-large-cnn").AnyTimes()

	calls := 0
	var svc service.ModelService
	svc = service.NewModelService(defaultModelConfig, settings, func(context.Context, inference.Config) (inference.Model, error) {
		calls++
		if calls == 2 {
			// A reload in progress must not take the current model offline.
			require.True(t, svc.Status().Ready())
			return nil, errors.New("hub unreachable")
		}
		return m, nil
	})

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	status, err := svc.Load(context.Background())
	require.ErrorIs(t, err, service.ErrModelLoad)
	require.True(t, status.Ready())
	require.Equal(t, "hub unreachable", status.Error)

	got, err := svc.Model()
	require.NoError(t, err)
	require.Same(t, m, got)
}

func TestModelService_ReportsHubRevision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().GetByPrefix(gomock.Any(), gomock.Any()).Return(nil, nil)

	hub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/models/facebook/bart-large-cnn", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"facebook/bart-large-cnn","pipeline_tag":"summarization","sha":"3d22493"}`))
	}))
	defer hub.Close()

	cfg := defaultModelConfig
	cfg.HubURL = hub.URL
	cfg.InferenceURL = hub.URL
	cfg.HTTPClient = hub.Client()

	status, err := service.NewModelService(cfg, settings, nil).Load(context.Background())
	require.NoError(t, err)
	require.True(t, status.Ready())
	require.Equal(t, "3d22493", status.Revision)
}
