package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"precis/backend/internal/logger"
	"precis/backend/internal/model"
	"precis/backend/internal/repository"
	"precis/backend/internal/service/inference"
)

// ModelService owns the process-wide model handle. The model is loaded
// once and reused by every request until Load is called again.
type ModelService interface {
	// Load resolves the configured model and replaces the current handle.
	// The error matches ErrModelLoad on failure. A previously loaded handle
	// keeps serving; with none the service stays degraded.
	Load(ctx context.Context) (model.ModelStatus, error)
	// Status returns the current load state.
	Status() model.ModelStatus
	// Model returns the loaded handle, or a ModelLoadError when none is ready.
	Model() (inference.Model, error)
	// Config returns the environment defaults overlaid with stored settings.
	Config(ctx context.Context) (inference.Config, error)
}

type modelService struct {
	defaults inference.Config
	settings repository.SettingsRepository
	loader   inference.Loader

	loadMu  sync.Mutex // serialises Load calls
	mu      sync.RWMutex
	current inference.Model
	status  model.ModelStatus
}

// NewModelService creates a model service. defaults come from the
// environment; stored settings override them. A nil loader uses inference.Load.
func NewModelService(defaults inference.Config, settings repository.SettingsRepository, loader inference.Loader) ModelService {
	if loader == nil {
		loader = inference.Load
	}
	return &modelService{
		defaults: defaults,
		settings: settings,
		loader:   loader,
		status: model.ModelStatus{
			State:   model.ModelLoading,
			Backend: defaults.Backend,
			ModelID: defaults.ModelID,
		},
	}
}

func (s *modelService) Config(ctx context.Context) (inference.Config, error) {
	cfg := s.defaults

	settings, err := s.settings.GetByPrefix(ctx, settingsPrefixModel)
	if err != nil {
		return cfg, fmt.Errorf("get model settings: %w", err)
	}
	for _, st := range settings {
		if st.Value == "" {
			continue
		}
		switch st.Key {
		case KeyModelBackend:
			cfg.Backend = st.Value
		case KeyModelID:
			cfg.ModelID = st.Value
		case KeyModelAPIKey:
			cfg.APIKey = st.Value
		case KeyModelBaseURL:
			cfg.BaseURL = st.Value
		}
	}
	return cfg, nil
}

func (s *modelService) Load(ctx context.Context) (model.ModelStatus, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	cfg, err := s.Config(ctx)
	if err != nil {
		return s.fail(cfg, err), &ModelLoadError{Backend: cfg.Backend, ModelID: cfg.ModelID, Err: err}
	}

	s.mu.Lock()
	if s.current == nil {
		s.status = model.ModelStatus{State: model.ModelLoading, Backend: cfg.Backend, ModelID: cfg.ModelID}
	}
	s.mu.Unlock()

	logger.Info("model loading", "module", "service", "action", "load", "resource", "model", "result", "ok", "backend", cfg.Backend, "model", cfg.ModelID)
	start := time.Now()

	m, err := s.loader(ctx, cfg)
	if err != nil {
		logger.Error("model load failed", "module", "service", "action", "load", "resource", "model", "result", "failed", "backend", cfg.Backend, "model", cfg.ModelID, "error", err)
		return s.fail(cfg, err), &ModelLoadError{Backend: cfg.Backend, ModelID: cfg.ModelID, Err: err}
	}

	loadedAt := time.Now()
	status := model.ModelStatus{
		State:    model.ModelReady,
		Backend:  m.Backend(),
		ModelID:  m.ID(),
		Revision: revisionOf(m),
		LoadedAt: &loadedAt,
	}

	s.mu.Lock()
	s.current = m
	s.status = status
	s.mu.Unlock()

	logger.Info("model loaded", "module", "service", "action", "load", "resource", "model", "result", "ok", "backend", status.Backend, "model", status.ModelID, "duration_ms", time.Since(start).Milliseconds())
	return status, nil
}

// fail records a load error. The last good handle, if any, stays in service.
func (s *modelService) fail(cfg inference.Config, err error) model.ModelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.status.Error = err.Error()
		return s.status
	}
	s.status = model.ModelStatus{
		State:   model.ModelFailed,
		Backend: cfg.Backend,
		ModelID: cfg.ModelID,
		Error:   err.Error(),
	}
	return s.status
}

func revisionOf(m inference.Model) string {
	if hf, ok := m.(*inference.HuggingFaceModel); ok {
		return hf.Info().SHA
	}
	return ""
}

func (s *modelService) Status() model.ModelStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *modelService) Model() (inference.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		reason := s.status.Error
		if reason == "" {
			reason = "model is " + string(s.status.State)
		}
		return nil, &ModelLoadError{Backend: s.status.Backend, ModelID: s.status.ModelID, Err: fmt.Errorf("%s", reason)}
	}
	return s.current, nil
}
