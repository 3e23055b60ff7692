package service

import (
	"context"
	"fmt"
	"strings"

	"precis/backend/internal/repository"
	"precis/backend/internal/service/inference"
)

// ModelSettings holds the stored model configuration.
type ModelSettings struct {
	Backend string `json:"backend"`
	ModelID string `json:"modelId"`
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

// Setting keys
const (
	settingsPrefixModel = "model."

	KeyModelBackend = "model.backend"
	KeyModelID      = "model.id"
	KeyModelAPIKey  = "model.api_key"
	KeyModelBaseURL = "model.base_url"
)

// testSample is summarized by TestModel.
const testSample = "The quick brown fox jumps over the lazy dog. The dog did not react, and the fox ran into the forest."

// SettingsService provides settings management.
type SettingsService interface {
	// GetModelSettings returns the effective model configuration with the API key masked.
	GetModelSettings(ctx context.Context) (*ModelSettings, error)
	// SetModelSettings stores the model configuration.
	// An empty or masked apiKey keeps the existing key.
	SetModelSettings(ctx context.Context, settings *ModelSettings) error
	// TestModel loads the given configuration and summarizes a short sample.
	// An empty or masked apiKey reuses the stored key only when backend and
	// base URL are unchanged.
	TestModel(ctx context.Context, settings *ModelSettings) (string, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	models ModelService
	loader inference.Loader
}

// NewSettingsService creates a new settings service. A nil loader uses inference.Load.
func NewSettingsService(repo repository.SettingsRepository, models ModelService, loader inference.Loader) SettingsService {
	if loader == nil {
		loader = inference.Load
	}
	return &settingsService{repo: repo, models: models, loader: loader}
}

func (s *settingsService) GetModelSettings(ctx context.Context) (*ModelSettings, error) {
	cfg, err := s.models.Config(ctx)
	if err != nil {
		return nil, err
	}
	return &ModelSettings{
		Backend: cfg.Backend,
		ModelID: cfg.ModelID,
		APIKey:  maskAPIKey(cfg.APIKey),
		BaseURL: cfg.BaseURL,
	}, nil
}

func (s *settingsService) SetModelSettings(ctx context.Context, settings *ModelSettings) error {
	backend := strings.TrimSpace(settings.Backend)
	if backend != "" && !inference.ValidBackend(backend) {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, backend)
	}

	values := map[string]string{
		KeyModelBaseURL: strings.TrimSpace(settings.BaseURL),
		KeyModelID:      strings.TrimSpace(settings.ModelID),
	}
	if backend != "" {
		values[KeyModelBackend] = backend
	}
	if settings.APIKey != "" && !isMaskedKey(settings.APIKey) {
		values[KeyModelAPIKey] = settings.APIKey
	}

	if err := s.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("set model settings: %w", err)
	}
	return nil
}

func (s *settingsService) TestModel(ctx context.Context, settings *ModelSettings) (string, error) {
	cfg, err := s.models.Config(ctx)
	if err != nil {
		return "", err
	}
	backend := strings.TrimSpace(settings.Backend)
	baseURL := strings.TrimSpace(settings.BaseURL)
	newKey := settings.APIKey != "" && !isMaskedKey(settings.APIKey)

	// The stored key only goes to the endpoint it was saved for.
	endpointChanged := (backend != "" && backend != cfg.Backend) || (baseURL != "" && baseURL != cfg.BaseURL)
	if endpointChanged && !newKey && cfg.APIKey != "" {
		return "", fmt.Errorf("%w: enter the API key to test a different backend or base URL", ErrInvalid)
	}

	if backend != "" {
		cfg.Backend = backend
	}
	if settings.ModelID != "" {
		cfg.ModelID = strings.TrimSpace(settings.ModelID)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if newKey {
		cfg.APIKey = settings.APIKey
	}

	m, err := s.loader(ctx, cfg)
	if err != nil {
		return "", &ModelLoadError{Backend: cfg.Backend, ModelID: cfg.ModelID, Err: err}
	}

	out, err := m.Summarize(ctx, testSample, inference.DefaultOptions)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return out, nil
}

// maskAPIKey returns a masked version of the API key for display.
func maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	// Keep a short vendor prefix such as "sk-" or "hf_".
	prefixEnd := 0
	for i, c := range apiKey {
		if c == '-' || c == '_' {
			prefixEnd = i + 1
			break
		}
		if i >= 4 {
			break
		}
	}
	return apiKey[:prefixEnd] + "***" + apiKey[len(apiKey)-3:]
}

// isMaskedKey checks if a string looks like a masked API key.
func isMaskedKey(key string) bool {
	if len(key) == 0 || len(key) >= 20 {
		return false
	}
	return strings.Contains(key, "***")
}
