package inference

//go:generate mockgen -destination=mock/mock_model.go -package=mock precis/backend/internal/service/inference Model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Model is a loaded summarization model. Implementations are safe for
// concurrent use.
type Model interface {
	// Backend returns the backend name (huggingface, openai, ...).
	Backend() string
	// ID returns the model identifier the handle was resolved from.
	ID() string
	// Summarize generates one summary of text.
	Summarize(ctx context.Context, text string, opts Options) (string, error)
}

// Config holds everything needed to resolve a model.
type Config struct {
	Backend      string // huggingface, openai, anthropic, compatible
	ModelID      string
	APIKey       string // HF token or LLM API key
	BaseURL      string // optional for openai/anthropic, required for compatible
	HubURL       string // huggingface only
	InferenceURL string // huggingface only
	UserAgent    string
	HTTPClient   *http.Client
}

// Backend constants
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendAnthropic   = "anthropic"
	BackendCompatible  = "compatible"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendHuggingFace, BackendOpenAI, BackendAnthropic, BackendCompatible}

var (
	ErrInvalidBackend = errors.New("invalid backend")
	ErrMissingAPIKey  = errors.New("API key is required")
	ErrMissingBaseURL = errors.New("base URL is required for compatible backend")
	ErrMissingModel   = errors.New("model is required")
	ErrUnknownModel   = errors.New("unknown model")
	ErrUnsupported    = errors.New("model does not support summarization")
	ErrEmptyOutput    = errors.New("model returned an empty summary")
)

// ValidBackend reports whether name is a known backend.
func ValidBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Loader resolves a model from a Config.
type Loader func(ctx context.Context, cfg Config) (Model, error)

// Load resolves cfg.ModelID against its backend and returns a ready handle.
// It fails when the identifier is unknown, the backend is unreachable or
// credentials are rejected.
func Load(ctx context.Context, cfg Config) (Model, error) {
	cfg.ModelID = strings.TrimSpace(cfg.ModelID)
	if cfg.ModelID == "" {
		return nil, ErrMissingModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	switch cfg.Backend {
	case BackendHuggingFace:
		m := NewHuggingFaceModel(cfg)
		if err := m.Resolve(ctx); err != nil {
			return nil, err
		}
		return m, nil
	case BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return verify(ctx, NewOpenAIModel(cfg))
	case BackendAnthropic:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return verify(ctx, NewAnthropicModel(cfg))
	case BackendCompatible:
		if cfg.BaseURL == "" {
			return nil, ErrMissingBaseURL
		}
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return verify(ctx, NewCompatibleModel(cfg))
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}
}

// tester is implemented by backends that verify credentials with a small request.
type tester interface {
	Model
	Test(ctx context.Context) (string, error)
}

func verify(ctx context.Context, m tester) (Model, error) {
	if _, err := m.Test(ctx); err != nil {
		return nil, fmt.Errorf("verify %s model %s: %w", m.Backend(), m.ID(), err)
	}
	return m, nil
}
