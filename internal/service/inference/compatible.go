package inference

import (
	"github.com/openai/openai-go/option"
)

// NewCompatibleModel creates a model handle for OpenAI-compatible APIs such
// as OpenRouter, Ollama or a self-hosted text-generation server.
func NewCompatibleModel(cfg Config) *OpenAIModel {
	m := NewOpenAIModel(cfg)
	m.backend = BackendCompatible
	// Reasoning output would count against the summary budget.
	m.reqOpts = append(m.reqOpts, option.WithJSONSet("reasoning", map[string]interface{}{
		"enabled": false,
	}))
	return m
}
