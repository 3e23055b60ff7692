package inference

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModel summarizes with an Anthropic model.
type AnthropicModel struct {
	client anthropic.Client
	model  string
}

// NewAnthropicModel creates a new Anthropic model handle.
func NewAnthropicModel(cfg Config) *AnthropicModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &AnthropicModel{
		client: anthropic.NewClient(opts...),
		model:  cfg.ModelID,
	}
}

func (m *AnthropicModel) Backend() string {
	return BackendAnthropic
}

func (m *AnthropicModel) ID() string {
	return m.model
}

// Test sends a test message and returns the response.
func (m *AnthropicModel) Test(ctx context.Context) (string, error) {
	return m.complete(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hello world")),
		},
	})
}

func (m *AnthropicModel) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	out, err := m.complete(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(opts.MaxOutputTokens),
		System: []anthropic.TextBlockParam{
			{Text: GetSummarizePrompt(opts.MaxOutputTokens)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(WrapInput(text))),
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (m *AnthropicModel) complete(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	// Explicitly disable thinking (API defaults to enabled for some models)
	disabled := anthropic.NewThinkingConfigDisabledParam()
	params.Thinking = anthropic.ThinkingConfigParamUnion{
		OfDisabled: &disabled,
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	// Extract text content from response (skip thinking blocks)
	for _, block := range resp.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			return v.Text, nil
		}
	}
	return "", ErrEmptyOutput
}
