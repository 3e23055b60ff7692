package inference

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIModel summarizes with an OpenAI chat model.
type OpenAIModel struct {
	client  openai.Client
	backend string
	model   string
	reqOpts []option.RequestOption
}

// NewOpenAIModel creates a new OpenAI model handle.
func NewOpenAIModel(cfg Config) *OpenAIModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIModel{
		client:  openai.NewClient(opts...),
		backend: BackendOpenAI,
		model:   cfg.ModelID,
	}
}

func (m *OpenAIModel) Backend() string {
	return m.backend
}

func (m *OpenAIModel) ID() string {
	return m.model
}

// Test sends a test message and returns the response.
func (m *OpenAIModel) Test(ctx context.Context) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("Hello world"),
		},
		MaxTokens: openai.Int(16),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params, m.reqOpts...)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Summarize generates a summary without streaming.
func (m *OpenAIModel) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(GetSummarizePrompt(opts.MaxOutputTokens)),
			openai.UserMessage(WrapInput(text)),
		},
		MaxTokens: openai.Int(int64(opts.MaxOutputTokens)),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params, m.reqOpts...)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyOutput
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
