package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultHubURL is the public model hub used to resolve identifiers.
	DefaultHubURL = "https://huggingface.co"
	// DefaultInferenceURL serves hosted inference for hub models.
	DefaultInferenceURL = "https://router.huggingface.co/hf-inference"

	maxErrorBody = 4 << 10
)

// summarizationPipelines are hub pipeline tags that produce summaries.
var summarizationPipelines = map[string]bool{
	"summarization":        true,
	"text2text-generation": true,
}

// HubModelInfo is the subset of the hub model card used to validate a model.
type HubModelInfo struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
	SHA         string `json:"sha"`
	Disabled    bool   `json:"disabled"`
}

// HuggingFaceModel summarizes through the hosted inference API of a hub model.
type HuggingFaceModel struct {
	client       *http.Client
	hubURL       string
	inferenceURL string
	modelID      string
	token        string
	userAgent    string
	info         HubModelInfo
}

// NewHuggingFaceModel creates an unresolved handle; call Resolve before use.
func NewHuggingFaceModel(cfg Config) *HuggingFaceModel {
	hubURL := cfg.HubURL
	if hubURL == "" {
		hubURL = DefaultHubURL
	}
	inferenceURL := cfg.InferenceURL
	if inferenceURL == "" {
		inferenceURL = DefaultInferenceURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFaceModel{
		client:       client,
		hubURL:       strings.TrimRight(hubURL, "/"),
		inferenceURL: strings.TrimRight(inferenceURL, "/"),
		modelID:      cfg.ModelID,
		token:        cfg.APIKey,
		userAgent:    cfg.UserAgent,
	}
}

func (m *HuggingFaceModel) Backend() string {
	return BackendHuggingFace
}

func (m *HuggingFaceModel) ID() string {
	return m.modelID
}

// Info returns the hub metadata captured by Resolve.
func (m *HuggingFaceModel) Info() HubModelInfo {
	return m.info
}

// Resolve looks the model up on the hub and checks it can summarize.
func (m *HuggingFaceModel) Resolve(ctx context.Context) error {
	endpoint, err := url.JoinPath(m.hubURL, "api", "models", m.modelID)
	if err != nil {
		return fmt.Errorf("build hub url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	m.setHeaders(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("hub request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnauthorized:
		// The hub answers 401 for private or nonexistent repos without a token.
		return fmt.Errorf("%w: %s", ErrUnknownModel, m.modelID)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("hub HTTP %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	var info HubModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return fmt.Errorf("decode hub response: %w", err)
	}
	if info.Disabled {
		return fmt.Errorf("model %s is disabled on the hub", m.modelID)
	}
	if !summarizationPipelines[info.PipelineTag] {
		return fmt.Errorf("%w: %s has pipeline %q", ErrUnsupported, m.modelID, info.PipelineTag)
	}

	m.info = info
	return nil
}

type hfGenerateParameters struct {
	MaxLength     int  `json:"max_length"`
	NumBeams      int  `json:"num_beams"`
	EarlyStopping bool `json:"early_stopping"`
}

type hfParameters struct {
	Truncation         string               `json:"truncation"`
	GenerateParameters hfGenerateParameters `json:"generate_parameters"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

// Summarize runs one inference call. The server truncates the input to the
// model's window; opts.MaxInputTokens is enforced by the caller.
func (m *HuggingFaceModel) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	endpoint, err := url.JoinPath(m.inferenceURL, "models", m.modelID)
	if err != nil {
		return "", fmt.Errorf("build inference url: %w", err)
	}

	body, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			Truncation: "longest_first",
			GenerateParameters: hfGenerateParameters{
				MaxLength:     opts.MaxOutputTokens,
				NumBeams:      opts.NumBeams,
				EarlyStopping: opts.EarlyStopping,
			},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	m.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Wait-For-Model", "true")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference HTTP %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out []hfSummary
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if len(out) == 0 {
		return "", ErrEmptyOutput
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}

func (m *HuggingFaceModel) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if m.userAgent != "" {
		req.Header.Set("User-Agent", m.userAgent)
	}
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}
}

// readErrorMessage extracts {"error": ...} from an error body, falling back
// to the raw text.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Error) > 0 {
		var msg string
		if json.Unmarshal(payload.Error, &msg) == nil {
			return msg
		}
		var msgs []string
		if json.Unmarshal(payload.Error, &msgs) == nil {
			return strings.Join(msgs, "; ")
		}
		return string(payload.Error)
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
