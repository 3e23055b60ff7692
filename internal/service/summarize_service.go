package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"precis/backend/internal/logger"
	"precis/backend/internal/model"
	"precis/backend/internal/repository"
	"precis/backend/internal/service/inference"
	"precis/backend/internal/tokenizer"
)

// Download artifact constants.
const (
	ArtifactFileName = "summary.txt"
	ArtifactMIMEType = "text/plain"
)

// Artifact is a downloadable rendering of a summary.
type Artifact struct {
	FileName string
	MIMEType string
	Body     []byte
}

// DownloadArtifact renders a summary as summary.txt. The body is the
// summary text byte for byte.
func DownloadArtifact(summary string) Artifact {
	return Artifact{
		FileName: ArtifactFileName,
		MIMEType: ArtifactMIMEType,
		Body:     []byte(summary),
	}
}

// SummarizeService runs generation against the process-wide model.
type SummarizeService interface {
	// Summarize produces a summary of input. Whitespace-only input returns
	// ErrEmptyInput without touching the model.
	Summarize(ctx context.Context, input model.InputText) (*model.Summary, error)
	// ListRuns returns recent run metadata, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.SummaryRun, error)
	// PruneRuns deletes run metadata older than olderThan.
	PruneRuns(ctx context.Context, olderThan time.Duration) (int64, error)
}

type summarizeService struct {
	models    ModelService
	runs      repository.SummaryRunRepository
	tokenizer tokenizer.Tokenizer
	throttle  *inference.Throttle
	opts      inference.Options
	now       func() time.Time
}

// NewSummarizeService creates a summarize service.
func NewSummarizeService(models ModelService, runs repository.SummaryRunRepository, tok tokenizer.Tokenizer, throttle *inference.Throttle) SummarizeService {
	if tok == nil {
		tok = tokenizer.New()
	}
	if throttle == nil {
		throttle = inference.NewThrottle(1, inference.DefaultRateLimit)
	}
	return &summarizeService{
		models:    models,
		runs:      runs,
		tokenizer: tok,
		throttle:  throttle,
		opts:      inference.DefaultOptions,
		now:       time.Now,
	}
}

func (s *summarizeService) Summarize(ctx context.Context, input model.InputText) (*model.Summary, error) {
	if strings.TrimSpace(input.Text) == "" {
		logger.Warn("empty input", "module", "service", "action", "summarize", "resource", "summary", "result", "skipped", "mode", input.Mode)
		return nil, ErrEmptyInput
	}

	start := s.now()
	run := model.SummaryRun{
		Mode:        input.Mode,
		InputChars:  utf8.RuneCountInString(input.Text),
		InputTokens: s.tokenizer.Count(input.Text),
		CreatedAt:   start,
	}

	m, err := s.models.Model()
	if err != nil {
		status := s.models.Status()
		run.Backend, run.ModelID = status.Backend, status.ModelID
		s.record(ctx, run, start, err)
		return nil, err
	}
	run.Backend, run.ModelID = m.Backend(), m.ID()

	text, truncated := s.tokenizer.Truncate(input.Text, s.opts.MaxInputTokens)
	run.Truncated = truncated
	if truncated {
		logger.Warn("input truncated", "module", "service", "action", "summarize", "resource", "summary", "result", "truncated", "tokens", run.InputTokens, "max_tokens", s.opts.MaxInputTokens)
	}

	release, err := s.throttle.Acquire(ctx)
	if err != nil {
		genErr := &GenerationError{Err: err}
		s.record(ctx, run, start, genErr)
		return nil, genErr
	}
	out, err := m.Summarize(ctx, text, s.opts)
	release()

	if err == nil && strings.TrimSpace(out) == "" {
		err = inference.ErrEmptyOutput
	}
	if err != nil {
		genErr := &GenerationError{Err: err}
		logger.Error("summarize failed", "module", "service", "action", "summarize", "resource", "summary", "result", "failed", "backend", run.Backend, "model", run.ModelID, "error", err)
		s.record(ctx, run, start, genErr)
		return nil, genErr
	}

	run.OutputChars = utf8.RuneCountInString(out)
	id := s.record(ctx, run, start, nil)

	logger.Info("summarize", "module", "service", "action", "summarize", "resource", "summary", "result", "ok", "backend", run.Backend, "model", run.ModelID, "tokens", run.InputTokens, "truncated", truncated, "duration_ms", s.now().Sub(start).Milliseconds())

	return &model.Summary{
		Text:        out,
		Backend:     run.Backend,
		ModelID:     run.ModelID,
		InputTokens: run.InputTokens,
		Truncated:   truncated,
		RunID:       id,
	}, nil
}

// record stores run metadata. Storage errors are logged and do not fail the request.
func (s *summarizeService) record(ctx context.Context, run model.SummaryRun, start time.Time, runErr error) int64 {
	run.DurationMS = s.now().Sub(start).Milliseconds()
	run.Status = model.RunStatusOK
	if runErr != nil {
		run.Status = model.RunStatusFailed
		msg := runErr.Error()
		run.ErrorMessage = &msg
	}

	// The request context may already be cancelled.
	id, err := s.runs.Create(context.WithoutCancel(ctx), run)
	if err != nil {
		logger.Warn("record run failed", "module", "service", "action", "create", "resource", "run", "result", "failed", "error", err)
		return 0
	}
	return id
}

func (s *summarizeService) ListRuns(ctx context.Context, limit int) ([]model.SummaryRun, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalid)
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *summarizeService) PruneRuns(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, nil
	}
	n, err := s.runs.DeleteBefore(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("runs pruned", "module", "service", "action", "delete", "resource", "run", "result", "ok", "count", n)
	}
	return n, nil
}
