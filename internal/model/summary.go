package model

import "time"

// InputMode selects where the text to summarize comes from.
type InputMode string

const (
	InputTyped    InputMode = "typed"
	InputUploaded InputMode = "uploaded"
)

// InputText is the text submitted for one summarization request.
type InputText struct {
	Mode     InputMode
	Text     string
	FileName string // set for uploaded input
}

// Summary is the result of one generation call. It is never persisted.
type Summary struct {
	Text        string
	Backend     string
	ModelID     string
	InputTokens int
	Truncated   bool
	RunID       int64
}

// Run status values.
const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// SummaryRun records metadata about a summarization request.
// Neither the input nor the summary text is stored.
type SummaryRun struct {
	ID           int64
	Mode         InputMode
	Backend      string
	ModelID      string
	InputChars   int
	InputTokens  int
	Truncated    bool
	OutputChars  int
	Status       string
	ErrorMessage *string
	DurationMS   int64
	CreatedAt    time.Time
}
