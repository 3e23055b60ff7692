package inference

// Options are the generation parameters passed to a backend.
type Options struct {
	MaxInputTokens  int  // input is truncated to this many tokens
	MaxOutputTokens int  // upper bound on summary length
	NumBeams        int  // beam search width
	EarlyStopping   bool // stop beam search once enough candidates finish
}

// DefaultOptions are the fixed parameters every summary is generated with.
var DefaultOptions = Options{
	MaxInputTokens:  1024,
	MaxOutputTokens: 150,
	NumBeams:        4,
	EarlyStopping:   true,
}
