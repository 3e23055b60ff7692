// Package tokenizer counts model tokens and cuts text to a token budget.
// BART shares the GPT-2 byte-level BPE vocabulary, so counts come from the
// embedded r50k_base encoding plus the sequence start and end markers.
package tokenizer

import (
	"fmt"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/tiktoken-go/tokenizer"

	"precis/backend/internal/logger"
)

// Tokenizer counts and truncates text in model tokens.
type Tokenizer interface {
	// Count returns the number of tokens text occupies, including the
	// sequence start and end markers.
	Count(text string) int
	// Truncate returns the longest prefix of text that fits in max tokens
	// and whether anything was dropped.
	Truncate(text string, max int) (string, bool)
}

// SpecialTokens is the number of sequence markers (<s>, </s>) added to every input.
const SpecialTokens = 2

var r50k = sync.OnceValue(func() tiktoken.Codec {
	codec, err := tiktoken.Get(tiktoken.R50kBase)
	if err != nil {
		panic(fmt.Sprintf("tokenizer: load r50k_base: %v", err))
	}
	return codec
})

// BPE is the default Tokenizer.
type BPE struct {
	codec tiktoken.Codec
}

// New returns the default tokenizer.
func New() BPE {
	return BPE{codec: r50k()}
}

func (t BPE) Count(text string) int {
	if text == "" {
		return SpecialTokens
	}
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		// A token is at least one byte.
		logger.Warn("token count fell back to bytes", "module", "tokenizer", "action", "encode", "resource", "input", "result", "failed", "error", err)
		return SpecialTokens + len(text)
	}
	return SpecialTokens + len(ids)
}

func (t BPE) Truncate(text string, max int) (string, bool) {
	budget := max - SpecialTokens
	if budget <= 0 {
		return "", text != ""
	}
	if len(text) <= budget {
		return text, false
	}

	ids, _, err := t.codec.Encode(text)
	if err != nil {
		logger.Warn("token truncation fell back to bytes", "module", "tokenizer", "action", "encode", "resource", "input", "result", "failed", "error", err)
		return validPrefix(text, budget), true
	}
	if len(ids) <= budget {
		return text, false
	}

	head, err := t.codec.Decode(ids[:budget])
	if err != nil {
		return validPrefix(text, budget), true
	}
	return validPrefix(text, len(head)), true
}

// validPrefix returns text cut to at most n bytes without splitting a rune.
func validPrefix(text string, n int) string {
	if n >= len(text) {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
