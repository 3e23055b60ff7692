package tokenizer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"precis/backend/internal/tokenizer"
)

const foxSentence = "The quick brown fox jumps over the lazy dog. "

func TestCount_Empty(t *testing.T) {
	require.Equal(t, tokenizer.SpecialTokens, tokenizer.New().Count(""))
}

func TestCount_Sentence(t *testing.T) {
	// 9 words, the period and the trailing space.
	require.Equal(t, 11+tokenizer.SpecialTokens, tokenizer.New().Count(foxSentence))
	require.Equal(t, 2+tokenizer.SpecialTokens, tokenizer.New().Count("Hello world"))
}

func TestCount_FoxScenarioFitsWindow(t *testing.T) {
	text := strings.Repeat(foxSentence, 50)
	count := tokenizer.New().Count(text)
	require.Less(t, count, 1024)
	require.Greater(t, count, 450)
}

func TestCount_UnspacedScript(t *testing.T) {
	text := strings.Repeat("汉字", 900)
	require.GreaterOrEqual(t, tokenizer.New().Count(text), utf8.RuneCountInString(text))
}

func TestTruncate_NoChangeWhenFits(t *testing.T) {
	text := strings.Repeat(foxSentence, 3)
	out, truncated := tokenizer.New().Truncate(text, 1024)
	require.False(t, truncated)
	require.Equal(t, text, out)
}

func TestTruncate_CutsAtTokenBoundary(t *testing.T) {
	tok := tokenizer.New()
	text := strings.Repeat(foxSentence, 200)

	out, truncated := tok.Truncate(text, 1024)
	require.True(t, truncated)
	require.True(t, strings.HasPrefix(text, out))
	require.LessOrEqual(t, tok.Count(out), 1024)
	require.Greater(t, tok.Count(out), 1000)
}

func TestTruncate_UnspacedScriptIsReported(t *testing.T) {
	tok := tokenizer.New()
	text := strings.Repeat("汉字", 900)

	out, truncated := tok.Truncate(text, 1024)
	require.True(t, truncated)
	require.True(t, utf8.ValidString(out))
	require.True(t, strings.HasPrefix(text, out))
	require.LessOrEqual(t, tok.Count(out), 1024)
	require.Less(t, len(out), len(text))
}

func TestTruncate_Multibyte(t *testing.T) {
	tok := tokenizer.New()
	text := strings.Repeat("résumé naïve café ", 100)

	out, truncated := tok.Truncate(text, 20)
	require.True(t, truncated)
	require.True(t, utf8.ValidString(out))
	require.True(t, strings.HasPrefix(text, out))
	require.True(t, strings.HasPrefix(out, "résumé"))
}

func TestTruncate_ZeroBudget(t *testing.T) {
	out, truncated := tokenizer.New().Truncate("hello", 1)
	require.Empty(t, out)
	require.True(t, truncated)
}
