package web_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"precis/backend/internal/web"
)

func TestLoadCopy(t *testing.T) {
	c, err := web.LoadCopy()
	require.NoError(t, err)

	require.Contains(t, string(c.Features), "<li>Summarize long texts quickly and efficiently.</li>")
	require.Contains(t, string(c.Features), "<strong>Features:</strong>")
	require.Contains(t, string(c.Intro), "<strong>Generate Summary</strong>")
	require.Contains(t, string(c.Footer), `href="https://huggingface.co"`)
	require.NotContains(t, string(c.Footer), "nofollow")
}

func render(t *testing.T, data web.PageData) string {
	t.Helper()

	r, err := web.NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, web.PageTemplate, data, nil))
	return buf.String()
}

func TestRenderer_ReadyPage(t *testing.T) {
	html := render(t, web.PageData{
		Title:   "Text Summarizer",
		Model:   web.ModelView{State: "ready", ModelID: "facebook/bart-large-cnn", Ready: true},
		Summary: "A fox <jumps> over a dog.",
	})

	require.Contains(t, html, "Model loaded successfully!")
	require.Contains(t, html, `id="summary">A fox &lt;jumps&gt; over a dog.</div>`)
	require.Contains(t, html, `id="download"`)

	gen := html[strings.Index(html, `id="generate"`):]
	require.False(t, strings.HasPrefix(gen, `id="generate" disabled`))
}

func TestRenderer_FailedModelDisablesGenerate(t *testing.T) {
	html := render(t, web.PageData{
		Model: web.ModelView{State: "failed", Error: "repository not found"},
	})

	require.Contains(t, html, "Error loading model: repository not found")
	require.Contains(t, html, `id="generate" disabled`)
	require.NotContains(t, html, `id="download"`)
}

func TestRenderer_WarningWithoutDownload(t *testing.T) {
	html := render(t, web.PageData{
		Model:   web.ModelView{State: "ready", Ready: true},
		Mode:    "uploaded",
		Warning: "Please enter some text or upload a file to summarize!",
	})

	require.Contains(t, html, "Please enter some text or upload a file to summarize!")
	require.Contains(t, html, `value="uploaded" checked`)
	require.NotContains(t, html, `id="download"`)
	require.NotContains(t, html, "Generated Summary")
}
