// Package web renders the server-side summarizer page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// PageTemplate is the template name of the summarizer page.
const PageTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed content/*.md
var contentFS embed.FS

// Copy is the static page text, rendered from markdown.
type Copy struct {
	Features template.HTML
	Tip      template.HTML
	Intro    template.HTML
	Footer   template.HTML
}

// ModelView is the model banner state.
type ModelView struct {
	State   string
	Backend string
	ModelID string
	Error   string
	Ready   bool
}

// PageData is everything the page template reads.
type PageData struct {
	Title       string
	Copy        Copy
	Model       ModelView
	Mode        string
	Text        string
	FileName    string
	FileContent string
	AllowedExt  string
	Summary     string
	Truncated   bool
	Warning     string
	Error       string
}

// Typed reports whether the typed input mode is selected.
func (d PageData) Typed() bool {
	return d.Mode != "uploaded"
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// LoadCopy renders the embedded markdown page text to sanitized HTML.
func LoadCopy() (Copy, error) {
	md := goldmark.New()
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	render := func(name string) (template.HTML, error) {
		src, err := contentFS.ReadFile("content/" + name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return "", fmt.Errorf("convert %s: %w", name, err)
		}
		// Sanitized output is safe to embed unescaped.
		return template.HTML(strings.TrimSpace(policy.Sanitize(buf.String()))), nil
	}

	var c Copy
	var err error
	if c.Features, err = render("features.md"); err != nil {
		return Copy{}, err
	}
	if c.Tip, err = render("tip.md"); err != nil {
		return Copy{}, err
	}
	if c.Intro, err = render("intro.md"); err != nil {
		return Copy{}, err
	}
	if c.Footer, err = render("footer.md"); err != nil {
		return Copy{}, err
	}
	return c, nil
}
