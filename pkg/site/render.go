package site

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer executes the page template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page.html.tmpl").Funcs(template.FuncMap{
		"lower":    strings.ToLower,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page templates")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes page as HTML to w
func (r *Renderer) Render(w io.Writer, page *Page) error {
	if err := r.tmpl.ExecuteTemplate(w, "page.html.tmpl", page); err != nil {
		return errors.Wrap(err, "failed to render page")
	}
	return nil
}

// renderBody converts the markdown body of raw to HTML. The frontmatter block is
// dropped and raw HTML in the document is escaped. On failure it returns "".
func renderBody(raw string) string {
	fm, err := catalog.ParseFrontmatter(catalog.FixBlockScalars(raw))
	if err != nil {
		return ""
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(fm.Body), &buf); err != nil {
		return ""
	}
	return buf.String()
}
