package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"log"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/session"
)

//go:embed assets/page.html
var pageHTML string

//go:embed assets/about.md
var aboutMarkdown []byte

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// pageData is the view model for assets/page.html.
type pageData struct {
	Title    string
	Page     session.Page
	HasLogo  bool
	Messages []messageView
	About    template.HTML
}

type messageView struct {
	Role chat.Role
	HTML template.HTML
}

// newMarkdown returns the renderer used for chat messages and the about page.
// Raw HTML in the source is dropped, so user input cannot inject markup.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

// renderMarkdown converts src to HTML. On failure the escaped source is
// returned instead.
func (d *Dashboard) renderMarkdown(src []byte) template.HTML {
	var buf bytes.Buffer
	if err := d.md.Convert(src, &buf); err != nil {
		log.Printf("dashboard: rendering markdown: %v", err)
		return template.HTML(template.HTMLEscapeString(string(src)))
	}
	return template.HTML(buf.String())
}

func (d *Dashboard) messageViews(msgs []chat.Message) []messageView {
	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView{Role: m.Role, HTML: d.renderMarkdown([]byte(m.Content))})
	}
	return views
}
