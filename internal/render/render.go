// Package render turns a day's reflection into the HTML and plain-text
// email bodies. All quote and reflection content passes through
// html/template auto-escaping; nothing is trusted as markup.
package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// Input carries everything the renderer needs for one email.
type Input struct {
	Date       time.Time
	Quote      domain.Quote
	Theme      domain.Theme
	Reflection string
}

// Output is the rendered email content, recipient-independent. The same
// output is sent to every recipient of a batch.
type Output struct {
	Subject  string
	HTMLBody string
	TextBody string
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #2c3e50; max-width: 600px; margin: 0 auto; padding: 20px; }
  .date { color: #7f8c8d; font-size: 14px; }
  .theme { color: #8e44ad; font-size: 16px; font-style: italic; margin-bottom: 24px; }
  blockquote { border-left: 4px solid #8e44ad; margin: 24px 0; padding: 8px 20px; font-size: 18px; }
  .attribution { text-align: right; color: #7f8c8d; }
  .reflection p { line-height: 1.7; }
  .footer { margin-top: 32px; border-top: 1px solid #ecf0f1; padding-top: 12px; color: #95a5a6; font-size: 12px; }
</style>
</head>
<body>
  <p class="date">{{.DateLong}}</p>
  <p class="theme">This month's theme: {{.Theme.Name}}</p>
  <blockquote>
    <p>{{.Quote.Text}}</p>
    <p class="attribution">&mdash; {{.Quote.Attribution}}</p>
  </blockquote>
  <div class="reflection">
{{- range .Paragraphs}}
    <p>{{.}}</p>
{{- end}}
  </div>
  <p class="footer">Daily Stoic Reflections</p>
</body>
</html>
`

var emailTmpl = template.Must(template.New("email").Parse(htmlTemplate))

// templateData is the view model handed to the HTML template.
type templateData struct {
	DateLong   string
	Theme      domain.Theme
	Quote      domain.Quote
	Paragraphs []string
}

// Renderer produces email content from a day's reflection.
type Renderer struct{}

// NewRenderer creates a renderer. The template is parsed at package init;
// construction cannot fail.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the subject and both bodies for one day's email.
func (r *Renderer) Render(in Input) (Output, error) {
	data := templateData{
		DateLong:   in.Date.Format("Monday, January 2, 2006"),
		Theme:      in.Theme,
		Quote:      in.Quote,
		Paragraphs: paragraphs(in.Reflection),
	}

	var html strings.Builder
	if err := emailTmpl.Execute(&html, data); err != nil {
		return Output{}, fmt.Errorf("rendering html body: %w", err)
	}

	return Output{
		Subject:  "Daily Stoic Reflection: " + in.Theme.Name,
		HTMLBody: html.String(),
		TextBody: renderText(in, data),
	}, nil
}

// paragraphs splits the reflection on blank lines, dropping empties.
func paragraphs(text string) []string {
	var out []string

	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// renderText produces the plain-text alternative body.
func renderText(in Input, data templateData) string {
	divider := strings.Repeat("=", 70)

	var b strings.Builder

	b.WriteString(data.DateLong + "\n")
	b.WriteString("This month's theme: " + in.Theme.Name + "\n")
	b.WriteString(divider + "\n\n")
	b.WriteString(in.Quote.Text + "\n")
	b.WriteString("  - " + in.Quote.Attribution + "\n\n")
	b.WriteString(divider + "\n\n")

	for _, p := range data.Paragraphs {
		b.WriteString(p + "\n\n")
	}

	b.WriteString(divider + "\n")
	b.WriteString("Daily Stoic Reflections\n")

	return b.String()
}
