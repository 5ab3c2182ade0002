package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// documentTemplate wraps a rendered fragment in a complete HTML5 document.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// WrapDocument returns fragment as a standalone HTML5 page titled title.
func WrapDocument(title, fragment string) string {
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), fragment)
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// EnvelopeData is shown above the body of file-based drafts.
type EnvelopeData struct {
	From        string
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	Attachments []string // base names
}

// envelopeTemplate renders EnvelopeData. html/template escapes every value.
const envelopeTemplate = `<table class="mdmerge-envelope">
{{- if .From}}<tr><th>From</th><td>{{.From}}</td></tr>{{end}}
<tr><th>To</th><td>{{join .To}}</td></tr>
{{- if .CC}}<tr><th>CC</th><td>{{join .CC}}</td></tr>{{end}}
{{- if .BCC}}<tr><th>BCC</th><td>{{join .BCC}}</td></tr>{{end}}
<tr><th>Subject</th><td>{{.Subject}}</td></tr>
{{- if .Attachments}}<tr><th>Attachments</th><td>{{join .Attachments}}</td></tr>{{end}}
</table>
`

// EnvelopeInjector defines the contract for envelope header injection.
type EnvelopeInjector interface {
	InjectEnvelope(ctx context.Context, htmlContent string, data *EnvelopeData) (string, error)
}

// EnvelopeInjection renders and injects an envelope header after <body>.
type EnvelopeInjection struct {
	tmpl *template.Template
}

// NewEnvelopeInjection creates an EnvelopeInjection with the built-in template.
func NewEnvelopeInjection() *EnvelopeInjection {
	tmpl := template.Must(template.New("envelope").Funcs(template.FuncMap{
		"join": func(s []string) string { return strings.Join(s, ", ") },
	}).Parse(envelopeTemplate))
	return &EnvelopeInjection{tmpl: tmpl}
}

// InjectEnvelope renders data and inserts it right after <body>.
// If data is nil, returns htmlContent unchanged.
func (e *EnvelopeInjection) InjectEnvelope(ctx context.Context, htmlContent string, data *EnvelopeData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEnvelopeRender, err)
	}

	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + "\n" + buf.String() + htmlContent[insertPos:], nil
		}
	}
	return buf.String() + htmlContent, nil
}
