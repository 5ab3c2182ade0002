package pipeline

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/alnah/go-mdmerge/internal/logging"
	"github.com/alnah/go-mdmerge/internal/records"
)

// Default container style.
const (
	DefaultFontFamily = "Calibri, sans-serif"
	DefaultFontSize   = "11pt"
)

// Template is a Markdown template read once per run.
type Template struct {
	Text string
	Dir  string // directory the template was read from
}

// Style sets the container's font.
type Style struct {
	FontFamily string
	FontSize   string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithConverter replaces the Markdown converter.
func WithConverter(c HTMLConverter) RendererOption {
	return func(r *Renderer) {
		if c != nil {
			r.converter = c
		}
	}
}

// WithPreprocessor replaces the Markdown preprocessor.
func WithPreprocessor(p MarkdownPreprocessor) RendererOption {
	return func(r *Renderer) {
		if p != nil {
			r.preprocessor = p
		}
	}
}

// WithSanitizer enables HTML sanitization of converted output.
func WithSanitizer(s *HTMLSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// WithStyle sets the container font. Blank fields keep their defaults.
func WithStyle(s Style) RendererOption {
	return func(r *Renderer) {
		if s.FontFamily != "" {
			r.style.FontFamily = s.FontFamily
		}
		if s.FontSize != "" {
			r.style.FontSize = s.FontSize
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer produces one HTML fragment per record.
type Renderer struct {
	converter    HTMLConverter
	preprocessor MarkdownPreprocessor
	sanitizer    *HTMLSanitizer
	style        Style
	logger       *slog.Logger
}

// NewRenderer creates a Renderer with the default Goldmark converter.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		converter:    NewGoldmarkConverter(ConverterOptions{}),
		preprocessor: &CommonMarkPreprocessor{},
		style:        Style{FontFamily: DefaultFontFamily, FontSize: DefaultFontSize},
		logger:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render substitutes rec into tmpl and converts the result to a styled
// HTML fragment. Any failure, including a panic in the converter, is
// returned wrapped in ErrRender.
func (r *Renderer) Render(ctx context.Context, tmpl Template, rec records.Record) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: line %d: panic: %v", ErrRender, rec.Line(), p)
		}
	}()

	md := Substitute(tmpl.Text, rec.Fields())
	md = r.preprocessor.PreprocessMarkdown(ctx, md)

	body, err := r.converter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("%w: line %d: %w", ErrRender, rec.Line(), err)
	}
	body = ConvertMarkPlaceholders(body)

	if r.sanitizer != nil {
		body = r.sanitizer.Sanitize(body)
	}

	r.logger.Debug("rendered record", "line", rec.Line(), "bytes", len(body))
	return r.wrap(body), nil
}

// wrap places body in the styled container element.
func (r *Renderer) wrap(body string) string {
	return fmt.Sprintf(`<div style="font-family: %s; font-size: %s; margin: 0;">%s</div>`,
		html.EscapeString(r.style.FontFamily), html.EscapeString(r.style.FontSize), body)
}
