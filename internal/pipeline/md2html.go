package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used for fenced code blocks.
const DefaultHighlightStyle = "github"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterOptions tunes the Goldmark converter.
type ConverterOptions struct {
	HardWraps      bool   // treat single newlines as <br>
	HighlightStyle string // chroma style name; empty means DefaultHighlightStyle
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes,
// definition lists, heading attributes and syntax highlighting.
//
// Code is highlighted with inline styles: mail clients strip <style> blocks.
// Raw HTML in the template is passed through so authors can use tags
// Markdown has no syntax for.
func NewGoldmarkConverter(opts ConverterOptions) *GoldmarkConverter {
	style := opts.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}

	htmlOpts := []renderer.Option{
		html.WithXHTML(),
		html.WithUnsafe(),
	}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,            // Tables, strikethrough, autolinks, task lists
			extension.Footnote,       // [^1] footnotes
			extension.DefinitionList, // Term\n: definition
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(), // ## Heading {#id .class}
		),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context. A panic inside Goldmark or an
// extension is reported as ErrHTMLConversion.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()

		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// IsHighlightStyle reports whether name is a registered chroma style.
func IsHighlightStyle(name string) bool {
	return slices.Contains(styles.Names(), name)
}
