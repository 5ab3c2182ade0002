package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after HTML generation.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)

	// List item: up to 3 spaces, a bullet or an ordinal, then whitespace.
	listItem = regexp.MustCompile(`^ {0,3}(?:[-*+]|\d{1,9}[.)])[ \t]+\S`)
	// ATX header.
	atxHeader = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
	// Opening or closing code fence.
	codeFence = regexp.MustCompile("^ {0,3}(?:```|~~~)")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor adapts loosely written templates to CommonMark.
//
// Templates are often typed in a mail client or word processor where a list
// or a header directly under a paragraph line looks right. Several Markdown
// dialects require a blank line there, so one is inserted.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = separateBlocks(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// separateBlocks inserts a blank line before a list or header that directly
// follows paragraph text. Fenced code is left alone, as are consecutive list
// items and indented continuation lines.
func separateBlocks(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	prev := ""
	for _, line := range lines {
		if codeFence.MatchString(line) {
			inFence = !inFence
		} else if !inFence && needsBlankBefore(prev, line) {
			out = append(out, "")
		}
		out = append(out, line)
		prev = line
	}
	return strings.Join(out, "\n")
}

func needsBlankBefore(prev, line string) bool {
	if strings.TrimSpace(prev) == "" {
		return false
	}
	if atxHeader.MatchString(line) {
		return true
	}
	if !listItem.MatchString(line) {
		return false
	}
	// Continuation of an existing list.
	if listItem.MatchString(prev) || strings.HasPrefix(prev, " ") || strings.HasPrefix(prev, "\t") {
		return false
	}
	return true
}

// convertHighlights transforms ==text== to placeholder markers.
func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after Goldmark HTML conversion to finalize highlight markup.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
