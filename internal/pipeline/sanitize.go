package pipeline

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer strips active content from rendered HTML.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer that keeps user-generated-content
// markup plus the inline styles produced by code highlighting and tables.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("mark")
	p.AllowAttrs("style").OnElements("span", "pre", "code", "div", "table", "th", "td")
	p.AllowStyles(
		"color", "background-color",
		"font-weight", "font-style", "text-decoration",
		"text-align", "white-space",
	).Globally()
	return &HTMLSanitizer{policy: p}
}

// Sanitize returns content with disallowed elements and attributes removed.
func (s *HTMLSanitizer) Sanitize(content string) string {
	return s.policy.Sanitize(content)
}
