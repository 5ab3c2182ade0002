// Package pipeline turns a Markdown template and one contact record into an
// HTML fragment ready to be placed in a draft.
//
// The stages run in a fixed order:
//   - placeholder substitution (<<Column>> replaced by the record's value)
//   - Markdown preprocessing (line endings, list and header spacing, ==highlight==)
//   - Markdown to HTML conversion via Goldmark
//   - optional HTML sanitization via bluemonday
//   - wrapping in a styled container element
//
// Document helpers in this package (CSS injection, envelope header, relative
// path rewriting) are used by the file-based sinks that need a complete page
// rather than a mail body fragment.
package pipeline
