// Package sanitize normalizes individual cell values before they reach a template.
package sanitize

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// symbolFolds maps typographic characters produced by word processors and
// spreadsheets to their plain ASCII spelling.
var symbolFolds = strings.NewReplacer(
	"\u2013", "-",   // en dash
	"\u2014", "--",  // em dash
	"\u2018", "'",   // left single quote
	"\u2019", "'",   // right single quote
	"\u201C", `"`,   // left double quote
	"\u201D", `"`,   // right double quote
	"\u00A0", " ",   // non-breaking space
	"\u2026", "...", // ellipsis
	"\u0096", "-",   // windows-1252 en dash read as latin-1
)

// nonPrintable removes every rune outside printable ASCII.
// Tab, newline and carriage return survive so multi-line cells keep their shape.
var nonPrintable = runes.Remove(runes.Predicate(func(r rune) bool {
	return !IsPrintable(r)
}))

// IsPrintable reports whether r may appear in a cleaned value.
func IsPrintable(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return true
	}
	return r >= 0x20 && r <= 0x7E
}

// Clean folds smart punctuation to ASCII, drops what is left outside
// printable ASCII, and trims surrounding whitespace.
// Empty input is returned unchanged. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return s
	}

	folded := symbolFolds.Replace(s)

	stripped, _, err := transform.String(nonPrintable, folded)
	if err != nil {
		// transform only fails on internal buffer errors; filter rune by rune instead.
		stripped = strings.Map(func(r rune) rune {
			if IsPrintable(r) {
				return r
			}
			return -1
		}, folded)
	}

	return strings.TrimSpace(stripped)
}

// CleanAll applies Clean to every value in place and returns the slice.
func CleanAll(values []string) []string {
	for i, v := range values {
		values[i] = Clean(v)
	}
	return values
}
