// Package dateutil converts human-friendly timestamp patterns to Go layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat indicates an invalid timestamp pattern.
var ErrInvalidFormat = errors.New("invalid timestamp format")

// MaxFormatLength limits pattern length to prevent abuse.
const MaxFormatLength = 50

// DefaultFormat names log files the way operators sort them: by run start.
const DefaultFormat = "YYYY-MM-DD_HH-mm-ss"

// tokens maps user-friendly tokens to Go time layout components.
// Ordered by length descending for greedy matching; tokens are case-sensitive
// so MM (month) and mm (minute) never collide.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common patterns.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"filename": DefaultFormat,
}

// ParseFormat converts a user-friendly pattern to Go's time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss.
// Use brackets to escape literal text: [run] preserves "run" literally.
// Returns ErrInvalidFormat if the pattern is empty, too long, or has unclosed brackets.
func ParseFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidFormat)
	}
	if len(format) > MaxFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Format renders t with a pattern or a preset name (case-insensitive).
func Format(pattern string, t time.Time) (string, error) {
	if preset, ok := Presets[strings.ToLower(pattern)]; ok {
		pattern = preset
	}

	layout, err := ParseFormat(pattern)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// ExpandTimestamp replaces every {timestamp} token in name with t rendered
// through pattern. Names without the token are returned unchanged.
func ExpandTimestamp(name, pattern string, t time.Time) (string, error) {
	const token = "{timestamp}"
	if !strings.Contains(name, token) {
		return name, nil
	}
	if pattern == "" {
		pattern = DefaultFormat
	}

	stamp, err := Format(pattern, t)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(name, token, stamp), nil
}
