package sanitize

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty stays empty", "", ""},
		{"plain ascii untouched", "Hello, World", "Hello, World"},
		{"en dash", "2024\u20132025", "2024-2025"},
		{"em dash", "wait\u2014what", "wait--what"},
		{"curly single quotes", "\u2018it\u2019s\u2019", "'it's'"},
		{"curly double quotes", "\u201Cquoted\u201D", `"quoted"`},
		{"non-breaking space", "a\u00A0b", "a b"},
		{"ellipsis", "and so on\u2026", "and so on..."},
		{"legacy dash", "a\u0096b", "a-b"},
		{"accents dropped", "Caf\u00E9 cr\u00E8me", "Caf crme"},
		{"emoji dropped", "hi \U0001F600 there", "hi  there"},
		{"control chars dropped", "a\x00b\x07c\x7F", "abc"},
		{"surrounding whitespace trimmed", "  \t padded \n ", "padded"},
		{"inner newline kept", "line one\nline two", "line one\nline two"},
		{"only whitespace becomes empty", "   ", ""},
		{"nbsp only becomes empty", "\u00A0\u00A0", ""},
		{"invalid utf-8 dropped", "ok\xffok", "okok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		"  \u201CSmart\u201D \u2014 quotes\u2026  ",
		"\u00A0leading nbsp",
		"trailing nbsp\u00A0",
		"mixed\u0096dash \u00E9\u00E8 \U0001F680",
		"\x00\x01\x02",
		"tab\tinside",
		"\r\n\r\n",
	}

	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestClean_OnlyPrintableASCII(t *testing.T) {
	t.Parallel()

	// Every rune of the first 0x3000 code points, in one string.
	var b strings.Builder
	for r := rune(0); r < 0x3000; r++ {
		b.WriteRune(r)
	}

	got := Clean(b.String())
	for i, r := range got {
		if !IsPrintable(r) {
			t.Fatalf("Clean output contains %U at byte %d", r, i)
		}
	}
}

func TestCleanAll(t *testing.T) {
	t.Parallel()

	values := []string{" a ", "b\u2013c", ""}
	got := CleanAll(values)

	want := []string{"a", "b-c", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanAll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
