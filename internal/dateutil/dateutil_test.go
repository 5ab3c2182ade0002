package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "YYYY converts to Go year", format: "YYYY", want: "2006"},
		{name: "YY converts to short year", format: "YY", want: "06"},
		{name: "MMMM converts to full month name", format: "MMMM", want: "January"},
		{name: "MMM converts to short month name", format: "MMM", want: "Jan"},
		{name: "MM converts to zero-padded month", format: "MM", want: "01"},
		{name: "M converts to non-padded month", format: "M", want: "1"},
		{name: "DD converts to zero-padded day", format: "DD", want: "02"},
		{name: "D converts to non-padded day", format: "D", want: "2"},
		{name: "HH converts to 24h hour", format: "HH", want: "15"},
		{name: "mm converts to minute", format: "mm", want: "04"},
		{name: "ss converts to second", format: "ss", want: "05"},
		{name: "month and minute do not collide", format: "MM-mm", want: "01-04"},
		{name: "default file format", format: DefaultFormat, want: "2006-01-02_15-04-05"},
		{name: "bracket escapes literals", format: "[Day] D", want: "Day 2"},
		{name: "other characters preserved", format: "YYYY.MM.DD", want: "2006.01.02"},
		{name: "empty format", format: "", wantErr: ErrInvalidFormat},
		{name: "unclosed bracket", format: "[YYYY", wantErr: ErrInvalidFormat},
		{name: "too long", format: "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.September, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"filename", "2025-09-05_14-07-09"},
		{"ISO", "2025-09-05"},
		{"long", "September 5, 2025"},
		{"DD/MM/YYYY", "05/09/2025"},
	}

	for _, tt := range tests {
		got, err := Format(tt.pattern, ts)
		if err != nil {
			t.Fatalf("Format(%q) unexpected error: %v", tt.pattern, err)
		}
		if got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestExpandTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, time.September, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		pattern string
		want    string
		wantErr bool
	}{
		{"no token", "merge.log", "", "merge.log", false},
		{"default pattern", "mail_merge_{timestamp}.log", "", "mail_merge_2025-09-05_14-07-09.log", false},
		{"custom pattern", "run-{timestamp}.log", "YYYYMMDD", "run-20250905.log", false},
		{"invalid pattern", "run-{timestamp}.log", "[oops", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandTimestamp(tt.input, tt.pattern, ts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandTimestamp() = %q, want %q", got, tt.want)
			}
		})
	}
}
