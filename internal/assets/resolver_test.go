package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStyle creates {dir}/{name}.css.
func writeStyle(t *testing.T, dir, name, css string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".css"), []byte(css), 0o644); err != nil {
		t.Fatalf("failed to write style: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewStyleResolver - Optional styles directory
// ---------------------------------------------------------------------------

func TestNewStyleResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty dir uses built-ins only", func(t *testing.T) {
		t.Parallel()

		r, err := NewStyleResolver("")
		if err != nil {
			t.Fatalf("NewStyleResolver(\"\") error = %v", err)
		}
		if r.HasOverrides() {
			t.Error("HasOverrides() = true, want false")
		}
	})

	t.Run("existing dir", func(t *testing.T) {
		t.Parallel()

		r, err := NewStyleResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewStyleResolver() error = %v", err)
		}
		if !r.HasOverrides() {
			t.Error("HasOverrides() = false, want true")
		}
	})

	t.Run("missing dir", func(t *testing.T) {
		t.Parallel()

		_, err := NewStyleResolver(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrInvalidStylesDir) {
			t.Errorf("NewStyleResolver() error = %v, want ErrInvalidStylesDir", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestStyleResolver_LoadStyle - Override first, built-in fallback
// ---------------------------------------------------------------------------

func TestStyleResolver_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStyle(t, dir, "draft", "body { font-size: 14pt; }")
	writeStyle(t, dir, "brand", "h1 { color: #003366; }")

	withOverrides, err := NewStyleResolver(dir)
	if err != nil {
		t.Fatalf("NewStyleResolver() error = %v", err)
	}
	builtinOnly, err := NewStyleResolver("")
	if err != nil {
		t.Fatalf("NewStyleResolver() error = %v", err)
	}

	tests := []struct {
		name     string
		resolver *StyleResolver
		style    string
		contains string
		wantErr  error
	}{
		{"built-in only", builtinOnly, "print", "page-break-inside", nil},
		{"override wins", withOverrides, "draft", "font-size: 14pt", nil},
		{"override only style", withOverrides, "brand", "#003366", nil},
		{"falls back to built-in", withOverrides, "print", "page-break-inside", nil},
		{"missing everywhere", withOverrides, "neon", "", ErrStyleNotFound},
		{"invalid name not fallen back", withOverrides, "../secret", "", ErrInvalidStyleName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.resolver.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) unexpected error: %v", tt.style, err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("LoadStyle(%q) = %q, want it to contain %q", tt.style, got, tt.contains)
			}
		})
	}
}
