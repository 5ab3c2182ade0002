package assets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLoadStyle - Package-level embedded styles
// ---------------------------------------------------------------------------

func TestLoadStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		style    string
		contains string
		wantErr  error
	}{
		{"draft style", "draft", ".mdmerge-envelope", nil},
		{"print style", "print", "page-break-inside", nil},
		{"default name resolves", DefaultStyleName, "max-width", nil},
		{"unknown style", "neon", "", ErrStyleNotFound},
		{"traversal rejected", "../styles/draft", "", ErrInvalidStyleName},
		{"extension rejected", "draft.css", "", ErrInvalidStyleName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadStyle(tt.style)
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
				t.Errorf("LoadStyle(%q) missing %q", tt.style, tt.contains)
			}
		})
	}
}

func TestStyleNames(t *testing.T) {
	t.Parallel()

	got := StyleNames()
	if !slices.Equal(got, []string{"draft", "print"}) {
		t.Errorf("StyleNames() = %v, want [draft print]", got)
	}
}

// ---------------------------------------------------------------------------
// TestWriteStarter - init scaffolding
// ---------------------------------------------------------------------------

func TestStarterFiles(t *testing.T) {
	t.Parallel()

	got := StarterFiles()
	for _, want := range []string{"contacts.csv", "email_template.md", "mdmerge.yaml", "Attachments/README.txt"} {
		if !slices.Contains(got, want) {
			t.Errorf("StarterFiles() = %v, missing %q", got, want)
		}
	}
}

func TestWriteStarter(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "campaign")

	written, err := WriteStarter(dir)
	if err != nil {
		t.Fatalf("WriteStarter() error = %v", err)
	}
	if len(written) != len(StarterFiles()) {
		t.Errorf("wrote %d files, want %d", len(written), len(StarterFiles()))
	}

	contacts, err := os.ReadFile(filepath.Join(dir, "contacts.csv"))
	if err != nil {
		t.Fatalf("reading contacts.csv: %v", err)
	}
	if !strings.HasPrefix(string(contacts), "To,CC,BCC,Subject,Attachments,") {
		t.Errorf("contacts.csv header = %q", strings.SplitN(string(contacts), "\n", 2)[0])
	}

	tmpl, err := os.ReadFile(filepath.Join(dir, "email_template.md"))
	if err != nil {
		t.Fatalf("reading email_template.md: %v", err)
	}
	if !strings.Contains(string(tmpl), "<<Name>>") {
		t.Error("template has no <<Name>> placeholder")
	}

	if info, err := os.Stat(filepath.Join(dir, "Attachments")); err != nil || !info.IsDir() {
		t.Errorf("Attachments directory not created: %v", err)
	}
}

func TestWriteStarter_RefusesToOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "email_template.md")
	if err := os.WriteFile(existing, []byte("my letter"), 0o644); err != nil {
		t.Fatal(err)
	}

	written, err := WriteStarter(dir)
	if !errors.Is(err, ErrStarterExists) {
		t.Fatalf("WriteStarter() error = %v, want ErrStarterExists", err)
	}
	if !strings.Contains(err.Error(), "email_template.md") {
		t.Errorf("error = %q, want the existing file named", err)
	}
	if len(written) != 0 {
		t.Errorf("wrote %v, want nothing", written)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "my letter" {
		t.Errorf("existing template changed to %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "contacts.csv")); !os.IsNotExist(err) {
		t.Error("contacts.csv written despite conflict")
	}
}

func TestWriteStarter_UnwritableDir(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := WriteStarter(filepath.Join(blocker, "sub"))
	if !errors.Is(err, ErrStarterWrite) {
		t.Errorf("WriteStarter() error = %v, want ErrStarterWrite", err)
	}
}
