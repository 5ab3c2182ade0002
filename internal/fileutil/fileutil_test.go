package fileutil_test

// Notes:
// - WriteTempFile write and close failures are not tested: triggering them
//   is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdmerge/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temp pages handed to the browser
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{"html page", "<html><body><p>Dear Bob,</p></body></html>", "html"},
		{"empty page", "", "html"},
		{"non-ASCII text", "Dear Zoë,\n\nThanks for the café résumé.", "md"},
		{"large page", strings.Repeat("x", 1<<20), "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempFile(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}

			base := filepath.Base(path)
			if !strings.HasPrefix(base, "mdmerge-") || !strings.HasSuffix(base, "."+tt.extension) {
				t.Errorf("temp name = %q, want mdmerge-*.%s", base, tt.extension)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile error = %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content length = %d, want %d", len(data), len(tt.content))
			}

			cleanup()
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("temp file still exists after cleanup: %s", path)
			}
		})
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		extension string
		wantErr   error
	}{
		{"", fileutil.ErrExtensionEmpty},
		{"../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{`..\windows`, fileutil.ErrExtensionPathTraversal},
		{"html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		_, cleanup, err := fileutil.WriteTempFile("content", tt.extension)
		if cleanup != nil {
			cleanup()
			t.Errorf("WriteTempFile(%q) returned a cleanup for a rejected extension", tt.extension)
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("WriteTempFile(%q) error = %v, want %v", tt.extension, err, tt.wantErr)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Input checks
// ---------------------------------------------------------------------------

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "contacts.csv")
	if err := os.WriteFile(file, []byte("To\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		path     string
		wantFile bool
		wantDir  bool
	}{
		{file, true, false},
		{dir, false, true},
		{missing, false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := fileutil.FileExists(tt.path); got != tt.wantFile {
			t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
		}
		if got := fileutil.DirExists(tt.path); got != tt.wantDir {
			t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replace
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "0001-welcome.eml")

	if err := fileutil.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.html")
	err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644)
	if err == nil {
		t.Fatal("WriteFileAtomic() expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("error = %q, want 'creating temp file'", err)
	}
}
