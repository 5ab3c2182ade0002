package mdmerge

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const contactsHeader = "To,CC,BCC,Subject,Attachments,Name\n"

// fixture writes the inputs of a merge into a temp dir and returns the job.
func fixture(t *testing.T, contacts, template string, attachments map[string]string) Job {
	t.Helper()
	dir := t.TempDir()

	job := Job{
		Contacts:      filepath.Join(dir, "contacts.csv"),
		Template:      filepath.Join(dir, "email_template.md"),
		AttachmentDir: filepath.Join(dir, "Attachments"),
	}
	writeTestFile(t, job.Contacts, contacts)
	writeTestFile(t, job.Template, template)

	if attachments != nil {
		if err := os.MkdirAll(job.AttachmentDir, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, content := range attachments {
			writeTestFile(t, filepath.Join(job.AttachmentDir, name), content)
		}
	}
	return job
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// bufferLogger returns a debug-level text logger writing to buf.
func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
