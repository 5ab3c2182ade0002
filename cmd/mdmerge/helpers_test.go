package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fixedNow is the clock used by CLI tests.
var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// newTestEnv returns an Environment writing into buffers.
func newTestEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// mergeInputs are the files of a small merge project.
type mergeInputs struct {
	dir      string
	contacts string
	template string
	output   string
}

// writeMergeInputs creates a contact table and template in a temp dir.
// contacts is the CSV body; a standard header is prepended.
func writeMergeInputs(t *testing.T, contacts string) mergeInputs {
	t.Helper()

	dir := t.TempDir()
	in := mergeInputs{
		dir:      dir,
		contacts: filepath.Join(dir, "contacts.csv"),
		template: filepath.Join(dir, "email_template.md"),
		output:   filepath.Join(dir, "drafts"),
	}

	header := "To,CC,BCC,Subject,Attachments,Name\n"
	if err := os.WriteFile(in.contacts, []byte(header+contacts), 0o644); err != nil {
		t.Fatalf("writing contacts: %v", err)
	}
	if err := os.WriteFile(in.template, []byte("Dear <<Name>>,\n\nSee you soon.\n"), 0o644); err != nil {
		t.Fatalf("writing template: %v", err)
	}
	return in
}

// inputArgs returns merge/check arguments pointing at the inputs.
func (in mergeInputs) inputArgs(extra ...string) []string {
	base := []string{in.contacts, "-t", in.template, "-o", in.output, "-a", filepath.Join(in.dir, "Attachments")}
	return append(base, extra...)
}

// args is inputArgs with the log file disabled.
func (in mergeInputs) args(extra ...string) []string {
	return in.inputArgs(append([]string{"--no-log-file"}, extra...)...)
}

// listDir returns the names in dir, or nil when it does not exist.
func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}
