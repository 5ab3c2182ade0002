package main

// Notes:
// - loadEnvConfig: we test every MDMERGE_* variable is read verbatim.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test env overrides config and unset vars leave it alone.
// - Tests use t.Setenv() which prevents t.Parallel().
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-mdmerge/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDMERGE_CONFIG", "team")
	t.Setenv("MDMERGE_CONTACTS", "/data/contacts.csv")
	t.Setenv("MDMERGE_TEMPLATE", "/data/welcome.md")
	t.Setenv("MDMERGE_ATTACHMENTS", "/data/files")
	t.Setenv("MDMERGE_OUTPUT_DIR", "/data/out")
	t.Setenv("MDMERGE_FORMAT", "html")
	t.Setenv("MDMERGE_FROM", "hr@example.com")
	t.Setenv("MDMERGE_TIMEOUT", "2m")

	got := loadEnvConfig()
	want := &envConfig{
		ConfigPath:  "team",
		Contacts:    "/data/contacts.csv",
		Template:    "/data/welcome.md",
		Attachments: "/data/files",
		OutputDir:   "/data/out",
		Format:      "html",
		From:        "hr@example.com",
		Timeout:     "2m",
	}
	if *got != *want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, *want)
	}
}

func TestLoadEnvConfig_Unset(t *testing.T) {
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}

	if got := loadEnvConfig(); *got != (envConfig{}) {
		t.Errorf("loadEnvConfig() = %+v, want zero value", *got)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDMERGE_OUTPUT", "/tmp/out")
	t.Setenv("MDMERGE_FORMAT", "eml")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	if !strings.Contains(out, "unknown environment variable MDMERGE_OUTPUT (typo?)") {
		t.Errorf("expected warning for MDMERGE_OUTPUT, got %q", out)
	}
	if strings.Contains(out, "MDMERGE_FORMAT") {
		t.Errorf("known variable MDMERGE_FORMAT should not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment overlays config
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output.Format = "pdf"
		applyEnvConfig(&envConfig{
			Contacts:  "env.csv",
			OutputDir: "env-out",
			Format:    "html",
			From:      " ops@example.com ",
			Timeout:   "45s",
		}, cfg)

		if cfg.Input.Contacts != "env.csv" {
			t.Errorf("Contacts = %q, want env.csv", cfg.Input.Contacts)
		}
		if cfg.Output.Dir != "env-out" {
			t.Errorf("Output.Dir = %q, want env-out", cfg.Output.Dir)
		}
		if cfg.Output.Format != "html" {
			t.Errorf("Format = %q, want html", cfg.Output.Format)
		}
		if cfg.Output.From != "ops@example.com" {
			t.Errorf("From = %q, want trimmed ops@example.com", cfg.Output.From)
		}
		if cfg.Output.Timeout != "45s" {
			t.Errorf("Timeout = %q, want 45s", cfg.Output.Timeout)
		}
	})

	t.Run("unset values keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Input.Template = "from-file.md"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Input.Template != "from-file.md" {
			t.Errorf("Template = %q, want from-file.md", cfg.Input.Template)
		}
		if cfg.Output.Format != config.DefaultFormat {
			t.Errorf("Format = %q, want %q", cfg.Output.Format, config.DefaultFormat)
		}
	})
}
