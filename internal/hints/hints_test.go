package hints

// Notes:
// - No t.Parallel() here: TestForBrowserConnect uses t.Setenv and swaps the
//   package-level IsInContainer.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment-aware Chrome hints
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		ci          string
		container   bool
		noSandbox   string
		browserBin  string
		want        []string
		wantMissing []string
	}{
		{
			name: "CI without sandbox flag",
			ci:   "true",
			want: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--format eml"},
		},
		{
			name:      "container without sandbox flag",
			container: true,
			want:      []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "sandbox already disabled",
			container:   true,
			noSandbox:   "1",
			wantMissing: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "custom browser set",
			browserBin:  "/usr/bin/chromium",
			wantMissing: []string{"ROD_BROWSER_BIN", "ROD_NO_SANDBOX"},
		},
		{
			name:        "everything configured",
			ci:          "true",
			container:   true,
			noSandbox:   "1",
			browserBin:  "/usr/bin/chromium",
			want:        []string{"--format eml"},
			wantMissing: []string{"ROD_"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := IsInContainer
			defer func() { IsInContainer = orig }()
			IsInContainer = func() bool { return tt.container }

			for _, k := range []string{"GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
				t.Setenv(k, "")
			}
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			hint := ForBrowserConnect()
			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint = %q, want hint prefix", hint)
			}
			for _, w := range tt.want {
				if !strings.Contains(hint, w) {
					t.Errorf("hint = %q, want it to contain %q", hint, w)
				}
			}
			for _, w := range tt.wantMissing {
				if strings.Contains(hint, w) {
					t.Errorf("hint = %q, should not contain %q", hint, w)
				}
			}
		})
	}
}

func TestForTimeout(t *testing.T) {
	hint := ForTimeout()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "--timeout") {
		t.Error("expected --timeout flag mention")
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		wantHint bool
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			wantHint: true,
			contains: "--config",
		},
		{
			name:     "with paths",
			paths:    []string{"./foo.yaml", "~/.config/go-mdmerge/foo.yaml"},
			wantHint: true,
			contains: "go-mdmerge/foo.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)

			if tt.wantHint && !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForOutputDirectory(t *testing.T) {
	hint := ForOutputDirectory()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "parent directory") {
		t.Error("expected parent directory mention")
	}
}

func TestForConfigNotFound_WindowsPath(t *testing.T) {
	hint := ForConfigNotFound([]string{`C:\Users\a\AppData\Roaming\.config\go-mdmerge\work.yaml`})

	if !strings.Contains(hint, "or create") {
		t.Errorf("expected Windows user config path suggested, got %q", hint)
	}
}

func TestForMissingColumns(t *testing.T) {
	if got := ForMissingColumns(nil); got != "" {
		t.Errorf("ForMissingColumns(nil) = %q, want empty", got)
	}
	hint := ForMissingColumns([]string{"BCC"})
	if !strings.Contains(hint, "'columns'") {
		t.Errorf("expected columns section mention, got %q", hint)
	}
}

func TestForEncoding(t *testing.T) {
	hint := ForEncoding()

	if !strings.Contains(hint, "UTF-8") || !strings.Contains(hint, "encoding.fallbacks") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestForPartialFailure(t *testing.T) {
	tests := []struct {
		name     string
		logPath  string
		contains string
	}{
		{"with log file", "mdmerge_2026.log", "see mdmerge_2026.log"},
		{"without log file", "", "--verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hint := ForPartialFailure(tt.logPath); !strings.Contains(hint, tt.contains) {
				t.Errorf("ForPartialFailure(%q) = %q, want %q", tt.logPath, hint, tt.contains)
			}
		})
	}
}

func TestFormat_Consistency(t *testing.T) {
	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForMissingInput(),
		ForTemplateDecode(),
		ForEncoding(),
		ForBrowserConnect(),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
