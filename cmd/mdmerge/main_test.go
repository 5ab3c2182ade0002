package main

import (
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"mdmerge"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: mdmerge"},
		},
		{
			name:         "version command exits 0",
			args:         []string{"mdmerge", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{fmt.Sprintf("mdmerge %s", Version)},
		},
		{
			name:         "help command exits 0",
			args:         []string{"mdmerge", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdmerge", "Commands:"},
		},
		{
			name:         "--help flag exits 0",
			args:         []string{"mdmerge", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Commands:"},
		},
		{
			name:         "merge --help exits 0",
			args:         []string{"mdmerge", "merge", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: mdmerge merge"},
		},
		{
			name:         "unknown command exits with ExitUsage",
			args:         []string{"mdmerge", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown"},
		},
		{
			name:         "completion bash exits 0",
			args:         []string{"mdmerge", "completion", "bash"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"_mdmerge"},
		},
		{
			name:         "unsupported shell returns ExitUsage",
			args:         []string{"mdmerge", "completion", "tcsh"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unsupported shell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := newTestEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Early flag scan for automaxprocs logging
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"merge", "-v"}, true},
		{[]string{"merge", "--verbose", "c.csv"}, true},
		{[]string{"merge", "-q"}, false},
		{[]string{"version"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	if Version == "" {
		t.Error("Version should not be empty")
	}
}
