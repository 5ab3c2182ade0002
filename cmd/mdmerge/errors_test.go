package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	mdmerge "github.com/alnah/go-mdmerge"
	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/config"
	"github.com/alnah/go-mdmerge/internal/records"
)

// ---------------------------------------------------------------------------
// TestHintFor - Actionable hints per error
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"browser", mdmerge.ErrBrowserConnect, "--format eml"},
		{"page load", mdmerge.ErrPageLoad, "--timeout"},
		{"partial", mdmerge.ErrPartialFailure, "run.log"},
		{"config not found", fmt.Errorf("%w: tried a.yaml, b.yml", config.ErrConfigNotFound), "--config"},
		{"missing input", mdmerge.ErrMissingInput, "mdmerge init"},
		{"missing columns", fmt.Errorf("loading: %w", &records.MissingColumnsError{Columns: []string{"To"}}), "columns"},
		{"encoding", charset.ErrNoSuitableEncoding, "UTF-8"},
		{"template decode", mdmerge.ErrTemplateDecode, "UTF-8"},
		{"sink open", mdmerge.ErrSinkOpen, "writable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, "run.log")
			if !strings.HasPrefix(got, "\n  hint: ") || !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want a hint containing %q", tt.err, got, tt.want)
			}
		})
	}

	if got := hintFor(errors.New("other"), ""); got != "" {
		t.Errorf("hintFor(unknown) = %q, want empty", got)
	}
}

func TestTriedPaths(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: tried team.yaml, team.yml", config.ErrConfigNotFound)
	got := triedPaths(err)
	if strings.Join(got, "|") != "team.yaml|team.yml" {
		t.Errorf("triedPaths() = %v", got)
	}
	if triedPaths(config.ErrConfigNotFound) != nil {
		t.Error("triedPaths() without a list should be nil")
	}
}

// ---------------------------------------------------------------------------
// TestReportError - Message and exit code
// ---------------------------------------------------------------------------

func TestReportError(t *testing.T) {
	t.Parallel()

	t.Run("points at the log", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := newTestEnv()
		code := reportError(env, fmt.Errorf("%w: contacts.csv", mdmerge.ErrMissingInput), "run.log")

		if code != ExitIO {
			t.Errorf("code = %d, want %d", code, ExitIO)
		}
		want := "Error: missing input: contacts.csv (see run.log for details)"
		if !strings.HasPrefix(stderr.String(), want) {
			t.Errorf("stderr = %q, want prefix %q", stderr.String(), want)
		}
	})

	t.Run("partial failure leaves the log to the hint", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := newTestEnv()
		reportError(env, mdmerge.ErrPartialFailure, "run.log")

		if strings.Count(stderr.String(), "run.log") != 1 {
			t.Errorf("stderr = %q, want run.log mentioned once", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestResultError - Batch outcome to error
// ---------------------------------------------------------------------------

func TestResultError(t *testing.T) {
	t.Parallel()

	browserErr := fmt.Errorf("%w: %w", mdmerge.ErrSinkSave, mdmerge.ErrBrowserConnect)

	tests := []struct {
		name     string
		res      *mdmerge.Result
		wantCode int
	}{
		{
			name:     "all ok",
			res:      &mdmerge.Result{Total: 1, Succeeded: 1, Outcomes: []mdmerge.Outcome{{Line: 2}}},
			wantCode: ExitSuccess,
		},
		{
			name: "some failed",
			res: &mdmerge.Result{Total: 2, Succeeded: 1, Failed: 1, Outcomes: []mdmerge.Outcome{
				{Line: 2}, {Line: 3, Err: browserErr},
			}},
			wantCode: ExitPartial,
		},
		{
			name: "all failed on the browser",
			res: &mdmerge.Result{Total: 2, Failed: 2, Outcomes: []mdmerge.Outcome{
				{Line: 2, Err: browserErr}, {Line: 3, Err: browserErr},
			}},
			wantCode: ExitBrowser,
		},
		{
			name: "all failed otherwise",
			res: &mdmerge.Result{Total: 1, Failed: 1, Outcomes: []mdmerge.Outcome{
				{Line: 2, Err: mdmerge.ErrNoRecipients},
			}},
			wantCode: ExitPartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(resultError(tt.res)); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
		})
	}
}
