package main

import (
	"errors"
	"os"

	mdmerge "github.com/alnah/go-mdmerge"
	"github.com/alnah/go-mdmerge/internal/assets"
	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/config"
	"github.com/alnah/go-mdmerge/internal/logging"
	"github.com/alnah/go-mdmerge/internal/records"
)

// Exit codes for the mdmerge CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every draft created
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input validation
	ExitIO      = 3 // Missing input, permission denied, unwritable output
	ExitBrowser = 4 // Browser/Chrome errors (pdf output)
	ExitPartial = 5 // Batch finished but some rows failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4). Checked first: a batch where every row hit
	// the browser reports the browser, not the partial failure.
	if isBrowserError(err) {
		return ExitBrowser
	}

	// Partial failure (exit 5)
	if errors.Is(err, mdmerge.ErrPartialFailure) {
		return ExitPartial
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdmerge.ErrMissingInput) ||
		errors.Is(err, mdmerge.ErrTemplateRead) ||
		errors.Is(err, mdmerge.ErrSinkOpen) ||
		errors.Is(err, charset.ErrRead) ||
		errors.Is(err, logging.ErrLogFile) ||
		errors.Is(err, assets.ErrStarterWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidArgs) ||
		errors.Is(err, ErrUnknownCmd) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdmerge.ErrInvalidFormat) ||
		errors.Is(err, mdmerge.ErrTemplateDecode) ||
		errors.Is(err, records.ErrMissingColumns) ||
		errors.Is(err, records.ErrDuplicateColumn) ||
		errors.Is(err, records.ErrMalformedTable) ||
		errors.Is(err, charset.ErrNoSuitableEncoding) ||
		errors.Is(err, assets.ErrStarterExists) {
		return ExitUsage
	}

	return ExitGeneral
}
