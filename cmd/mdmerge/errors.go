package main

import (
	"errors"
	"fmt"
	"strings"

	mdmerge "github.com/alnah/go-mdmerge"
	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/config"
	"github.com/alnah/go-mdmerge/internal/hints"
	"github.com/alnah/go-mdmerge/internal/records"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs = errors.New("invalid arguments")
	ErrUnknownCmd  = errors.New("unknown command")
	ErrInterrupted = errors.New("merge interrupted")
)

// reportError prints err with its hints and returns the matching exit code.
// When a log file was written, the message points at it.
func reportError(env *Environment, err error, logPath string) int {
	msg := "Error: " + err.Error()
	if logPath != "" && !errors.Is(err, mdmerge.ErrPartialFailure) {
		msg += " (see " + logPath + " for details)"
	}
	fmt.Fprintln(env.Stderr, msg+hintFor(err, logPath))
	return exitCodeFor(err)
}

// hintFor returns the actionable hint for err, or "".
func hintFor(err error, logPath string) string {
	var missing *records.MissingColumnsError
	switch {
	case errors.Is(err, mdmerge.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, mdmerge.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, mdmerge.ErrPartialFailure):
		return hints.ForPartialFailure(logPath)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err))
	case errors.Is(err, mdmerge.ErrMissingInput):
		return hints.ForMissingInput()
	case errors.As(err, &missing):
		return hints.ForMissingColumns(missing.Columns)
	case errors.Is(err, charset.ErrNoSuitableEncoding):
		return hints.ForEncoding()
	case errors.Is(err, mdmerge.ErrTemplateDecode):
		return hints.ForTemplateDecode()
	case errors.Is(err, mdmerge.ErrSinkOpen):
		return hints.ForOutputDirectory()
	}
	return ""
}

// triedPaths extracts the locations listed by a config lookup failure.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// resultError turns a finished batch into the error the CLI reports.
// When no row got through and the first failure is a browser problem,
// that cause is kept so the exit code and hints point at Chrome.
func resultError(res *mdmerge.Result) error {
	err := res.Err()
	if err == nil || res.Succeeded > 0 {
		return err
	}
	first := res.Failures()[0].Err
	if isBrowserError(first) {
		return fmt.Errorf("%w (first failure: %w)", err, first)
	}
	return err
}

func isBrowserError(err error) bool {
	return errors.Is(err, mdmerge.ErrBrowserConnect) ||
		errors.Is(err, mdmerge.ErrPageCreate) ||
		errors.Is(err, mdmerge.ErrPageLoad) ||
		errors.Is(err, mdmerge.ErrPDFGeneration)
}
