package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	mdmerge "github.com/alnah/go-mdmerge"
)

// runMergeCmd executes the merge command and returns an exit code.
func runMergeCmd(ctx context.Context, args []string, env *Environment) int {
	f, positional, err := parseMergeFlags("merge", args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return reportError(env, err, "")
	}

	warnUnknownEnvVars(env.Stderr)
	cfg, err := loadSettings(f, positional, loadEnvConfig())
	if err != nil {
		return reportError(env, err, "")
	}

	logger, err := newRunLogger(cfg, &f.common, env)
	if err != nil {
		return reportError(env, err, "")
	}
	defer func() { _ = logger.Close() }()

	merger, err := newMerger(cfg, logger.Logger, nil)
	if err != nil {
		return reportError(env, err, logger.Path())
	}

	res, err := merger.Run(ctx, jobFor(cfg))
	if err != nil && res == nil {
		return reportError(env, err, logger.Path())
	}

	if !f.common.quiet {
		printSummary(env, res, cfg.Input.Contacts)
	}

	if err != nil {
		// Canceled mid-batch: drafts already written stay in place.
		err = fmt.Errorf("%w after %d of %d rows: %w", ErrInterrupted, len(res.Outcomes), res.Total, err)
		return reportError(env, err, logger.Path())
	}
	if err := resultError(res); err != nil {
		return reportError(env, err, logger.Path())
	}
	return ExitSuccess
}

// printSummary writes the one-line batch summary to stdout.
func printSummary(env *Environment, res *mdmerge.Result, contacts string) {
	if res.Total == 0 {
		fmt.Fprintf(env.Stdout, "No contacts to process in %s\n", contacts)
		return
	}
	fmt.Fprintf(env.Stdout, "Successfully created %d of %d drafts\n", res.Succeeded, res.Total)
}
