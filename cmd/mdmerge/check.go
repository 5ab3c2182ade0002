package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	flag "github.com/spf13/pflag"

	mdmerge "github.com/alnah/go-mdmerge"
)

// Check report column widths, in terminal cells.
const (
	checkToWidth      = 32
	checkSubjectWidth = 40
)

// runCheckCmd loads, validates and renders every row without writing any
// draft, then prints a per-row report. Exit codes match merge.
func runCheckCmd(ctx context.Context, args []string, env *Environment) int {
	f, positional, err := parseMergeFlags("check", args, env.Stdout)
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

	// A dry run leaves no log file behind unless one is asked for.
	if f.log.file == "" {
		cfg.Log.File = ""
	}
	logger, err := newRunLogger(cfg, &f.common, env)
	if err != nil {
		return reportError(env, err, "")
	}
	defer func() { _ = logger.Close() }()

	sink := &mdmerge.MemorySink{}
	merger, err := newMerger(cfg, logger.Logger, mdmerge.StaticSink(sink))
	if err != nil {
		return reportError(env, err, logger.Path())
	}

	res, err := merger.Run(ctx, jobFor(cfg))
	if err != nil && res == nil {
		return reportError(env, err, logger.Path())
	}

	printCheckReport(env.Stdout, res, sink.Drafts())

	if err != nil {
		err = fmt.Errorf("%w after %d of %d rows: %w", ErrInterrupted, len(res.Outcomes), res.Total, err)
		return reportError(env, err, logger.Path())
	}
	if res.Failed > 0 {
		return ExitPartial
	}
	return ExitSuccess
}

// printCheckReport writes one line per contact row, then a summary.
func printCheckReport(w io.Writer, res *mdmerge.Result, drafts []mdmerge.Draft) {
	if res.Total == 0 {
		fmt.Fprintln(w, "No contacts to check")
		return
	}

	byLine := make(map[int]mdmerge.Draft, len(drafts))
	for _, d := range drafts {
		byLine[d.Line] = d
	}

	fmt.Fprintf(w, "%-6s %-6s %s %s %s\n", "LINE", "STATUS",
		cell("TO", checkToWidth), cell("SUBJECT", checkSubjectWidth), "NOTES")
	for _, o := range res.Outcomes {
		d := byLine[o.Line]
		status, notes := "ok", attachmentNote(len(d.Attachments))
		if !o.OK() {
			status, notes = "FAILED", o.Err.Error()
		}
		fmt.Fprintf(w, "%-6d %-6s %s %s %s\n", o.Line, status,
			cell(strings.Join(d.To, ", "), checkToWidth), cell(o.Subject, checkSubjectWidth), notes)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d rows: %d ok, %d failed\n", res.Total, res.Succeeded, res.Failed)
}

// cell truncates and pads s to width terminal cells. Wide runes count twice.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func attachmentNote(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return "1 attachment"
	default:
		return fmt.Sprintf("%d attachments", n)
	}
}
