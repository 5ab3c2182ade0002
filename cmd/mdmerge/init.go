package main

import (
	"fmt"

	"github.com/alnah/go-mdmerge/internal/assets"
)

// runInitCmd writes the starter files into the target directory
// (default ".") and returns an exit code. Existing files are never touched.
func runInitCmd(args []string, env *Environment) int {
	dir := "."
	switch len(args) {
	case 0:
	case 1:
		if args[0] == "-h" || args[0] == "--help" {
			printInitUsage(env.Stdout)
			return ExitSuccess
		}
		dir = args[0]
	default:
		return reportError(env, fmt.Errorf("%w: init takes at most one directory", ErrInvalidArgs), "")
	}

	written, err := assets.WriteStarter(dir)
	if err != nil {
		return reportError(env, err, "")
	}

	for _, p := range written {
		fmt.Fprintf(env.Stdout, "created %s\n", p)
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Edit contacts.csv and email_template.md, drop files into Attachments/,")
	fmt.Fprintln(env.Stdout, "then run 'mdmerge check' to preview and 'mdmerge merge' to create drafts.")
	return ExitSuccess
}
