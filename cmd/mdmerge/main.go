package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args (including the program name) to a command and
// returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "merge":
		return runMergeCmd(ctx, rest, env)
	case "check":
		return runCheckCmd(ctx, rest, env)
	case "init":
		return runInitCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			return reportError(env, err, "")
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdmerge %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "%v: %s\n", ErrUnknownCmd, cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// hasVerboseFlag scans raw arguments before any command parses them.
func hasVerboseFlag(args []string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return a == "-v" || a == "--verbose"
	})
}
