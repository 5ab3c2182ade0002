package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  merge       Create one draft per contact row")
	fmt.Fprintln(w, "  check       Validate and render without writing drafts")
	fmt.Fprintln(w, "  init        Write starter files")
	fmt.Fprintln(w, "  doctor      Check system requirements")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdmerge help <command>' for details on a specific command.")
}

// printMergeFlags prints the flags shared by merge and check.
func printMergeFlags(w io.Writer) {
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --template <path>     Markdown template (default email_template.md)")
	fmt.Fprintln(w, "  -a, --attachments <dir>   Attachment directory (default Attachments)")
	fmt.Fprintln(w, "      --threshold <f>       Encoding detection confidence (0-1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Draft directory (default drafts)")
	fmt.Fprintln(w, "  -f, --format <s>          Draft format: eml, html, pdf (default eml)")
	fmt.Fprintln(w, "      --from <address>      Sender shown in drafts")
	fmt.Fprintln(w, "      --timeout <d>         PDF page load timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --font-family <s>     CSS font-family of the body")
	fmt.Fprintln(w, "      --font-size <s>       CSS font-size of the body")
	fmt.Fprintln(w, "      --sanitize-html       Strip unsafe HTML from rendered drafts")
	fmt.Fprintln(w, "      --hard-wraps          Treat template newlines as line breaks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-file <path>     Log file ({timestamp} is expanded)")
	fmt.Fprintln(w, "      --no-log-file         Disable the log file")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDMERGE_CONFIG, MDMERGE_CONTACTS, MDMERGE_TEMPLATE, MDMERGE_ATTACHMENTS,")
	fmt.Fprintln(w, "  MDMERGE_OUTPUT_DIR, MDMERGE_FORMAT, MDMERGE_FROM, MDMERGE_TIMEOUT")
	fmt.Fprintln(w, "  Flags override environment, which overrides the config file.")
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge merge [contacts.csv] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the template once per contact row and write one draft each.")
	fmt.Fprintln(w, "Rows that fail are logged and skipped; the rest of the batch continues.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  contacts.csv    Contact table (default contacts.csv)")
	fmt.Fprintln(w)
	printMergeFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 all drafts created, 1 unexpected error, 2 invalid usage or input,")
	fmt.Fprintln(w, "  3 missing or unwritable files, 4 browser error, 5 some rows failed")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge check [contacts.csv] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load, validate and render every row without writing drafts,")
	fmt.Fprintln(w, "then print one report line per row. No log file unless --log-file is given.")
	fmt.Fprintln(w)
	printMergeFlags(w)
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge init [dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write contacts.csv, email_template.md, mdmerge.yaml and Attachments/")
	fmt.Fprintln(w, "into dir (default: current directory). Existing files are never overwritten.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge doctor [--json] [contacts.csv]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for pdf output and a writable temp directory.")
	fmt.Fprintln(w, "With a contact table, also report the encoding it would be read with.")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmerge completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdmerge completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(mdmerge completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdmerge completion fish > ~/.config/fish/completions/mdmerge.fish")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "merge":
		printMergeUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdmerge version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdmerge help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
