package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values (shells, command names)
	FilePattern string   // glob for file arguments (e.g., "*.csv")
	TakesDir    bool     // accepts a directory argument
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format": {Values: []string{"eml", "html", "pdf"}},

	"config":   {FileGlob: "*.yaml,*.yml"},
	"template": {FileGlob: "*.md,*.markdown"},
	"log-file": {FileGlob: "*.log"},

	"attachments": {IsDir: true},
	"output":      {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// commandNames lists every command in help order.
var commandNames = []string{"merge", "check", "init", "doctor", "completion", "version", "help"}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	shared := extractFlagsFromFlagSet(newMergeFlagSet("merge", &mergeFlags{}))

	return []commandDef{
		{Name: "merge", Desc: "Create one draft per contact row", Flags: shared, FilePattern: "*.csv"},
		{Name: "check", Desc: "Validate and render without writing drafts", Flags: shared, FilePattern: "*.csv"},
		{Name: "init", Desc: "Write starter files", TakesDir: true},
		{
			Name:        "doctor",
			Desc:        "Check system requirements",
			Flags:       []flagDef{{Long: "json", Type: flagBool, Desc: "print results as JSON"}},
			FilePattern: "*.csv",
		},
		{Name: "completion", Desc: "Generate shell completion script", Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: commandNames},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// globs splits a comma separated glob list.
func globs(pattern string) []string {
	var out []string
	for _, g := range strings.Split(pattern, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# bash completion for mdmerge\n")
	b.WriteString("# eval \"$(mdmerge completion bash)\"\n\n")
	b.WriteString("_mdmerge() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(commandNames, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		writeBashFlagValues(&b, c.Flags)
		if len(c.Flags) > 0 {
			var names []string
			for _, f := range c.Flags {
				names = append(names, "--"+f.Long)
				if f.Short != "" {
					names = append(names, "-"+f.Short)
				}
			}
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(names, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, "        COMPREPLY=(%s)\n", bashFiles(c.FilePattern))
		case c.TakesDir:
			b.WriteString("        COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _mdmerge mdmerge\n")
	return b.String()
}

// writeBashFlagValues completes the value following a flag that takes one.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		if f.Type == flagBool {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern = "-" + f.Short + "|" + pattern
		}

		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"$cur\"))", strings.Join(f.Values, " "))
		case flagFile:
			action = fmt.Sprintf("COMPREPLY=(%s)", bashFiles(f.FileGlob))
		case flagDir:
			action = "COMPREPLY=($(compgen -d -- \"$cur\"))"
		default:
			action = "COMPREPLY=()"
		}
		cases = append(cases, fmt.Sprintf("        %s)\n            %s\n            return\n            ;;\n", pattern, action))
	}
	if len(cases) == 0 {
		return
	}
	b.WriteString("        case \"$prev\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	b.WriteString("        esac\n")
}

// bashFiles completes files matching any glob, plus directories to descend into.
func bashFiles(pattern string) string {
	var parts []string
	for _, g := range globs(pattern) {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"$cur\")", g))
	}
	parts = append(parts, "$(compgen -d -- \"$cur\")")
	return strings.Join(parts, " ")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("#compdef mdmerge\n")
	b.WriteString("# eval \"$(mdmerge completion zsh)\"\n\n")
	b.WriteString("_mdmerge() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshQuote(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  words=(\"${words[@]:1}\")\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case $words[1] in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n        %s", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n        '1:argument:(%s)'", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(&b, " \\\n        '*:file:_files -g \"%s\"'", strings.Join(globs(c.FilePattern), " "))
		case c.TakesDir:
			b.WriteString(" \\\n        '1:directory:_files -/'")
		}
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _mdmerge mdmerge\n")
	return b.String()
}

// zshFlagSpec renders one _arguments spec.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshQuote(f.Desc) + "]"

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"" + strings.Join(globs(f.FileGlob), " ") + "\""
	case flagDir:
		action = ":directory:_files -/"
	case flagInt, flagFloat:
		action = ":number:"
	default:
		action = ":value:"
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// zshQuote escapes text placed inside a single-quoted _arguments spec.
func zshQuote(s string) string {
	return strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`).Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	b.WriteString("# fish completion for mdmerge\n")
	b.WriteString("# mdmerge completion fish > ~/.config/fish/completions/mdmerge.fish\n\n")
	b.WriteString("complete -c mdmerge -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c mdmerge -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := "'__fish_seen_subcommand_from " + c.Name + "'"
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c mdmerge -n %s%s\n", cond, fishFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c mdmerge -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			for _, g := range globs(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c mdmerge -n %s -a '(__fish_complete_suffix %s)'\n", cond, strings.TrimPrefix(g, "*"))
			}
		case c.TakesDir:
			fmt.Fprintf(&b, "complete -c mdmerge -n %s -a '(__fish_complete_directories)'\n", cond)
		}
	}
	return b.String()
}

// fishFlagSpec renders the option part of one complete line.
func fishFlagSpec(f flagDef) string {
	var b strings.Builder
	if f.Short != "" {
		b.WriteString(" -s " + f.Short)
	}
	b.WriteString(" -l " + f.Long)
	fmt.Fprintf(&b, " -d '%s'", fishQuote(f.Desc))

	switch f.Type {
	case flagBool:
	case flagEnum:
		fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
	case flagFile:
		b.WriteString(" -r -F")
	case flagDir:
		b.WriteString(" -x -a '(__fish_complete_directories)'")
	default:
		b.WriteString(" -x")
	}
	return b.String()
}

// fishQuote escapes text placed inside single quotes.
func fishQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
