// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdmerge/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "or use --format eml, which needs no browser")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the PDF page load timeout.
func ForTimeout() string {
	return format("for large drafts or slow images, use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdmerge/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/go-mdmerge") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingInput returns hints when the contact table or template is absent.
func ForMissingInput() string {
	return format("run 'mdmerge init' to create starter files, or pass --template and a contacts path")
}

// ForMissingColumns suggests remapping columns when the header is not the
// default one.
func ForMissingColumns(missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return format("add the columns to the header, or map existing ones in the config 'columns' section")
}

// ForEncoding returns hints for contact tables no candidate could decode.
func ForEncoding() string {
	return formatHints([]string{
		"re-save the table as UTF-8",
		"or list its encoding under 'encoding.fallbacks'",
	})
}

// ForTemplateDecode returns hints for templates that are not UTF-8.
func ForTemplateDecode() string {
	return format("the template must be saved as UTF-8")
}

// ForPartialFailure points at the log for per-row causes.
func ForPartialFailure(logPath string) string {
	if logPath == "" {
		return format("rerun with --verbose to see why rows failed")
	}
	return format("see " + logPath + " for the failing rows")
}

// slashed normalizes separators so Windows paths match too.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
