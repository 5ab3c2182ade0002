package pipeline

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdmerge/internal/records"
)

// Placeholder delimiters.
const (
	PlaceholderOpen  = "<<"
	PlaceholderClose = ">>"
)

// placeholderPattern finds <<Name>> tokens; names cannot contain angle brackets.
var placeholderPattern = regexp.MustCompile(`<<([^<>]+)>>`)

// Placeholder returns the template token for a column name.
func Placeholder(name string) string {
	return PlaceholderOpen + name + PlaceholderClose
}

// Substitute replaces every <<Name>> token in tmpl with the value of the
// field called Name. Matching is literal and case-sensitive, and the output
// is never scanned again, so a value containing <<Other>> stays as written.
// Tokens without a matching field are left verbatim.
func Substitute(tmpl string, fields []records.Field) string {
	if len(fields) == 0 || !strings.Contains(tmpl, PlaceholderOpen) {
		return tmpl
	}

	pairs := make([]string, 0, 2*len(fields))
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		pairs = append(pairs, Placeholder(f.Name), f.Value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Placeholders lists the distinct tokens used in tmpl, in order of first use.
func Placeholders(tmpl string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if name := m[1]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
