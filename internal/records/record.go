// Package records loads the contact table that drives a merge.
//
// A table is a CSV file with a header line. A handful of columns carry the
// envelope of each draft (recipients, subject, attachments); every other
// column is passed through untouched so templates can reference it.
package records

import (
	"slices"
	"strings"
)

// Default envelope column names.
const (
	DefaultTo          = "To"
	DefaultCC          = "CC"
	DefaultBCC         = "BCC"
	DefaultSubject     = "Subject"
	DefaultAttachments = "Attachments"
)

// Schema names the columns that make up a draft's envelope.
type Schema struct {
	To          string
	CC          string
	BCC         string
	Subject     string
	Attachments string
}

// DefaultSchema returns the column names used when none are configured.
func DefaultSchema() Schema {
	return Schema{
		To:          DefaultTo,
		CC:          DefaultCC,
		BCC:         DefaultBCC,
		Subject:     DefaultSubject,
		Attachments: DefaultAttachments,
	}
}

// withDefaults fills blank names from DefaultSchema.
func (s Schema) withDefaults() Schema {
	d := DefaultSchema()
	if strings.TrimSpace(s.To) == "" {
		s.To = d.To
	}
	if strings.TrimSpace(s.CC) == "" {
		s.CC = d.CC
	}
	if strings.TrimSpace(s.BCC) == "" {
		s.BCC = d.BCC
	}
	if strings.TrimSpace(s.Subject) == "" {
		s.Subject = d.Subject
	}
	if strings.TrimSpace(s.Attachments) == "" {
		s.Attachments = d.Attachments
	}
	return s
}

// Required returns the envelope column names in a fixed order.
func (s Schema) Required() []string {
	return []string{s.To, s.CC, s.BCC, s.Subject, s.Attachments}
}

// Missing returns the required names absent from header, in Required order.
func (s Schema) Missing(header []string) []string {
	var missing []string
	for _, name := range s.Required() {
		if !slices.Contains(header, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is one data row of the contact table.
// Records are built by the Loader and never modified afterwards.
type Record struct {
	line   int
	schema Schema
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from header names and values of equal length.
// Missing values are treated as empty.
func NewRecord(line int, schema Schema, header, values []string) Record {
	r := Record{
		line:   line,
		schema: schema.withDefaults(),
		fields: make([]Field, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		var v string
		if i < len(values) {
			v = values[i]
		}
		r.fields[i] = Field{Name: name, Value: v}
		r.index[name] = i
	}
	return r
}

// Line returns the 1-based line of the row in the source file.
func (r Record) Line() int { return r.line }

// Fields returns every field in column order.
func (r Record) Fields() []Field {
	return slices.Clone(r.fields)
}

// Get returns the value of the named column.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Value returns the named column's value, or "" when absent.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Extra returns the fields that are not part of the envelope.
func (r Record) Extra() []Field {
	known := r.schema.Required()
	var extra []Field
	for _, f := range r.fields {
		if !slices.Contains(known, f.Name) {
			extra = append(extra, f)
		}
	}
	return extra
}

// Envelope returns the addressing part of the record.
func (r Record) Envelope() Envelope {
	return Envelope{
		To:          SplitRecipients(r.Value(r.schema.To)),
		CC:          SplitRecipients(r.Value(r.schema.CC)),
		BCC:         SplitRecipients(r.Value(r.schema.BCC)),
		Subject:     strings.TrimSpace(r.Value(r.schema.Subject)),
		Attachments: SplitList(r.Value(r.schema.Attachments)),
	}
}

// Envelope holds the recipients, subject and attachment names of one draft.
type Envelope struct {
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	Attachments []string // file names relative to the attachment directory
}

// SplitRecipients splits an address list on commas and semicolons.
// Blank entries are dropped.
func SplitRecipients(s string) []string {
	return splitOn(s, func(r rune) bool { return r == ',' || r == ';' })
}

// SplitList splits a comma-separated list. Blank entries are dropped.
func SplitList(s string) []string {
	return splitOn(s, func(r rune) bool { return r == ',' })
}

func splitOn(s string, sep func(rune) bool) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
