package mdmerge

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultSubject is used when a row leaves the subject blank.
const DefaultSubject = "No Subject"

// Job names the inputs of one merge run.
type Job struct {
	Contacts      string // CSV contact table
	Template      string // Markdown template
	AttachmentDir string // directory attachment names are resolved against
}

// Draft is one rendered message handed to a Sink.
type Draft struct {
	Line        int // source line of the contact row
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	HTML        string   // styled HTML fragment
	Attachments []string // absolute paths of existing files
	SourceDir   string   // template directory, for relative images
}

// Outcome records what happened to one contact row.
type Outcome struct {
	Line    int
	Subject string
	Output  string // where the sink stored the draft
	Err     error
}

// OK reports whether the draft was dispatched.
func (o Outcome) OK() bool { return o.Err == nil }

// Result summarizes a merge run.
type Result struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

func (r *Result) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.OK() {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// Failures returns the outcomes that did not dispatch.
func (r *Result) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Err returns ErrPartialFailure when at least one row failed.
func (r *Result) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}
	lines := make([]string, 0, r.Failed)
	for _, o := range r.Failures() {
		lines = append(lines, fmt.Sprint(o.Line))
	}
	return fmt.Errorf("%w: %d of %d (lines %s)", ErrPartialFailure, r.Failed, r.Total, strings.Join(lines, ", "))
}

// Stage is a step of the merge state machine.
type Stage int

// Merge stages in the order a run visits them. Rendering, Dispatched and
// Failed repeat once per record.
const (
	StageIdle Stage = iota
	StageEnvironmentValidated
	StageTemplateLoaded
	StageRecordsLoaded
	StageRendering
	StageDispatched
	StageFailed
	StageReported
)

var stageNames = []string{
	"idle",
	"environment-validated",
	"template-loaded",
	"records-loaded",
	"rendering",
	"dispatched",
	"failed",
	"reported",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Format selects how drafts are written.
type Format string

// Supported output formats.
const (
	FormatEML  Format = "eml"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatEML, FormatHTML, FormatPDF}

// ParseFormat validates a format name. Empty means FormatEML.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatEML, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("%w: %q (must be eml, html, or pdf)", ErrInvalidFormat, s)
	}
	return f, nil
}

// Extension returns the file extension, without the dot.
func (f Format) Extension() string { return string(f) }
