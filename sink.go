package mdmerge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdmerge/internal/assets"
	"github.com/alnah/go-mdmerge/internal/fileutil"
	"github.com/alnah/go-mdmerge/internal/logging"
)

// Sink stores rendered drafts. A sink is opened once per run, receives every
// draft in row order and is closed once at the end.
type Sink interface {
	// Save stores d and returns where it went.
	Save(ctx context.Context, d *Draft) (string, error)
	Close() error
}

// SinkOpener starts a sink session. It is called only when there is at
// least one record to dispatch.
type SinkOpener func(ctx context.Context) (Sink, error)

// StaticSink returns an opener that always hands out s.
func StaticSink(s Sink) SinkOpener {
	return func(context.Context) (Sink, error) { return s, nil }
}

// Default output settings.
const (
	DefaultOutputDir  = "drafts"
	DefaultPDFTimeout = 30 * time.Second
)

// OutputOptions configures the file-based sinks.
type OutputOptions struct {
	Dir     string        // created if missing
	From    string        // sender shown in drafts; optional
	Timeout time.Duration // per-page budget for pdf
	CSS     string        // page stylesheet for html and pdf; empty means the built-in draft style
	Logger  *slog.Logger
}

func (o OutputOptions) withDefaults() OutputOptions {
	if o.Dir == "" {
		o.Dir = DefaultOutputDir
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultPDFTimeout
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.CSS == "" {
		// The embedded default always exists.
		o.CSS, _ = assets.LoadStyle(assets.DefaultStyleName)
	}
	return o
}

// NewSinkOpener returns an opener for the given output format.
func NewSinkOpener(format Format, opts OutputOptions) (SinkOpener, error) {
	opts = opts.withDefaults()
	switch format {
	case FormatEML, "":
		return func(context.Context) (Sink, error) { return NewEMLSink(opts) }, nil
	case FormatHTML:
		return func(context.Context) (Sink, error) { return NewHTMLSink(opts) }, nil
	case FormatPDF:
		return func(context.Context) (Sink, error) { return NewPDFSink(opts) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// MemorySink keeps drafts in memory. It backs dry runs and tests.
type MemorySink struct {
	mu     sync.Mutex
	drafts []Draft
	closed bool
	// FailLines makes Save fail for these source lines.
	FailLines map[int]error
}

// Compile-time interface check.
var _ Sink = (*MemorySink)(nil)

// Save records d.
func (m *MemorySink) Save(ctx context.Context, d *Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailLines[d.Line]; ok {
		return "", err
	}
	m.drafts = append(m.drafts, *d)
	return fmt.Sprintf("memory:%d", len(m.drafts)), nil
}

// Close marks the sink closed.
func (m *MemorySink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Drafts returns a copy of the saved drafts.
func (m *MemorySink) Drafts() []Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Draft(nil), m.drafts...)
}

// Closed reports whether Close was called.
func (m *MemorySink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ensureOutputDir creates dir and reports failure as ErrSinkOpen.
func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrSinkOpen, dir, err)
	}
	return nil
}

// unsafeName matches runs of characters kept out of file names.
var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLength bounds the subject part of generated file names.
const maxSlugLength = 48

// draftFileName builds "<line>-<subject-slug>.<ext>", unique inside a run
// because the line number is.
func draftFileName(d *Draft, ext string) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(d.Subject), "-"), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		slug = "draft"
	}
	return fmt.Sprintf("%04d-%s.%s", d.Line, slug, ext)
}

// writeDraftFile replaces path atomically so a canceled run never leaves a
// truncated draft.
func writeDraftFile(path string, data []byte) error {
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
