package mdmerge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alnah/go-mdmerge/internal/logging"
	"github.com/alnah/go-mdmerge/internal/pipeline"
	"github.com/alnah/go-mdmerge/internal/records"
	"github.com/alnah/go-mdmerge/internal/sanitize"
)

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger used for the run.
func WithLogger(l *slog.Logger) Option {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithLoader replaces the contact table loader.
func WithLoader(l *records.Loader) Option {
	return func(m *Merger) {
		if l != nil {
			m.loader = l
		}
	}
}

// WithRenderer replaces the template renderer.
func WithRenderer(r *pipeline.Renderer) Option {
	return func(m *Merger) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithSinkOpener sets where drafts go. Required.
func WithSinkOpener(open SinkOpener) Option {
	return func(m *Merger) {
		m.openSink = open
	}
}

// Merger runs the merge pipeline: validate inputs, load the template and the
// contact table, then render and dispatch one draft per record.
//
// Failures of a single record are recorded in the Result and never stop
// the batch. Problems with the inputs as a whole abort before any draft
// is produced.
type Merger struct {
	logger   *slog.Logger
	loader   *records.Loader
	renderer *pipeline.Renderer
	openSink SinkOpener
}

// NewMerger creates a Merger. A sink opener must be supplied with
// WithSinkOpener.
func NewMerger(opts ...Option) (*Merger, error) {
	m := &Merger{logger: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.openSink == nil {
		return nil, fmt.Errorf("%w: no sink configured", ErrSinkOpen)
	}
	if m.loader == nil {
		m.loader = records.NewLoader(records.WithLogger(m.logger))
	}
	if m.renderer == nil {
		m.renderer = pipeline.NewRenderer(pipeline.WithLogger(m.logger))
	}
	return m, nil
}

// Run executes job. The returned Result is non-nil whenever records were
// loaded, including when ctx is canceled mid-batch; in that case the
// remaining records are not attempted and ctx.Err() is returned with it.
// Per-record failures do not produce an error: check Result.Err.
func (m *Merger) Run(ctx context.Context, job Job) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := m.logger.With("run", res.RunID)
	stage := func(s Stage, args ...any) {
		log.Debug("stage", append([]any{"stage", s.String()}, args...)...)
	}

	log.Info("mail merge started")
	stage(StageIdle)

	if err := m.validate(job, log); err != nil {
		logging.Critical(log, "environment validation failed", "error", err)
		return nil, err
	}
	stage(StageEnvironmentValidated)

	log.Info("loading template", "file", job.Template)
	tmpl, err := LoadTemplate(job.Template)
	if err != nil {
		logging.Critical(log, "template could not be loaded", "error", err)
		return nil, err
	}
	if names := pipeline.Placeholders(tmpl.Text); len(names) > 0 {
		log.Debug("template placeholders", "names", strings.Join(names, ", "))
	}
	stage(StageTemplateLoaded)

	recs, err := m.loader.Load(ctx, job.Contacts)
	if errors.Is(err, records.ErrNoRecords) {
		log.Warn("contact table contains no valid data after filtering", "file", job.Contacts)
		stage(StageReported, "total", 0)
		return res, nil
	}
	if err != nil {
		logging.Critical(log, "contact table could not be loaded", "error", err)
		return nil, err
	}
	res.Total = len(recs)
	stage(StageRecordsLoaded, "count", len(recs))
	m.warnUnknownPlaceholders(log, tmpl, recs[0])

	sink, err := m.openSink(ctx)
	if err != nil {
		if !errors.Is(err, ErrSinkOpen) {
			err = fmt.Errorf("%w: %w", ErrSinkOpen, err)
		}
		logging.Critical(log, "output could not be opened", "error", err)
		return nil, err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			log.Error("closing output failed", "error", cerr)
		}
	}()

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			log.Warn("merge interrupted", "done", len(res.Outcomes), "total", res.Total)
			return res, err
		}
		res.add(m.dispatch(ctx, log, stage, sink, tmpl, rec, job))
	}

	stage(StageReported)
	log.Info(fmt.Sprintf("created %d/%d drafts", res.Succeeded, res.Total),
		"succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}

// dispatch renders one record and hands it to the sink.
func (m *Merger) dispatch(ctx context.Context, log *slog.Logger, stage func(Stage, ...any),
	sink Sink, tmpl pipeline.Template, rec records.Record, job Job,
) Outcome {
	env := rec.Envelope()
	subject := sanitize.Clean(env.Subject)
	if subject == "" {
		subject = DefaultSubject
	}
	out := Outcome{Line: rec.Line(), Subject: subject}

	if len(env.To)+len(env.CC)+len(env.BCC) == 0 {
		stage(StageFailed, "line", rec.Line())
		out.Err = fmt.Errorf("%w: %w", ErrSinkSave, ErrNoRecipients)
		log.Error("draft creation failed", "line", rec.Line(), "error", out.Err)
		return out
	}

	stage(StageRendering, "line", rec.Line())
	html, err := m.renderer.Render(ctx, tmpl, rec)
	if err != nil {
		stage(StageFailed, "line", rec.Line())
		log.Error("draft creation failed", "line", rec.Line(), "error", err)
		out.Err = err
		return out
	}

	draft := &Draft{
		Line:        rec.Line(),
		To:          env.To,
		CC:          env.CC,
		BCC:         env.BCC,
		Subject:     subject,
		HTML:        html,
		Attachments: resolveAttachments(log, job.AttachmentDir, env.Attachments, rec.Line()),
		SourceDir:   tmpl.Dir,
	}

	location, err := sink.Save(ctx, draft)
	if err != nil {
		if !errors.Is(err, ErrSinkSave) {
			err = fmt.Errorf("%w: %w", ErrSinkSave, err)
		}
		stage(StageFailed, "line", rec.Line())
		log.Error("draft creation failed", "line", rec.Line(), "error", err)
		out.Err = err
		return out
	}

	stage(StageDispatched, "line", rec.Line())
	log.Info("draft created", "line", rec.Line(), "subject", subject, "output", location)
	out.Output = location
	return out
}

// validate checks that the input files exist. Every missing file is named.
// A missing attachment directory only disables attachments.
func (m *Merger) validate(job Job, log *slog.Logger) error {
	var missing []string
	for _, f := range []struct{ label, path string }{
		{"contacts", job.Contacts},
		{"template", job.Template},
	} {
		if f.path == "" {
			missing = append(missing, f.label+" (not set)")
			continue
		}
		if info, err := os.Stat(f.path); err != nil || info.IsDir() {
			missing = append(missing, f.path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}

	if job.AttachmentDir == "" {
		log.Debug("no attachment directory configured")
	} else if info, err := os.Stat(job.AttachmentDir); err != nil || !info.IsDir() {
		log.Warn("attachment directory not found", "dir", job.AttachmentDir)
	}
	return nil
}

// warnUnknownPlaceholders reports template tokens no column can fill.
func (m *Merger) warnUnknownPlaceholders(log *slog.Logger, tmpl pipeline.Template, sample records.Record) {
	for _, name := range pipeline.Placeholders(tmpl.Text) {
		if _, ok := sample.Get(name); !ok {
			log.Warn("template placeholder has no matching column", "placeholder", pipeline.Placeholder(name))
		}
	}
}

// utf8BOM is stripped from templates saved by Windows editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadTemplate reads a Markdown template as strict UTF-8.
func LoadTemplate(path string) (pipeline.Template, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-provided template
	if err != nil {
		return pipeline.Template{}, fmt.Errorf("%w: %v", ErrTemplateRead, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return pipeline.Template{}, fmt.Errorf("%w: %s", ErrTemplateDecode, path)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		dir = filepath.Dir(path)
	}
	return pipeline.Template{Text: string(raw), Dir: dir}, nil
}
