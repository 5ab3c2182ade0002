package mdmerge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/alnah/go-mdmerge/internal/pipeline"
)

// HTMLSink writes each draft as a standalone HTML page with its envelope
// shown above the body. Useful for review before sending and for archiving.
type HTMLSink struct {
	dir      string
	from     string
	style    string
	css      pipeline.CSSInjector
	envelope pipeline.EnvelopeInjector
	logger   *slog.Logger
}

// Compile-time interface checks.
var (
	_ Sink                      = (*HTMLSink)(nil)
	_ pipeline.CSSInjector      = (*pipeline.CSSInjection)(nil)
	_ pipeline.EnvelopeInjector = (*pipeline.EnvelopeInjection)(nil)
)

// NewHTMLSink creates the output directory and returns a sink writing into it.
func NewHTMLSink(opts OutputOptions) (*HTMLSink, error) {
	opts = opts.withDefaults()
	if err := ensureOutputDir(opts.Dir); err != nil {
		return nil, err
	}
	return &HTMLSink{
		dir:      opts.Dir,
		from:     opts.From,
		style:    opts.CSS,
		css:      &pipeline.CSSInjection{},
		envelope: pipeline.NewEnvelopeInjection(),
		logger:   opts.Logger,
	}, nil
}

// Save writes d to "<dir>/<line>-<subject>.html".
func (s *HTMLSink) Save(ctx context.Context, d *Draft) (string, error) {
	page, err := renderPage(ctx, d, s.from, s.style, s.css, s.envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSinkSave, err)
	}

	path := filepath.Join(s.dir, draftFileName(d, "html"))
	if err := writeDraftFile(path, []byte(page)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkSave, err)
	}
	s.logger.Debug("wrote html draft", "line", d.Line, "path", path)
	return path, nil
}

// Close is a no-op: every draft is flushed by Save.
func (s *HTMLSink) Close() error { return nil }

// renderPage turns a draft into a complete HTML document with its envelope
// header. Relative references are made absolute so the page works from any
// directory.
func renderPage(ctx context.Context, d *Draft, from, style string, css pipeline.CSSInjector, env pipeline.EnvelopeInjector) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page := pipeline.WrapDocument(d.Subject, d.HTML)
	page = css.InjectCSS(ctx, page, style)

	names := make([]string, len(d.Attachments))
	for i, a := range d.Attachments {
		names[i] = filepath.Base(a)
	}
	page, err := env.InjectEnvelope(ctx, page, &pipeline.EnvelopeData{
		From:        from,
		To:          d.To,
		CC:          d.CC,
		BCC:         d.BCC,
		Subject:     d.Subject,
		Attachments: names,
	})
	if err != nil {
		return "", err
	}

	if d.SourceDir != "" {
		page, err = pipeline.RewriteRelativePaths(page, d.SourceDir)
		if err != nil {
			return "", fmt.Errorf("rewriting relative paths: %w", err)
		}
	}
	return page, nil
}
