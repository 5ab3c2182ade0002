package mdmerge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdmerge/internal/fileutil"
	"github.com/alnah/go-mdmerge/internal/pipeline"
	"github.com/alnah/go-mdmerge/internal/process"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Sink        = (*PDFSink)(nil)
	_ pdfRenderer = (*rodRenderer)(nil)
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// PDFSink prints each draft to PDF with headless Chrome. One browser is
// started lazily on the first draft and shared by the whole run.
type PDFSink struct {
	dir      string
	from     string
	renderer pdfRenderer
	style    string
	css      pipeline.CSSInjector
	envelope pipeline.EnvelopeInjector
	logger   *slog.Logger
}

// NewPDFSink creates the output directory and returns a sink writing into it.
func NewPDFSink(opts OutputOptions) (*PDFSink, error) {
	opts = opts.withDefaults()
	return newPDFSink(opts, newRodRenderer(opts.Timeout))
}

func newPDFSink(opts OutputOptions, r pdfRenderer) (*PDFSink, error) {
	opts = opts.withDefaults()
	if err := ensureOutputDir(opts.Dir); err != nil {
		return nil, err
	}
	return &PDFSink{
		dir:      opts.Dir,
		from:     opts.From,
		renderer: r,
		style:    opts.CSS,
		css:      &pipeline.CSSInjection{},
		envelope: pipeline.NewEnvelopeInjection(),
		logger:   opts.Logger,
	}, nil
}

// Save renders d and writes "<dir>/<line>-<subject>.pdf".
func (s *PDFSink) Save(ctx context.Context, d *Draft) (string, error) {
	page, err := renderPage(ctx, d, s.from, s.style, s.css, s.envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSinkSave, err)
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkSave, err)
	}
	defer cleanup()

	pdf, err := s.renderer.RenderFromFile(ctx, tmpPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSinkSave, err)
	}

	path := filepath.Join(s.dir, draftFileName(d, "pdf"))
	if err := writeDraftFile(path, pdf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkSave, err)
	}
	s.logger.Debug("wrote pdf draft", "line", d.Line, "path", path, "bytes", len(pdf))
	return path, nil
}

// Close shuts the browser down.
func (s *PDFSink) Close() error {
	if s.renderer == nil {
		return nil
	}
	return s.renderer.Close()
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources. Chrome helper processes are killed with
// their process group so none outlive the run.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.kill()
	return err
}

func (r *rodRenderer) kill() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(pdfOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// pdfOptions returns US Letter with half-inch margins.
func pdfOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
