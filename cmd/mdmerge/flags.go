package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdmerge/internal/config"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags locate the template and attachments. The contact table is the
// positional argument.
type inputFlags struct {
	template    string
	attachments string
}

// outputFlags select the sink.
type outputFlags struct {
	dir     string
	format  string
	from    string
	timeout string
}

// renderFlags tune decoding and rendering.
type renderFlags struct {
	threshold    float64
	thresholdSet bool // --threshold given, even as 0
	fontFamily   string
	fontSize     string
	sanitizeHTML bool
	hardWraps    bool
}

// logFlags control the run log file.
type logFlags struct {
	file   string
	noFile bool
}

// mergeFlags holds every flag of the merge and check commands.
type mergeFlags struct {
	common commonFlags
	input  inputFlags
	output outputFlags
	render renderFlags
	log    logFlags
}

// addCommonFlags adds config and verbosity flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
}

// addInputFlags adds input location flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "Markdown template file")
	fs.StringVarP(&f.attachments, "attachments", "a", "", "attachment directory")
}

// addOutputFlags adds sink flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "draft output directory")
	fs.StringVarP(&f.format, "format", "f", "", "draft format: eml, html, pdf")
	fs.StringVar(&f.from, "from", "", "sender address shown in drafts")
	fs.StringVar(&f.timeout, "timeout", "", "PDF page load timeout (e.g., 30s, 2m)")
}

// addRenderFlags adds decoding and rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.Float64Var(&f.threshold, "threshold", 0, "encoding detection confidence a guess must exceed (0 trusts any guess)")
	fs.StringVar(&f.fontFamily, "font-family", "", "CSS font-family of the body")
	fs.StringVar(&f.fontSize, "font-size", "", "CSS font-size of the body")
	fs.BoolVar(&f.sanitizeHTML, "sanitize-html", false, "strip unsafe HTML from rendered drafts")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "treat template newlines as line breaks")
}

// addLogFlags adds log file flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.file, "log-file", "", "log file path ({timestamp} is expanded)")
	fs.BoolVar(&f.noFile, "no-log-file", false, "disable the log file")
}

// newMergeFlagSet registers every merge flag into a new FlagSet.
// Shared by parsing and shell completion.
func newMergeFlagSet(name string, f *mergeFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addOutputFlags(fs, &f.output)
	addRenderFlags(fs, &f.render)
	addLogFlags(fs, &f.log)

	return fs
}

// parseMergeFlags parses merge or check flags and returns positional args.
// On -h the command usage is written to usage and flag.ErrHelp returned.
func parseMergeFlags(name string, args []string, usage io.Writer) (*mergeFlags, []string, error) {
	f := &mergeFlags{}
	fs := newMergeFlagSet(name, f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		if name == "check" {
			printCheckUsage(usage)
		} else {
			printMergeUsage(usage)
		}
	}

	if err := fs.Parse(args); err != nil {
		// pflag has already printed usage for -h.
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	if fs.NArg() > 1 {
		return nil, nil, fmt.Errorf("%w: expected at most one contact table, got %d arguments", ErrInvalidArgs, fs.NArg())
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrInvalidArgs)
	}
	if f.log.noFile && fs.Changed("log-file") {
		return nil, nil, fmt.Errorf("%w: --log-file and --no-log-file are mutually exclusive", ErrInvalidArgs)
	}
	f.render.thresholdSet = fs.Changed("threshold")

	return f, fs.Args(), nil
}

// applyFlags overlays explicitly given flags on cfg.
func applyFlags(f *mergeFlags, cfg *config.Config) {
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&cfg.Input.Template, f.input.template},
		{&cfg.Input.Attachments, f.input.attachments},
		{&cfg.Output.Dir, f.output.dir},
		{&cfg.Output.Format, f.output.format},
		{&cfg.Output.From, f.output.from},
		{&cfg.Output.Timeout, f.output.timeout},
		{&cfg.Render.FontFamily, f.render.fontFamily},
		{&cfg.Render.FontSize, f.render.fontSize},
		{&cfg.Log.File, f.log.file},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}

	if f.render.thresholdSet {
		cfg.Encoding.Threshold = f.render.threshold
	}
	if f.render.sanitizeHTML {
		cfg.Render.SanitizeHTML = true
	}
	if f.render.hardWraps {
		cfg.Render.HardWraps = true
	}
	if f.log.noFile {
		cfg.Log.File = ""
	}
}
