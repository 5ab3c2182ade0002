package main

import (
	"errors"
	"log/slog"

	mdmerge "github.com/alnah/go-mdmerge"
	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/config"
	"github.com/alnah/go-mdmerge/internal/dateutil"
	"github.com/alnah/go-mdmerge/internal/logging"
	"github.com/alnah/go-mdmerge/internal/pipeline"
	"github.com/alnah/go-mdmerge/internal/records"
)

// defaultConfigName is looked up when neither --config nor MDMERGE_CONFIG
// names a file. Its absence is not an error.
const defaultConfigName = "mdmerge"

// loadSettings resolves the effective configuration.
// Precedence: defaults < config file < MDMERGE_* environment < flags < positional contact table.
func loadSettings(f *mergeFlags, args []string, envCfg *envConfig) (*config.Config, error) {
	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg, err := loadConfigFile(name)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	applyFlags(f, cfg)
	if len(args) > 0 {
		cfg.Input.Contacts = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile loads the named config, or the default one when present.
func loadConfigFile(name string) (*config.Config, error) {
	if name != "" {
		cfg, _, err := config.LoadConfig(name)
		return cfg, err
	}

	cfg, _, err := config.LoadConfig(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// newRunLogger opens the console and file logger for one run.
// The file always records debug detail; the console follows the flags,
// then log.level.
func newRunLogger(cfg *config.Config, f *commonFlags, env *Environment) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.Log.Level)
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}

	path, err := dateutil.ExpandTimestamp(cfg.Log.File, cfg.Log.TimestampFormat, env.now())
	if err != nil {
		return nil, err
	}

	return logging.New(logging.Options{
		Console:      env.Stderr,
		ConsoleLevel: level,
		FilePath:     path,
		FileLevel:    slog.LevelDebug,
	})
}

// jobFor names the inputs of cfg.
func jobFor(cfg *config.Config) mdmerge.Job {
	return mdmerge.Job{
		Contacts:      cfg.Input.Contacts,
		Template:      cfg.Input.Template,
		AttachmentDir: cfg.Input.Attachments,
	}
}

// newMerger wires the loader, renderer and sink described by cfg.
// A nil open builds the file sink selected by output.format.
func newMerger(cfg *config.Config, logger *slog.Logger, open mdmerge.SinkOpener) (*mdmerge.Merger, error) {
	if open == nil {
		var err error
		if open, err = newSinkOpener(cfg, logger); err != nil {
			return nil, err
		}
	}

	detector := charset.NewDetector(append(cfg.DetectorOptions(), charset.WithLogger(logger))...)
	loader := records.NewLoader(
		records.WithSchema(cfg.Schema()),
		records.WithDetector(detector),
		records.WithLogger(logger),
	)

	renderOpts := []pipeline.RendererOption{
		pipeline.WithConverter(pipeline.NewGoldmarkConverter(cfg.ConverterOptions())),
		pipeline.WithStyle(cfg.Style()),
		pipeline.WithLogger(logger),
	}
	if cfg.Render.SanitizeHTML {
		renderOpts = append(renderOpts, pipeline.WithSanitizer(pipeline.NewHTMLSanitizer()))
	}

	return mdmerge.NewMerger(
		mdmerge.WithLogger(logger),
		mdmerge.WithLoader(loader),
		mdmerge.WithRenderer(pipeline.NewRenderer(renderOpts...)),
		mdmerge.WithSinkOpener(open),
	)
}

// newSinkOpener builds the file sink for output.format.
func newSinkOpener(cfg *config.Config, logger *slog.Logger) (mdmerge.SinkOpener, error) {
	format, err := mdmerge.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	opts := mdmerge.OutputOptions{
		Dir:     cfg.Output.Dir,
		From:    cfg.Output.From,
		Timeout: timeout,
		Logger:  logger,
	}
	// eml drafts carry inline styles only.
	if format != mdmerge.FormatEML {
		if opts.CSS, err = cfg.PageCSS(); err != nil {
			return nil, err
		}
	}
	return mdmerge.NewSinkOpener(format, opts)
}
