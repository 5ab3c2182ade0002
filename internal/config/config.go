// Package config loads the YAML settings file for a merge run.
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdmerge/internal/assets"
	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/dateutil"
	"github.com/alnah/go-mdmerge/internal/fileutil"
	"github.com/alnah/go-mdmerge/internal/pipeline"
	"github.com/alnah/go-mdmerge/internal/records"
	"github.com/alnah/go-mdmerge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxColumnLength     = 100
	MaxEmailLength      = 254 // RFC 5321
	MaxFontFamilyLength = 200
	MaxFontSizeLength   = 10 // "11pt", "0.9rem"
	MaxStyleNameLength  = 64
	MaxFallbacks        = 10
	MaxSampleSize       = 1 << 20
)

// Defaults for settings the file leaves out.
const (
	DefaultContacts    = "contacts.csv"
	DefaultTemplate    = "email_template.md"
	DefaultAttachments = "Attachments"
	DefaultFormat      = "eml"
	DefaultOutputDir   = "drafts"
	DefaultTimeout     = "30s"
	DefaultLogFile     = "mdmerge_{timestamp}.log"
	DefaultLogLevel    = "info"
)

// DirName is the directory under os.UserConfigDir searched for named configs.
const DirName = "go-mdmerge"

// Formats lists the accepted output.format values.
var Formats = []string{"eml", "html", "pdf"}

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error", "critical"}

// Config holds all settings for a merge run.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Columns  ColumnsConfig  `yaml:"columns"`
	Encoding EncodingConfig `yaml:"encoding"`
	Render   RenderConfig   `yaml:"render"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// InputConfig locates the merge inputs.
type InputConfig struct {
	Contacts    string `yaml:"contacts"`
	Template    string `yaml:"template"`
	Attachments string `yaml:"attachments"` // directory
}

// ColumnsConfig renames the envelope columns of the contact table.
type ColumnsConfig struct {
	To          string `yaml:"to"`
	CC          string `yaml:"cc"`
	BCC         string `yaml:"bcc"`
	Subject     string `yaml:"subject"`
	Attachments string `yaml:"attachments"`
}

// EncodingConfig tunes contact table charset detection.
type EncodingConfig struct {
	Threshold  float64  `yaml:"threshold"`  // 0 in a file keeps the default
	SampleSize int      `yaml:"sampleSize"` // bytes, 0 = default
	Fallbacks  []string `yaml:"fallbacks"`
}

// RenderConfig controls how the template becomes HTML.
type RenderConfig struct {
	FontFamily     string `yaml:"fontFamily"`
	FontSize       string `yaml:"fontSize"`
	HardWraps      bool   `yaml:"hardWraps"`
	SanitizeHTML   bool   `yaml:"sanitizeHTML"`
	HighlightStyle string `yaml:"highlightStyle"`
	Style          string `yaml:"style"`     // html/pdf page stylesheet name
	StylesDir      string `yaml:"stylesDir"` // {dir}/{name}.css overrides built-ins
}

// OutputConfig selects the sink and where it writes.
type OutputConfig struct {
	Format  string `yaml:"format"` // eml, html, pdf
	Dir     string `yaml:"dir"`
	From    string `yaml:"from"`
	Timeout string `yaml:"timeout"` // pdf page load, Go duration
}

// LogConfig controls the run log file.
type LogConfig struct {
	File            string `yaml:"file"` // may contain {timestamp}; empty disables
	TimestampFormat string `yaml:"timestampFormat"`
	Level           string `yaml:"level"` // console level
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	schema := records.DefaultSchema()
	return &Config{
		Input: InputConfig{
			Contacts:    DefaultContacts,
			Template:    DefaultTemplate,
			Attachments: DefaultAttachments,
		},
		Columns: ColumnsConfig{
			To:          schema.To,
			CC:          schema.CC,
			BCC:         schema.BCC,
			Subject:     schema.Subject,
			Attachments: schema.Attachments,
		},
		Encoding: EncodingConfig{
			Threshold:  charset.DefaultThreshold,
			SampleSize: charset.SampleSize,
			Fallbacks:  append([]string(nil), charset.DefaultFallbacks...),
		},
		Render: RenderConfig{
			FontFamily:     pipeline.DefaultFontFamily,
			FontSize:       pipeline.DefaultFontSize,
			HighlightStyle: pipeline.DefaultHighlightStyle,
			Style:          assets.DefaultStyleName,
		},
		Output: OutputConfig{
			Format:  DefaultFormat,
			Dir:     DefaultOutputDir,
			Timeout: DefaultTimeout,
		},
		Log: LogConfig{
			File:            DefaultLogFile,
			TimestampFormat: dateutil.DefaultFormat,
			Level:           DefaultLogLevel,
		},
	}
}

// Validate checks lengths, enumerations and ranges. Called by LoadConfig,
// and by the CLI again once environment and flags are applied.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"input.contacts", c.Input.Contacts, MaxPathLength},
		{"input.template", c.Input.Template, MaxPathLength},
		{"input.attachments", c.Input.Attachments, MaxPathLength},
		{"columns.to", c.Columns.To, MaxColumnLength},
		{"columns.cc", c.Columns.CC, MaxColumnLength},
		{"columns.bcc", c.Columns.BCC, MaxColumnLength},
		{"columns.subject", c.Columns.Subject, MaxColumnLength},
		{"columns.attachments", c.Columns.Attachments, MaxColumnLength},
		{"render.fontFamily", c.Render.FontFamily, MaxFontFamilyLength},
		{"render.fontSize", c.Render.FontSize, MaxFontSizeLength},
		{"render.style", c.Render.Style, MaxStyleNameLength},
		{"render.stylesDir", c.Render.StylesDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.from", c.Output.From, MaxEmailLength},
		{"log.file", c.Log.File, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := c.validateColumns(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}

	if c.Render.HighlightStyle != "" && !pipeline.IsHighlightStyle(c.Render.HighlightStyle) {
		return fmt.Errorf("%w: render.highlightStyle: unknown style %q", ErrInvalidValue, c.Render.HighlightStyle)
	}
	if c.Render.Style != "" {
		if err := assets.ValidateStyleName(c.Render.Style); err != nil {
			return fmt.Errorf("%w: render.style: %v", ErrInvalidValue, err)
		}
	}
	if strings.ContainsAny(c.Render.FontFamily+c.Render.FontSize, "<>{};") {
		return fmt.Errorf("%w: render font settings must not contain markup", ErrInvalidValue)
	}

	if c.Output.Format != "" && !isOneOf(c.Output.Format, Formats) {
		return fmt.Errorf("%w: output.format: %q (must be %s)", ErrInvalidValue, c.Output.Format, strings.Join(Formats, ", "))
	}
	if c.Output.From != "" {
		if _, err := mail.ParseAddress(c.Output.From); err != nil {
			return fmt.Errorf("%w: output.from: %v", ErrInvalidValue, err)
		}
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}

	if c.Log.Level != "" && !isOneOf(c.Log.Level, LogLevels) {
		return fmt.Errorf("%w: log.level: %q (must be %s)", ErrInvalidValue, c.Log.Level, strings.Join(LogLevels, ", "))
	}
	if c.Log.TimestampFormat != "" {
		if _, err := dateutil.ParseFormat(c.Log.TimestampFormat); err != nil {
			return fmt.Errorf("%w: log.timestampFormat: %v", ErrInvalidValue, err)
		}
	}

	return nil
}

func (c *Config) validateColumns() error {
	seen := map[string]string{}
	for _, col := range []struct{ key, name string }{
		{"columns.to", c.Columns.To},
		{"columns.cc", c.Columns.CC},
		{"columns.bcc", c.Columns.BCC},
		{"columns.subject", c.Columns.Subject},
		{"columns.attachments", c.Columns.Attachments},
	} {
		name := strings.TrimSpace(col.name)
		if name == "" {
			continue // default applies
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s and %s both use column %q", ErrInvalidValue, prev, col.key, name)
		}
		seen[name] = col.key
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.Threshold < 0 || c.Encoding.Threshold > 1 {
		return fmt.Errorf("%w: encoding.threshold: must be between 0 and 1, got %.2f", ErrInvalidValue, c.Encoding.Threshold)
	}
	if c.Encoding.SampleSize < 0 || c.Encoding.SampleSize > MaxSampleSize {
		return fmt.Errorf("%w: encoding.sampleSize: must be between 0 and %d, got %d", ErrInvalidValue, MaxSampleSize, c.Encoding.SampleSize)
	}
	if len(c.Encoding.Fallbacks) > MaxFallbacks {
		return fmt.Errorf("%w: encoding.fallbacks: at most %d entries", ErrInvalidValue, MaxFallbacks)
	}
	for i, name := range c.Encoding.Fallbacks {
		if _, err := charset.Lookup(name); err != nil {
			return fmt.Errorf("%w: encoding.fallbacks[%d]: %v", ErrInvalidValue, i, err)
		}
	}
	return nil
}

// Timeout parses output.timeout. Empty means DefaultTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	s := c.Output.Timeout
	if s == "" {
		s = DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: output.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: output.timeout: must be positive, got %s", ErrInvalidValue, s)
	}
	return d, nil
}

// Schema returns the envelope column names.
func (c *Config) Schema() records.Schema {
	return records.Schema{
		To:          strings.TrimSpace(c.Columns.To),
		CC:          strings.TrimSpace(c.Columns.CC),
		BCC:         strings.TrimSpace(c.Columns.BCC),
		Subject:     strings.TrimSpace(c.Columns.Subject),
		Attachments: strings.TrimSpace(c.Columns.Attachments),
	}
}

// DetectorOptions returns the charset options for the encoding section.
// The threshold is always passed, so 0 trusts any guess; zero sample size
// and empty fallbacks keep the detector defaults.
func (c *Config) DetectorOptions() []charset.Option {
	opts := []charset.Option{charset.WithThreshold(c.Encoding.Threshold)}
	if c.Encoding.SampleSize > 0 {
		opts = append(opts, charset.WithSampleSize(c.Encoding.SampleSize))
	}
	if len(c.Encoding.Fallbacks) > 0 {
		opts = append(opts, charset.WithFallbacks(c.Encoding.Fallbacks))
	}
	return opts
}

// PageCSS resolves render.style through render.stylesDir and the
// built-in styles.
func (c *Config) PageCSS() (string, error) {
	resolver, err := assets.NewStyleResolver(c.Render.StylesDir)
	if err != nil {
		return "", fmt.Errorf("%w: render.stylesDir: %v", ErrInvalidValue, err)
	}
	name := c.Render.Style
	if name == "" {
		name = assets.DefaultStyleName
	}
	css, err := resolver.LoadStyle(name)
	if err != nil {
		return "", fmt.Errorf("%w: render.style: %v", ErrInvalidValue, err)
	}
	return css, nil
}

// Style returns the body font settings.
func (c *Config) Style() pipeline.Style {
	return pipeline.Style{FontFamily: c.Render.FontFamily, FontSize: c.Render.FontSize}
}

// ConverterOptions returns the Markdown converter settings.
func (c *Config) ConverterOptions() pipeline.ConverterOptions {
	return pipeline.ConverterOptions{
		HardWraps:      c.Render.HardWraps,
		HighlightStyle: c.Render.HighlightStyle,
	}
}

// Merge overlays the non-zero fields of o onto c.
func (c *Config) Merge(o *Config) {
	setString(&c.Input.Contacts, o.Input.Contacts)
	setString(&c.Input.Template, o.Input.Template)
	setString(&c.Input.Attachments, o.Input.Attachments)

	setString(&c.Columns.To, o.Columns.To)
	setString(&c.Columns.CC, o.Columns.CC)
	setString(&c.Columns.BCC, o.Columns.BCC)
	setString(&c.Columns.Subject, o.Columns.Subject)
	setString(&c.Columns.Attachments, o.Columns.Attachments)

	if o.Encoding.Threshold != 0 {
		c.Encoding.Threshold = o.Encoding.Threshold
	}
	if o.Encoding.SampleSize != 0 {
		c.Encoding.SampleSize = o.Encoding.SampleSize
	}
	if len(o.Encoding.Fallbacks) > 0 {
		c.Encoding.Fallbacks = append([]string(nil), o.Encoding.Fallbacks...)
	}

	setString(&c.Render.FontFamily, o.Render.FontFamily)
	setString(&c.Render.FontSize, o.Render.FontSize)
	setString(&c.Render.HighlightStyle, o.Render.HighlightStyle)
	setString(&c.Render.Style, o.Render.Style)
	setString(&c.Render.StylesDir, o.Render.StylesDir)
	c.Render.HardWraps = c.Render.HardWraps || o.Render.HardWraps
	c.Render.SanitizeHTML = c.Render.SanitizeHTML || o.Render.SanitizeHTML

	setString(&c.Output.Format, o.Output.Format)
	setString(&c.Output.Dir, o.Output.Dir)
	setString(&c.Output.From, o.Output.From)
	setString(&c.Output.Timeout, o.Output.Timeout)

	setString(&c.Log.File, o.Log.File)
	setString(&c.Log.TimestampFormat, o.Log.TimestampFormat)
	setString(&c.Log.Level, o.Log.Level)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a file path or config name and
// overlays it on DefaultConfig.
// If nameOrPath contains a path separator or a YAML extension, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Relative paths inside the file are resolved against the file's directory.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, string, error) {
	if nameOrPath == "" {
		return nil, "", ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, "", err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yamlutil.UnmarshalStrict(data, &file); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}
	file.resolvePaths(filepath.Dir(configPath))

	cfg := DefaultConfig()
	cfg.Merge(&file)
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, configPath, nil
}

// resolvePaths anchors relative input, output and log paths at dir.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{
		&c.Input.Contacts, &c.Input.Template, &c.Input.Attachments,
		&c.Render.StylesDir, &c.Output.Dir, &c.Log.File,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return strings.ContainsAny(s, "/\\") || ext == ".yaml" || ext == ".yml"
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdmerge/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
