package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-mdmerge/internal/charset"
	"github.com/alnah/go-mdmerge/internal/logging"
	"github.com/alnah/go-mdmerge/internal/sanitize"
)

// Option configures a Loader.
type Option func(*Loader)

// WithSchema sets the envelope column names.
func WithSchema(s Schema) Option {
	return func(l *Loader) {
		l.schema = s.withDefaults()
	}
}

// WithDetector sets the encoding detector used by Load.
func WithDetector(d *charset.Detector) Option {
	return func(l *Loader) {
		if d != nil {
			l.detector = d
		}
	}
}

// WithLogger sets the logger for skipped rows and other warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader reads a contact table into records.
type Loader struct {
	schema   Schema
	detector *charset.Detector
	logger   *slog.Logger
}

// NewLoader creates a Loader with the default schema and detector.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		schema: DefaultSchema(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.detector == nil {
		l.detector = charset.NewDetector(charset.WithLogger(l.logger))
	}
	return l
}

// Schema returns the loader's envelope column names.
func (l *Loader) Schema() Schema { return l.schema }

// Load detects the encoding of the file at path and parses it.
func (l *Loader) Load(ctx context.Context, path string) ([]Record, error) {
	decoded, err := l.detector.Open(path)
	if err != nil {
		return nil, err
	}
	return l.Parse(ctx, decoded.Reader(), path)
}

// Parse reads a decoded table from r. source names the table in messages.
//
// The header is validated before any data row is read. Rows whose cells are
// all blank are skipped with a warning. Short rows are padded with empty
// values and surplus cells are dropped. Every value is sanitized.
//
// A stray quote inside a field is kept as text. A quoted field that is never
// closed is fatal.
func (l *Loader) Parse(ctx context.Context, r io.Reader, source string) ([]Record, error) {
	qt := newQuoteTracker(r)
	cr := csv.NewReader(qt)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	raw, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Columns: l.schema.Required()}
	}
	if err != nil {
		return nil, malformed(source, err)
	}

	header, err := l.header(raw)
	if err != nil {
		return nil, err
	}
	if missing := l.schema.Missing(header); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	l.logger.Debug("table header", "file", source, "columns", strings.Join(header, ", "))

	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(source, err)
		}
		line, _ := cr.FieldPos(0)

		if isBlank(cells) {
			l.logger.Warn("skipping empty row", "line", line)
			continue
		}
		if len(cells) > len(header) {
			surplus := cells[len(header):]
			if isBlank(surplus) {
				l.logger.Debug("dropping empty trailing cells", "line", line, "count", len(surplus))
			} else {
				l.logger.Warn("dropping cells beyond the header", "line", line, "count", len(surplus))
			}
			cells = cells[:len(header)]
		}

		values := make([]string, len(header))
		for i := range header {
			if i < len(cells) {
				values[i] = sanitize.Clean(cells[i])
			}
		}
		out = append(out, newRecord(line, l.schema, header, values))
	}

	if line, open := qt.unterminated(); open {
		return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedTable, source, line, csv.ErrQuote)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, source)
	}
	l.logger.Info("loaded records", "file", source, "count", len(out))
	return out, nil
}

// header trims column names and rejects duplicates.
// Unnamed columns keep their position so cells stay aligned; they are left
// out of the record.
func (l *Loader) header(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	header := make([]string, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			l.logger.Debug("ignoring unnamed column", "position", i+1)
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = true
		header[i] = name
	}
	return header, nil
}

// newRecord builds a record, leaving out unnamed columns.
func newRecord(line int, schema Schema, header, values []string) Record {
	names := make([]string, 0, len(header))
	kept := make([]string, 0, len(values))
	for i, name := range header {
		if name == "" {
			continue
		}
		names = append(names, name)
		kept = append(kept, values[i])
	}
	return NewRecord(line, schema, names, kept)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// malformed wraps a CSV parse error with the offending line.
func malformed(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %s line %d: %v", ErrMalformedTable, source, pe.StartLine, pe.Err)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedTable, source, err)
}
