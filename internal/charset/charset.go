// Package charset detects and decodes the text encoding of input files.
//
// Spreadsheets exported on different machines arrive as UTF-8 (with or
// without a byte-order mark), Windows-1252, Latin-1, or something more
// exotic. The Detector samples the start of a file, asks a statistical
// classifier for a guess, and decodes the whole file with it. When the guess
// is weak it uses a BOM-aware UTF-8 default; when decoding fails it walks an
// ordered list of fallbacks before giving up.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-mdmerge/internal/logging"
)

// Detection defaults.
const (
	SampleSize       = 10_000
	DefaultThreshold = 0.7
	DefaultEncoding  = "utf-8-sig"
)

// DefaultFallbacks is tried in order when the chosen encoding fails to decode.
var DefaultFallbacks = []string{"utf-8-sig", "windows-1252", "iso-8859-1"}

// Sentinel errors for encoding operations.
var (
	ErrNoSuitableEncoding = errors.New("no suitable encoding")
	ErrUnknownEncoding    = errors.New("unknown encoding")
	ErrDecode             = errors.New("decode failed")
	ErrNotDetected        = errors.New("encoding not detected")
	ErrRead               = errors.New("failed to read file")
)

// utf8BOM is the UTF-8 byte-order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Guess is a classifier's opinion about a byte sample.
type Guess struct {
	Name       string
	Confidence float64 // 0 to 1
}

// Decoded is a file's content after successful decoding.
type Decoded struct {
	Text     string
	Encoding string // encoding actually used
	Guess    Guess
	Fallback bool // true when Encoding came from the fallback list
	Attempts []string
}

// Reader returns a reader over the decoded text.
func (d *Decoded) Reader() io.Reader {
	return strings.NewReader(d.Text)
}

// Option configures a Detector.
type Option func(*Detector)

// WithClassifier replaces the statistical classifier.
func WithClassifier(c Classifier) Option {
	return func(d *Detector) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithThreshold sets the confidence a guess must exceed to be trusted.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) {
		d.threshold = threshold
	}
}

// WithSampleSize sets how many leading bytes are classified.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithFallbacks sets the ordered encodings tried after a decode failure.
func WithFallbacks(names []string) Option {
	return func(d *Detector) {
		if len(names) > 0 {
			d.fallbacks = append([]string(nil), names...)
		}
	}
}

// WithLogger sets the logger used for detection decisions.
func WithLogger(l *slog.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// Detector picks and applies a text encoding for a file.
type Detector struct {
	classifier Classifier
	threshold  float64
	sampleSize int
	fallbacks  []string
	logger     *slog.Logger
}

// NewDetector creates a Detector backed by chardet with default policy.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		classifier: NewChardetClassifier(),
		threshold:  DefaultThreshold,
		sampleSize: SampleSize,
		fallbacks:  DefaultFallbacks,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect classifies the first bytes of the file at path.
func (d *Detector) Detect(path string) (Guess, error) {
	sample, err := d.readSample(path)
	if err != nil {
		return Guess{}, err
	}
	return d.classifier.Classify(sample)
}

// Choose returns the encoding name to try first for the file at path:
// the classifier's guess when its confidence exceeds the threshold,
// DefaultEncoding otherwise.
func (d *Detector) Choose(path string) (string, error) {
	sample, err := d.readSample(path)
	if err != nil {
		return "", err
	}
	name, _ := d.choose(sample)
	return name, nil
}

// Open reads and decodes the whole file at path.
// If the chosen encoding cannot decode the content, each fallback is tried
// in order. The returned error wraps ErrNoSuitableEncoding and lists every
// encoding attempted when none succeeds.
func (d *Detector) Open(path string) (*Decoded, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-provided input file
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	sample := raw[:min(len(raw), d.sampleSize)]
	chosen, guess := d.choose(sample)
	d.logger.Info("detected encoding", "file", path, "encoding", chosen,
		"guess", guess.Name, "confidence", guess.Confidence)

	attempts := []string{chosen}
	text, err := Decode(chosen, raw)
	if err == nil {
		return &Decoded{Text: text, Encoding: chosen, Guess: guess, Attempts: attempts}, nil
	}

	d.logger.Warn("detection failed, trying fallback encodings", "file", path,
		"encoding", chosen, "error", err)

	for _, name := range d.fallbacks {
		if strings.EqualFold(name, chosen) {
			continue
		}
		attempts = append(attempts, name)
		text, err := Decode(name, raw)
		if err != nil {
			d.logger.Debug("fallback encoding failed", "encoding", name, "error", err)
			continue
		}
		d.logger.Info("decoded with fallback encoding", "file", path, "encoding", name)
		return &Decoded{Text: text, Encoding: name, Guess: guess, Fallback: true, Attempts: attempts}, nil
	}

	return nil, fmt.Errorf("%w for %s: tried %s", ErrNoSuitableEncoding, path, strings.Join(attempts, ", "))
}

// choose applies the confidence policy to a sample.
func (d *Detector) choose(sample []byte) (string, Guess) {
	guess, err := d.classifier.Classify(sample)
	if err != nil {
		d.logger.Debug("classifier gave no answer, using default", "error", err)
		return DefaultEncoding, guess
	}
	if guess.Confidence > d.threshold && guess.Name != "" {
		return guess.Name, guess
	}
	d.logger.Debug("low confidence guess, using default",
		"guess", guess.Name, "confidence", guess.Confidence, "threshold", d.threshold)
	return DefaultEncoding, guess
}

// readSample reads at most sampleSize bytes from the start of the file.
func (d *Detector) readSample(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-provided input file
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	sample, err := io.ReadAll(io.LimitReader(f, int64(d.sampleSize)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return sample, nil
}

// Decode converts raw bytes to a string using the named encoding.
// Decoding is strict: invalid input yields ErrDecode instead of
// replacement characters. A leading UTF-8 byte-order mark is always dropped
// for the UTF-8 family so it cannot leak into the first header name.
func Decode(name string, raw []byte) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	if enc.utf8 {
		body := bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(body) {
			return "", fmt.Errorf("%w: invalid %s byte at offset %d", ErrDecode, enc.Name, firstInvalidUTF8(body)+len(raw)-len(body))
		}
		return string(body), nil
	}

	out, err := enc.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecode, enc.Name, err)
	}
	if i := bytes.IndexRune(out, utf8.RuneError); i >= 0 {
		return "", fmt.Errorf("%w: %s cannot represent input near decoded offset %d", ErrDecode, enc.Name, i)
	}
	return string(out), nil
}

// firstInvalidUTF8 returns the byte offset of the first invalid sequence.
func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
