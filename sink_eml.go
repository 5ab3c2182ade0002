package mdmerge

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/google/uuid"

	"github.com/alnah/go-mdmerge/internal/pipeline"
)

// EMLSink writes each draft as an RFC 5322 message file.
//
// Messages carry an "X-Unsent: 1" header, so Outlook and Thunderbird open
// them as editable drafts ready to send. The body is multipart/alternative
// with a plain-text rendering of the HTML; template-relative images are
// embedded inline and attachments follow as regular parts.
type EMLSink struct {
	dir    string
	from   string
	text   *converter.Converter
	logger *slog.Logger
	now    func() time.Time
}

// Compile-time interface check.
var _ Sink = (*EMLSink)(nil)

// NewEMLSink creates the output directory and returns a sink writing into it.
func NewEMLSink(opts OutputOptions) (*EMLSink, error) {
	opts = opts.withDefaults()
	if err := ensureOutputDir(opts.Dir); err != nil {
		return nil, err
	}
	return &EMLSink{
		dir:  opts.Dir,
		from: opts.From,
		text: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		logger: opts.Logger,
		now:    time.Now,
	}, nil
}

// Save writes d to "<dir>/<line>-<subject>.eml".
func (s *EMLSink) Save(ctx context.Context, d *Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(d.To)+len(d.CC)+len(d.BCC) == 0 {
		return "", fmt.Errorf("%w: %w", ErrSinkSave, ErrNoRecipients)
	}
	if err := checkHeaderValues(s.from, d); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSinkSave, err)
	}

	msg, err := s.build(d)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkSave, err)
	}

	path := filepath.Join(s.dir, draftFileName(d, "eml"))
	if err := writeDraftFile(path, msg); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkSave, err)
	}
	return path, nil
}

// Close is a no-op: every draft is flushed by Save.
func (s *EMLSink) Close() error { return nil }

// build assembles the full message.
func (s *EMLSink) build(d *Draft) ([]byte, error) {
	html := d.HTML
	var inline []pipeline.InlineImage
	if d.SourceDir != "" {
		var err error
		html, inline, err = pipeline.EmbedRelativeImages(html, d.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("embedding images: %w", err)
		}
	}

	plain, err := s.text.ConvertString(d.HTML)
	if err != nil {
		s.logger.Debug("plain text conversion failed, sending HTML only", "line", d.Line, "error", err)
		plain = ""
	}

	body, bodyType, err := alternativeBody(plain, html, inline, s.logger)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	s.writeHeaders(&buf, d)

	if len(d.Attachments) == 0 {
		fmt.Fprintf(&buf, "Content-Type: %s\r\n\r\n", bodyType)
		buf.Write(body)
		return buf.Bytes(), nil
	}

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	part, err := mixed.CreatePart(textproto.MIMEHeader{"Content-Type": {bodyType}})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(body); err != nil {
		return nil, err
	}
	for _, path := range d.Attachments {
		if err := writeFilePart(mixed, path, "attachment", ""); err != nil {
			return nil, fmt.Errorf("attaching %s: %w", filepath.Base(path), err)
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *EMLSink) writeHeaders(w io.Writer, d *Draft) {
	header := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s: %s\r\n", name, value)
		}
	}
	header("From", formatAddressList([]string{s.from}))
	header("To", formatAddressList(d.To))
	header("Cc", formatAddressList(d.CC))
	header("Bcc", formatAddressList(d.BCC))
	header("Subject", mime.QEncoding.Encode("utf-8", d.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@mdmerge>")
	header("MIME-Version", "1.0")
	header("X-Unsent", "1")
}

// checkHeaderValues refuses addresses that would end the header line.
// A quoted CSV cell may hold line breaks, and written as is they start
// new headers. The subject is Q-encoded and needs no check.
func checkHeaderValues(from string, d *Draft) error {
	fields := []struct {
		name  string
		addrs []string
	}{
		{"From", []string{from}},
		{"To", d.To},
		{"Cc", d.CC},
		{"Bcc", d.BCC},
	}
	for _, f := range fields {
		for _, a := range f.addrs {
			if strings.ContainsAny(a, "\r\n") {
				return fmt.Errorf("%w: %s %q", ErrHeaderBreak, f.name, a)
			}
		}
	}
	return nil
}

// formatAddressList renders addresses for a header, keeping entries that do
// not parse as written so the operator can fix them in the draft.
func formatAddressList(addrs []string) string {
	var out []string
	for _, a := range addrs {
		if a == "" {
			continue
		}
		if parsed, err := mail.ParseAddress(a); err == nil {
			out = append(out, parsed.String())
			continue
		}
		out = append(out, a)
	}
	return strings.Join(out, ", ")
}

// alternativeBody builds the multipart/alternative body and its content type.
func alternativeBody(plain, html string, inline []pipeline.InlineImage, logger *slog.Logger) ([]byte, string, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	if plain != "" {
		if err := writeTextPart(alt, "text/plain; charset=utf-8", plain); err != nil {
			return nil, "", err
		}
	}

	if len(inline) == 0 {
		if err := writeTextPart(alt, "text/html; charset=utf-8", html); err != nil {
			return nil, "", err
		}
	} else {
		var relBuf bytes.Buffer
		rel := multipart.NewWriter(&relBuf)
		if err := writeTextPart(rel, "text/html; charset=utf-8", html); err != nil {
			return nil, "", err
		}
		for _, img := range inline {
			if err := writeFilePart(rel, img.Path, "inline", img.ContentID); err != nil {
				// The reference stays broken in the draft; the rest of it is fine.
				logger.Warn("inline image not embedded", "path", img.Path, "error", err)
			}
		}
		if err := rel.Close(); err != nil {
			return nil, "", err
		}
		part, err := alt.CreatePart(textproto.MIMEHeader{
			"Content-Type": {fmt.Sprintf("multipart/related; boundary=%q", rel.Boundary())},
		})
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(relBuf.Bytes()); err != nil {
			return nil, "", err
		}
	}

	if err := alt.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary()), nil
}

func writeTextPart(w *multipart.Writer, contentType, text string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := io.WriteString(qp, text); err != nil {
		return err
	}
	return qp.Close()
}

// writeFilePart adds a base64 file part. contentID is set for inline parts.
func writeFilePart(w *multipart.Writer, path, disposition, contentID string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- resolved inside the attachment or template directory
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	mediaType, params, err := mime.ParseMediaType(mime.TypeByExtension(filepath.Ext(name)))
	if err != nil {
		mediaType, params = "application/octet-stream", map[string]string{}
	}
	params["name"] = name

	h := textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(mediaType, params)},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType(disposition, map[string]string{"filename": name})},
	}
	if contentID != "" {
		h.Set("Content-ID", "<"+contentID+">")
	}

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	return writeBase64Lines(part, data)
}

// base64LineLength is the RFC 2045 limit for encoded lines.
const base64LineLength = 76

func writeBase64Lines(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := min(len(encoded), base64LineLength)
		if _, err := io.WriteString(w, encoded[:n]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
