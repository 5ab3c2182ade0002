package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestWrapDocument(t *testing.T) {
	t.Parallel()

	got := WrapDocument("Q3 <update>", "<p>body</p>")
	for _, want := range []string{"<!DOCTYPE html>", "<title>Q3 &lt;update&gt;</title>", "<p>body</p>", `<meta charset="utf-8">`} {
		if !strings.Contains(got, want) {
			t.Errorf("WrapDocument() missing %q:\n%s", want, got)
		}
	}
}

func TestCSSInjection_InjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{"before head close", "<html><head></head><body></body></html>", "p{}", "<html><head><style>p{}</style></head><body></body></html>"},
		{"after body open", `<body class="x"><p>a</p></body>`, "p{}", `<body class="x"><style>p{}</style><p>a</p></body>`},
		{"prepend to fragment", "<p>a</p>", "p{}", "<style>p{}</style><p>a</p>"},
		{"empty css", "<p>a</p>", "", "<p>a</p>"},
		{"style close escaped", "<p>a</p>", "</style><script>", `<style><\/style><script></style><p>a</p>`},
	}

	inj := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := inj.InjectCSS(context.Background(), tt.html, tt.css); got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvelopeInjection_InjectEnvelope(t *testing.T) {
	t.Parallel()

	inj := NewEnvelopeInjection()
	page := WrapDocument("Hello", "<p>body</p>")
	data := &EnvelopeData{
		From:        "me@x.com",
		To:          []string{"bob@x.com", "amy@x.com"},
		Subject:     "Hello <b>",
		Attachments: []string{"report.pdf"},
	}

	got, err := inj.InjectEnvelope(context.Background(), page, data)
	if err != nil {
		t.Fatalf("InjectEnvelope() error = %v", err)
	}

	for _, want := range []string{
		`<table class="mdmerge-envelope">`,
		"<td>bob@x.com, amy@x.com</td>",
		"<td>Hello &lt;b&gt;</td>",
		"<td>report.pdf</td>",
		"<td>me@x.com</td>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<th>CC</th>") {
		t.Errorf("empty CC row should be omitted:\n%s", got)
	}
	if strings.Index(got, "mdmerge-envelope") > strings.Index(got, "<p>body</p>") {
		t.Errorf("envelope should precede the body:\n%s", got)
	}
}

func TestEnvelopeInjection_NilData(t *testing.T) {
	t.Parallel()

	in := "<body></body>"
	got, err := NewEnvelopeInjection().InjectEnvelope(context.Background(), in, nil)
	if err != nil || got != in {
		t.Errorf("InjectEnvelope(nil) = %q, %v; want input, nil", got, err)
	}
}
