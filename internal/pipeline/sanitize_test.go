package pipeline

import (
	"strings"
	"testing"
)

func TestHTMLSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "script removed",
			in:           `<p>hi</p><script>alert(1)</script>`,
			wantContains: []string{"<p>hi</p>"},
			wantExcludes: []string{"script", "alert"},
		},
		{
			name:         "event handler removed",
			in:           `<img src="a.png" onerror="alert(1)">`,
			wantExcludes: []string{"onerror"},
		},
		{
			name:         "mark kept",
			in:           `<p><mark>hot</mark></p>`,
			wantContains: []string{"<mark>hot</mark>"},
		},
		{
			name:         "highlight colors kept",
			in:           `<pre style="color:#24292e;background-color:#fff"><code><span style="color:#d73a49">func</span></code></pre>`,
			wantContains: []string{"color", "<span", "func"},
		},
		{
			name:         "dangerous style dropped",
			in:           `<span style="position:fixed;top:0">x</span>`,
			wantExcludes: []string{"position"},
		},
		{
			name:         "tables kept",
			in:           `<table><tr><td>1</td></tr></table>`,
			wantContains: []string{"<table>", "<td>1</td>"},
		},
	}

	s := NewHTMLSanitizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Sanitize(tt.in)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() missing %q:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize() should not contain %q:\n%s", exclude, got)
				}
			}
		})
	}
}
