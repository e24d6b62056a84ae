package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"emphasis", "Learn **openings**", "<strong>openings</strong>"},
		{"hard wrap", "line one\nline two", "<br"},
		{"raw html escaped", "<script>alert(1)</script>", "<!-- raw HTML omitted -->"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHTML(tt.in)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.in, got, tt.want)
			}
			if strings.Contains(got, "<script>") {
				t.Errorf("ToHTML(%q) leaked a script tag", tt.in)
			}
		})
	}
}
