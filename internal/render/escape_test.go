package render

import (
	"regexp"
	"strings"
	"testing"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"script tag", `<script>alert("hi")</script>`, "&lt;script&gt;alert(&quot;hi&quot;)&lt;/script&gt;"},
		{"single quote", "it's", "it&#039;s"},
		{"ampersand first", "&lt;", "&amp;lt;"},
		{"plain", "plain text", "plain text"},
		{"empty", "", ""},
		{"unicode", "café <b>", "café &lt;b&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.in); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var entity = regexp.MustCompile(`&(amp|lt|gt|quot|#039);`)

func TestEscapeHTML_NoSignificantCharsLeft(t *testing.T) {
	inputs := []string{
		`<a href="x" onclick='y'>&</a>`,
		"&&&<<<>>>\"\"\"'''",
		"&amp; already escaped",
		"x > y && y < z",
	}

	for _, in := range inputs {
		got := entity.ReplaceAllString(EscapeHTML(in), "")
		if strings.ContainsAny(got, `<>"'&`) {
			t.Errorf("EscapeHTML(%q) leaves a significant character outside entities: %q", in, EscapeHTML(in))
		}
	}
}

func TestEscape(t *testing.T) {
	txt := Escape("<b>")
	if txt.String() != "&lt;b&gt;" {
		t.Errorf("Escape().String() = %q, want &lt;b&gt;", txt.String())
	}
	if string(txt.HTML()) != "&lt;b&gt;" {
		t.Errorf("Escape().HTML() = %q, want &lt;b&gt;", txt.HTML())
	}
}
