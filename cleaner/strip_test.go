package cleaner

import (
	"strings"
	"testing"
)

func TestStripMarkup(t *testing.T) {
	in := `<html><head><title>results</title><style>.a{color:red}</style></head>` +
		`<body><script>alert(1)</script><noscript>enable js</noscript>` +
		`<div id="search"><a href="https://go.dev/"><h3>Go</h3></a></div></body></html>`

	out := StripMarkup(in)

	for _, gone := range []string{"<script", "<style", "<noscript", "alert(1)", "color:red"} {
		if strings.Contains(out, gone) {
			t.Errorf("output still contains %q", gone)
		}
	}
	for _, kept := range []string{`id="search"`, "https://go.dev/", "<h3>Go</h3>"} {
		if !strings.Contains(out, kept) {
			t.Errorf("output lost %q", kept)
		}
	}
}

func TestStripMarkup_PlainTextPassesThrough(t *testing.T) {
	out := StripMarkup("just text, no markup")
	if !strings.Contains(out, "just text, no markup") {
		t.Errorf("text content lost: %q", out)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"simple", "<html><head><title>golang - Google Search</title></head></html>", "golang - Google Search"},
		{"whitespace", "<title>\n  padded  \n</title>", "padded"},
		{"missing", "<html><body><p>no title</p></body></html>", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle([]byte(tt.html)); got != tt.want {
				t.Errorf("ExtractTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(`<h1>Results</h1><p>See <a href="/url?q=x">this link</a>.</p>`, "https://www.google.com")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if !strings.Contains(md, "Results") {
		t.Errorf("heading lost: %q", md)
	}
	if !strings.Contains(md, "https://www.google.com/url?q=x") {
		t.Errorf("relative link not resolved: %q", md)
	}
}
