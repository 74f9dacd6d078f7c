// Package cleaner sanitizes captured results-page markup for storage and
// display: executable and presentational elements are stripped while the
// result structure itself is preserved.
package cleaner

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// StripMarkup removes script, style and noscript elements from the page
// HTML. The DOM structure of the results is left intact so downstream
// selector-based tooling keeps working on the snapshot. Unparseable input
// is returned unchanged.
func StripMarkup(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	doc.Find("script, style, noscript").Remove()

	out, err := doc.Html()
	if err != nil {
		return rawHTML
	}
	return out
}

// ExtractTitle extracts the <title> content from raw HTML bytes.
func ExtractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
