// Package extractor turns a rendered results page into structured records.
// Extraction is strategy-driven: an ordered table of selector descriptors is
// tried against the page, and a loose anchor scan backfills whatever the
// strategies missed. The selector tables are plain data so markup drift is
// absorbed by editing configuration, not code.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/serpent/models"
)

// Strategy describes one way of locating results on the page.
type Strategy struct {
	// Container matches one result block.
	Container string
	// Title matches the result title inside a container.
	Title string
	// Snippet matches the result description inside a container.
	Snippet string
}

// Config is the full extraction configuration. It is pure data; Extract
// never mutates it.
type Config struct {
	// Strategies are tried in order; the first match in list order wins.
	Strategies []Strategy

	// SnippetFallbacks are standalone snippet selectors tried, in order,
	// when a strategy's own snippet selector matches nothing.
	SnippetFallbacks []string

	// ExcludedLinkPatterns disqualify anchors in the fallback scan whose
	// href contains any of these substrings.
	ExcludedLinkPatterns []string

	// MinSnippetLen is the minimum text length for a derived snippet.
	MinSnippetLen int
}

// DefaultConfig returns the selector tables for Google's current layouts,
// newest first. The legacy div.g layout still appears on some regional
// domains, so it stays in the table.
func DefaultConfig() Config {
	return Config{
		Strategies: []Strategy{
			{Container: "#search div[data-hveid]", Title: "h3", Snippet: ".VwiC3b"},
			{Container: "#rso div[data-hveid]", Title: "h3", Snippet: ".VwiC3b"},
			{Container: "div.g", Title: "h3", Snippet: ".VwiC3b"},
		},
		SnippetFallbacks: []string{
			".VwiC3b",
			"[data-sncf='1']",
			"div[style*='-webkit-line-clamp']",
			"div[role='text']",
		},
		ExcludedLinkPatterns: []string{
			"google.com/search",
			"google.com/preferences",
			"google.com/intl",
			"accounts.google",
			"support.google",
			"policies.google",
			"maps.google",
			"translate.google",
			"webcache.googleusercontent",
		},
		MinSnippetLen: 20,
	}
}

// Validate compiles every selector in the configuration so malformed tables
// surface in tests instead of silently matching nothing at runtime.
func (c Config) Validate() error {
	check := func(kind, sel string) error {
		if sel == "" {
			return fmt.Errorf("empty %s selector", kind)
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("%s selector %q: %w", kind, sel, err)
		}
		return nil
	}
	for _, s := range c.Strategies {
		if err := check("container", s.Container); err != nil {
			return err
		}
		if err := check("title", s.Title); err != nil {
			return err
		}
		if err := check("snippet", s.Snippet); err != nil {
			return err
		}
	}
	for _, sel := range c.SnippetFallbacks {
		if err := check("snippet fallback", sel); err != nil {
			return err
		}
	}
	return nil
}

// Extract gathers at most maxResults records from the rendered page HTML.
// It never fails: unparseable markup or zero matches yield an empty slice,
// which is a valid outcome for the caller to report.
func Extract(html string, cfg Config, maxResults int) []models.SearchResult {
	if maxResults <= 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	results := make([]models.SearchResult, 0, maxResults)

	results = primaryPass(doc, cfg, maxResults, seen, results)
	if len(results) < maxResults {
		results = fallbackPass(doc, cfg, maxResults, seen, results)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// primaryPass walks the strategy table in priority order, enumerating
// containers in document order.
func primaryPass(doc *goquery.Document, cfg Config, maxResults int, seen map[string]struct{}, results []models.SearchResult) []models.SearchResult {
	for _, strat := range cfg.Strategies {
		if len(results) >= maxResults {
			break
		}
		doc.Find(strat.Container).EachWithBreak(func(_ int, container *goquery.Selection) bool {
			if len(results) >= maxResults {
				return false
			}

			title := container.Find(strat.Title).First()
			if title.Length() == 0 {
				return true
			}
			titleText := strings.TrimSpace(title.Text())
			if titleText == "" {
				return true
			}

			link := resolveLink(container, title)
			if !isAbsoluteHTTP(link) {
				return true
			}
			if _, dup := seen[link]; dup {
				return true
			}

			results = append(results, models.SearchResult{
				Title:   titleText,
				Link:    link,
				Snippet: resolveSnippet(container, strat, cfg),
			})
			seen[link] = struct{}{}
			return true
		})
	}
	return results
}

// resolveLink finds the result URL for a title node. Priority: an anchor
// directly inside the title, then the title's nearest ancestor anchor, then
// the first anchor anywhere in the container. First match wins.
func resolveLink(container, title *goquery.Selection) string {
	if a := title.Find("a[href]").First(); a.Length() > 0 {
		return strings.TrimSpace(a.AttrOr("href", ""))
	}
	if a := title.Closest("a[href]"); a.Length() > 0 {
		return strings.TrimSpace(a.AttrOr("href", ""))
	}
	if a := container.Find("a[href]").First(); a.Length() > 0 {
		return strings.TrimSpace(a.AttrOr("href", ""))
	}
	return ""
}

// resolveSnippet locates a description: the strategy's own selector, then
// each standalone fallback selector, then the first block-level descendant
// that holds no nested title and carries enough text.
func resolveSnippet(container *goquery.Selection, strat Strategy, cfg Config) string {
	if s := strings.TrimSpace(container.Find(strat.Snippet).First().Text()); s != "" {
		return s
	}
	for _, sel := range cfg.SnippetFallbacks {
		if s := strings.TrimSpace(container.Find(sel).First().Text()); s != "" {
			return s
		}
	}

	var snippet string
	container.Find("div, span, p").EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if block.Find(strat.Title).Length() > 0 {
			return true
		}
		text := strings.TrimSpace(block.Text())
		if len(text) > cfg.MinSnippetLen {
			snippet = text
			return false
		}
		return true
	})
	return snippet
}

// fallbackPass scans every absolute-HTTP anchor in document order and
// accepts anything that is not a provider-internal link and not already
// captured. Runs only when the primary pass came up short.
func fallbackPass(doc *goquery.Document, cfg Config, maxResults int, seen map[string]struct{}, results []models.SearchResult) []models.SearchResult {
	doc.Find("a[href^='http']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(results) >= maxResults {
			return false
		}

		link := strings.TrimSpace(a.AttrOr("href", ""))
		if !isAbsoluteHTTP(link) || isExcluded(link, cfg.ExcludedLinkPatterns) {
			return true
		}
		if _, dup := seen[link]; dup {
			return true
		}

		title := strings.TrimSpace(a.Text())
		if title == "" {
			return true
		}

		results = append(results, models.SearchResult{
			Title:   title,
			Link:    link,
			Snippet: ancestorSnippet(a, title, cfg.MinSnippetLen),
		})
		seen[link] = struct{}{}
		return true
	})
	return results
}

// ancestorSnippet walks up to three ancestor levels from the anchor and
// takes the first ancestor whose text is long enough and is not just the
// title again.
func ancestorSnippet(a *goquery.Selection, title string, minLen int) string {
	parent := a.Parent()
	for depth := 0; depth < 3 && parent.Length() > 0; depth++ {
		text := strings.TrimSpace(parent.Text())
		if len(text) > minLen && text != title {
			return text
		}
		parent = parent.Parent()
	}
	return ""
}

func isAbsoluteHTTP(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

func isExcluded(link string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(link, p) {
			return true
		}
	}
	return false
}
