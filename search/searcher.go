// Package search composes identity, session, browser and extraction into
// the end-to-end results-page retrieval pipeline, including the
// challenge-escalation protocol.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/use-agent/serpent/browser"
	"github.com/use-agent/serpent/cleaner"
	"github.com/use-agent/serpent/config"
	"github.com/use-agent/serpent/extractor"
	"github.com/use-agent/serpent/models"
	"github.com/use-agent/serpent/session"
)

// Searcher runs search operations. It is safe to share across calls; each
// call opens its own page (and, unless an external browser was supplied,
// its own browser).
type Searcher struct {
	browserCfg config.BrowserConfig
	searchCfg  config.SearchConfig
	extractCfg extractor.Config
	sessions   *session.Store
	external   *browser.Handle
}

// New creates a Searcher that launches and owns a browser per run.
func New(cfg *config.Config) *Searcher {
	return &Searcher{
		browserCfg: cfg.Browser,
		searchCfg:  cfg.Search,
		extractCfg: extractor.DefaultConfig(),
		sessions:   session.NewStore(),
	}
}

// NewWithBrowser creates a Searcher that borrows an externally managed
// browser. The Searcher never closes it: on an irrecoverable challenge the
// handle is abandoned and a fresh owned browser is used instead.
func NewWithBrowser(cfg *config.Config, h *browser.Handle) *Searcher {
	s := New(cfg)
	s.external = h
	return s
}

// Search runs the full pipeline and extracts structured results.
//
// Pipeline failures do not surface as errors: the response keeps its usual
// shape and carries a single record describing the failure, so integration
// layers can hand the outcome straight to their callers. Only invalid
// input is reported as an error.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) (*models.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewSearchError(models.ErrCodeInvalidInput, "query must not be empty", nil)
	}
	opts = opts.withDefaults(s.searchCfg)

	res, err := s.execute(ctx, query, opts)
	if err != nil {
		slog.Error("search pipeline failed", "query", query, "error", err)
		return &models.SearchResponse{
			Query:   query,
			Results: []models.SearchResult{failureResult(query, err)},
		}, nil
	}
	defer res.Finish()

	results := extractor.Extract(res.HTML, s.extractCfg, opts.Limit)
	slog.Info("search completed", "query", query, "results", len(results), "url", res.URL)
	return &models.SearchResponse{Query: query, Results: results}, nil
}

// FetchHTML runs the pipeline and returns the sanitized results-page
// markup instead of structured records. Unlike Search it propagates
// pipeline failures to the caller. When saveToFile is set, the markup and
// a full-page screenshot are written to disk (outputPath, or an auto-named
// file under the temp directory).
func (s *Searcher) FetchHTML(ctx context.Context, query string, opts Options, saveToFile bool, outputPath string) (*models.HTMLResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewSearchError(models.ErrCodeInvalidInput, "query must not be empty", nil)
	}
	opts = opts.withDefaults(s.searchCfg)

	res, err := s.execute(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer res.Finish()

	out := newHTMLResponse(query, res.HTML, res.URL)

	if saveToFile {
		path := outputPath
		if path == "" {
			path = filepath.Join(os.TempDir(), fmt.Sprintf("serpent-%s-%d.html", querySlug(query), time.Now().Unix()))
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if err := os.WriteFile(path, []byte(out.HTML), 0o644); err != nil {
				slog.Warn("html snapshot write failed", "path", path, "error", err)
			} else {
				out.SavedPath = path
			}
		}

		shotPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
		if data, err := res.Page().Screenshot(true, nil); err != nil {
			slog.Warn("screenshot failed", "error", err)
		} else if err := os.WriteFile(shotPath, data, 0o644); err == nil {
			out.ScreenshotPath = shotPath
		}
	}

	slog.Info("html fetch completed", "query", query, "bytes", len(out.HTML), "saved", out.SavedPath)
	return out, nil
}

// newHTMLResponse sanitizes captured markup into the fetch payload,
// deriving the page title from the raw document.
func newHTMLResponse(query, rawHTML, pageURL string) *models.HTMLResponse {
	return &models.HTMLResponse{
		Query:              query,
		Title:              cleaner.ExtractTitle([]byte(rawHTML)),
		HTML:               cleaner.StripMarkup(rawHTML),
		URL:                pageURL,
		OriginalHTMLLength: len(rawHTML),
	}
}

// failureResult is the synthetic record that stands in for results when
// the pipeline fails. It satisfies the usual record invariants so callers
// can treat it like any other result.
func failureResult(query string, err error) models.SearchResult {
	return models.SearchResult{
		Title:   "Search failed",
		Link:    "https://www.google.com/search?q=" + url.QueryEscape(query),
		Snippet: err.Error(),
	}
}

// querySlug turns a query into a filesystem-safe fragment for auto-named
// snapshot files.
func querySlug(query string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, query)
	if len(slug) > 50 {
		slug = slug[:50]
	}
	return strings.Trim(slug, "-")
}
