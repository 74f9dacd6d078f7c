package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/use-agent/serpent/cleaner"
	"github.com/use-agent/serpent/models"
	"github.com/use-agent/serpent/search"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	opts := search.Options{
		Limit:       c.Limit,
		Locale:      c.Locale,
		StateFile:   c.StateFile,
		NoSaveState: c.NoSaveState,
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		opts.Timeout = d
	}

	if c.GetHTML || c.SaveHTML {
		return c.runHTML(deps, opts)
	}

	resp, err := deps.Searcher.Search(deps.Ctx, c.Query, opts)
	if err != nil {
		return err
	}

	switch c.Format {
	case "text", "markdown":
		c.printResultsText(deps, resp)
	default:
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	}
	return nil
}

// runHTML handles --get-html and --save-html.
func (c *SearchCmd) runHTML(deps *Dependencies, opts search.Options) error {
	resp, err := deps.Searcher.FetchHTML(deps.Ctx, c.Query, opts, c.SaveHTML, c.HTMLOutput)
	if err != nil {
		return err
	}

	switch c.Format {
	case "markdown":
		md, err := cleaner.ToMarkdown(resp.HTML, resp.URL)
		if err != nil {
			return fmt.Errorf("convert to markdown: %w", err)
		}
		fmt.Fprintln(deps.Stdout, md)
	case "text":
		fmt.Fprintln(deps.Stdout, resp.HTML)
	default:
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}

	if resp.SavedPath != "" {
		fmt.Fprintf(deps.Stderr, "saved markup to %s\n", resp.SavedPath)
	}
	if resp.ScreenshotPath != "" {
		fmt.Fprintf(deps.Stderr, "saved screenshot to %s\n", resp.ScreenshotPath)
	}
	return nil
}

func (c *SearchCmd) printResultsText(deps *Dependencies, resp *models.SearchResponse) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return
	}
	for i, r := range resp.Results {
		fmt.Fprintf(deps.Stdout, "%d. %s\n   %s\n", i+1, r.Title, r.Link)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", r.Snippet)
		}
		fmt.Fprintln(deps.Stdout)
	}
}
