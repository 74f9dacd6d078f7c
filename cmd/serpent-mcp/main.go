package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/serpent/browser"
	"github.com/use-agent/serpent/cache"
	"github.com/use-agent/serpent/config"
	"github.com/use-agent/serpent/search"
)

func main() {
	cfg := config.Load()

	// Stdout carries the MCP protocol; logs must go to stderr.
	initLogger(cfg.Log)

	searcher, cleanup, err := buildSearcher(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	cc := cache.New(cfg.Cache.MaxEntries)

	s := server.NewMCPServer(
		"serpent",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Search the web and return structured results (title, link, snippet). Uses a real browser session with a persistent identity, so repeated searches look like one returning user."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 10)"),
		),
		mcp.WithString("locale",
			mcp.Description("Interface locale for first-time runs, e.g. 'de-DE' (default: system locale)"),
		),
		mcp.WithBoolean("no_save_state",
			mcp.Description("Do not persist session or fingerprint after the run"),
		),
	)
	s.AddTool(searchTool, handleSearch(searcher, cc, cfg.Search.Locale))

	fetchHTMLTool := mcp.NewTool("fetch_serp_html",
		mcp.WithDescription("Fetch the raw results-page markup for a query (scripts and styles removed). Useful when the structured extraction misses something."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query"),
		),
		mcp.WithBoolean("save_to_file",
			mcp.Description("Also write the markup and a screenshot to disk"),
		),
		mcp.WithString("output_path",
			mcp.Description("Markup output path (with save_to_file)"),
		),
	)
	s.AddTool(fetchHTMLTool, handleFetchHTML(searcher))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// buildSearcher connects to an externally managed browser when a control
// URL is configured. The returned cleanup drops that connection; external
// browsers are never killed.
func buildSearcher(cfg *config.Config) (*search.Searcher, func(), error) {
	if cfg.Browser.ControlURL == "" {
		return search.New(cfg), func() {}, nil
	}
	h, err := browser.Connect(cfg.Browser.ControlURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to browser at %s: %w", cfg.Browser.ControlURL, err)
	}
	return search.NewWithBrowser(cfg, h), h.Close, nil
}

// mcpCacheMaxAge bounds how stale a cached response may be when served to
// an MCP client.
const mcpCacheMaxAge = 5 * time.Minute

func handleSearch(s *search.Searcher, cc *cache.Cache, defaultLocale string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		limit := request.GetInt("limit", 10)
		locale := request.GetString("locale", "")
		noSave := request.GetBool("no_save_state", false)

		cacheLocale := locale
		if cacheLocale == "" {
			cacheLocale = defaultLocale
		}
		cacheKey := cache.Key(query, limit, cacheLocale)
		if cached, hit := cc.Get(cacheKey, mcpCacheMaxAge); hit {
			return resultJSON(cached)
		}

		resp, err := s.Search(ctx, query, search.Options{
			Limit:       limit,
			Locale:      locale,
			NoSaveState: noSave,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cc.Set(cacheKey, resp)
		return resultJSON(resp)
	}
}

func handleFetchHTML(s *search.Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		saveToFile := request.GetBool("save_to_file", false)
		outputPath := request.GetString("output_path", "")

		resp, err := s.FetchHTML(ctx, query, search.Options{}, saveToFile, outputPath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		header := fmt.Sprintf("URL: %s\n", resp.URL)
		if resp.SavedPath != "" {
			header += fmt.Sprintf("Saved: %s\n", resp.SavedPath)
		}
		if resp.ScreenshotPath != "" {
			header += fmt.Sprintf("Screenshot: %s\n", resp.ScreenshotPath)
		}
		return mcp.NewToolResultText(header + "\n" + resp.HTML), nil
	}
}

// resultJSON renders a payload as pretty JSON tool output.
func resultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// initLogger configures slog on stderr based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
