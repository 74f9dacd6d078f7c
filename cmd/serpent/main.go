package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/use-agent/serpent/browser"
	"github.com/use-agent/serpent/config"
	"github.com/use-agent/serpent/search"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the CLI with the given arguments.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()
	initLogger(cfg.Log)

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Cfg:    cfg,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("serpent"),
		kong.Description("Search the web through a real browser session"),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Searcher, err = buildSearcher(cfg)
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// buildSearcher connects to an externally managed browser when a control
// URL is configured, otherwise the Searcher launches its own per run.
func buildSearcher(cfg *config.Config) (*search.Searcher, error) {
	if cfg.Browser.ControlURL == "" {
		return search.New(cfg), nil
	}
	h, err := browser.Connect(cfg.Browser.ControlURL)
	if err != nil {
		return nil, fmt.Errorf("connect to browser at %s: %w", cfg.Browser.ControlURL, err)
	}
	return search.NewWithBrowser(cfg, h), nil
}

// initLogger configures slog based on the LogConfig.
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
