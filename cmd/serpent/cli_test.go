package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func newTestParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	var out bytes.Buffer
	parser, err := kong.New(cli,
		kong.Name("serpent"),
		kong.Writers(&out, &out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}
	return parser
}

func TestCLI_ParseSearch(t *testing.T) {
	cli := &CLI{}
	parser := newTestParser(t, cli)

	ctx, err := parser.Parse([]string{"search", "golang testing", "--limit", "5", "--format", "text", "--no-save-state"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ctx.Command(); got != "search <query>" {
		t.Errorf("command = %q", got)
	}
	if cli.Search.Query != "golang testing" {
		t.Errorf("query = %q", cli.Search.Query)
	}
	if cli.Search.Limit != 5 {
		t.Errorf("limit = %d, want 5", cli.Search.Limit)
	}
	if cli.Search.Format != "text" {
		t.Errorf("format = %q, want text", cli.Search.Format)
	}
	if !cli.Search.NoSaveState {
		t.Error("--no-save-state not set")
	}
}

func TestCLI_SearchDefaults(t *testing.T) {
	cli := &CLI{}
	parser := newTestParser(t, cli)

	if _, err := parser.Parse([]string{"search", "golang"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cli.Search.Limit != 10 {
		t.Errorf("default limit = %d, want 10", cli.Search.Limit)
	}
	if cli.Search.Format != "json" {
		t.Errorf("default format = %q, want json", cli.Search.Format)
	}
}

func TestCLI_RejectsUnknownFormat(t *testing.T) {
	cli := &CLI{}
	parser := newTestParser(t, cli)

	_, err := parser.Parse([]string{"search", "golang", "--format", "yaml"})
	if err == nil || !strings.Contains(err.Error(), "format") {
		t.Errorf("expected enum error for --format yaml, got %v", err)
	}
}

func TestCLI_ParseServe(t *testing.T) {
	cli := &CLI{}
	parser := newTestParser(t, cli)

	ctx, err := parser.Parse([]string{"serve"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ctx.Command(); got != "serve" {
		t.Errorf("command = %q, want serve", got)
	}
}
