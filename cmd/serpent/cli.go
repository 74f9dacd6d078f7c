package main

import (
	"context"
	"io"

	"github.com/use-agent/serpent/config"
	"github.com/use-agent/serpent/search"
)

// Dependencies holds configuration and services for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Cfg      *config.Config
	Searcher *search.Searcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Search SearchCmd `cmd:"" help:"Run a search and print the extracted results"`
	Serve  ServeCmd  `cmd:"" help:"Start the HTTP API server"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`

	Limit       int    `short:"n" default:"10" help:"Maximum number of results"`
	Timeout     string `help:"Overall deadline for the run (Go duration, e.g. 90s)"`
	Locale      string `help:"Interface locale for first-time fingerprints (e.g. de-DE)"`
	StateFile   string `help:"Session state file path"`
	NoSaveState bool   `help:"Do not persist session or fingerprint after the run"`

	Format string `default:"json" enum:"json,text,markdown" help:"Output format"`

	GetHTML    bool   `name:"get-html" help:"Print the results-page markup instead of structured results"`
	SaveHTML   bool   `name:"save-html" help:"Also write the markup and a screenshot to disk (implies --get-html)"`
	HTMLOutput string `name:"html-output" help:"Markup output path (with --save-html)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
