package search

import (
	"time"

	"github.com/use-agent/serpent/config"
)

// Options are the per-call knobs of a search run. The zero value means
// "use the configured defaults" for every field.
type Options struct {
	// Limit is the maximum number of results to return. Default 10.
	Limit int

	// Timeout bounds the entire run. Default from configuration (60s),
	// capped at the configured maximum.
	Timeout time.Duration

	// StateFile is the session-state path; the fingerprint file is
	// derived from it. Default lives under the configured state root.
	StateFile string

	// NoSaveState disables all state persistence for this run: the
	// session and fingerprint files are neither created nor modified.
	NoSaveState bool

	// Locale overrides the fingerprint locale hint for newly generated
	// identities. A stored identity always wins over this hint.
	Locale string
}

// withDefaults fills unset fields from the search configuration.
func (o Options) withDefaults(cfg config.SearchConfig) Options {
	if o.Limit <= 0 {
		o.Limit = 10
	}
	if o.Timeout <= 0 {
		o.Timeout = cfg.DefaultTimeout
	}
	if o.Timeout > cfg.MaxTimeout {
		o.Timeout = cfg.MaxTimeout
	}
	if o.StateFile == "" {
		o.StateFile = cfg.StateFile()
	}
	if o.Locale == "" {
		o.Locale = cfg.Locale
	}
	return o
}
