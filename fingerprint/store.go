package fingerprint

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// record is the on-disk shape of a stored identity. The google domain is
// persisted alongside the profile so repeated runs hit the same regional
// endpoint.
type record struct {
	Fingerprint  Profile `json:"fingerprint"`
	GoogleDomain string  `json:"googleDomain,omitempty"`
}

// Store persists an identity profile next to the session-state file.
type Store struct {
	path string
}

// NewStore derives the fingerprint file path from a session-state path by
// replacing its extension with a fingerprint suffix
// (e.g. "state.json" -> "state-fingerprint.json").
func NewStore(stateFile string) *Store {
	ext := filepath.Ext(stateFile)
	base := strings.TrimSuffix(stateFile, ext)
	return &Store{path: base + "-fingerprint.json"}
}

// Path returns the fingerprint file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored profile and domain binding. A missing file is
// reported as absent; a corrupt file is logged, discarded and also reported
// as absent so the caller regenerates. Never fatal.
func (s *Store) Load() (Profile, string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("fingerprint file unreadable, regenerating", "path", s.path, "error", err)
		}
		return Profile{}, "", false
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("fingerprint file corrupt, discarding", "path", s.path, "error", err)
		_ = os.Remove(s.path)
		return Profile{}, "", false
	}
	if rec.Fingerprint.DeviceName == "" {
		slog.Warn("fingerprint file incomplete, discarding", "path", s.path)
		return Profile{}, "", false
	}
	return rec.Fingerprint, rec.GoogleDomain, true
}

// Save writes the profile and domain binding, creating intermediate
// directories as needed.
func (s *Store) Save(p Profile, domain string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(record{Fingerprint: p, GoogleDomain: domain}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
