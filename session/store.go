// Package session persists opaque browser session state (cookies and origin
// storage) between runs. Reusing an established session reduces repeated
// challenge exposure.
package session

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Store reads and writes session blobs on the local filesystem. The blob
// content is owned by the browser layer; the store never interprets it
// beyond a cheap validity check on load.
type Store struct{}

// NewStore creates a session store.
func NewStore() *Store {
	return &Store{}
}

// Exists reports whether a session file is present at path.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load reads the session blob at path. A missing, unreadable or empty file
// is reported as absent, never as an error: a lost session only means the
// next run starts unauthenticated.
func (s *Store) Load(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("session file unreadable, starting fresh", "path", path, "error", err)
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

// Save writes the session blob to path, creating intermediate directories.
func (s *Store) Save(path string, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}
