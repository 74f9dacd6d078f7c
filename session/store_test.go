package session

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore()
	path := filepath.Join(t.TempDir(), "deep", "nested", "state.json")

	blob := []byte(`{"cookies":[{"name":"NID","value":"abc"}],"origins":[]}`)
	if err := s.Save(path, blob); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Exists(path) {
		t.Fatal("Exists = false after Save")
	}

	got, ok := s.Load(path)
	if !ok {
		t.Fatal("Load reported absent after Save")
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("loaded blob differs: %s", got)
	}
}

func TestStore_MissingIsAbsent(t *testing.T) {
	s := NewStore()
	path := filepath.Join(t.TempDir(), "nope.json")
	if s.Exists(path) {
		t.Error("Exists = true for missing file")
	}
	if _, ok := s.Load(path); ok {
		t.Error("Load reported a blob for a missing file")
	}
}

func TestStore_EmptyFileIsAbsent(t *testing.T) {
	s := NewStore()
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Load(path); ok {
		t.Error("Load reported a blob for an empty file")
	}
}

func TestStore_DirectoryIsNotASession(t *testing.T) {
	s := NewStore()
	if s.Exists(t.TempDir()) {
		t.Error("Exists = true for a directory")
	}
}
