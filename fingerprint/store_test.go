package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_PathDerivation(t *testing.T) {
	s := NewStore("/tmp/serpent/browser-state.json")
	want := "/tmp/serpent/browser-state-fingerprint.json"
	if s.Path() != want {
		t.Errorf("Path() = %q, want %q", s.Path(), want)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "nested", "state.json"))

	p := Generate("en-US", time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC))
	if err := s.Save(p, "www.google.de"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, domain, ok := s.Load()
	if !ok {
		t.Fatal("Load reported absent after Save")
	}
	if got != p {
		t.Errorf("loaded profile %+v, want %+v", got, p)
	}
	if domain != "www.google.de" {
		t.Errorf("domain = %q, want www.google.de", domain)
	}
}

func TestStore_IdentityReusedAcrossLoads(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))

	p := Generate("de-DE", time.Date(2025, 1, 10, 21, 0, 0, 0, time.UTC))
	if err := s.Save(p, "www.google.com"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	first, _, ok := s.Load()
	if !ok {
		t.Fatal("first Load reported absent")
	}
	second, _, ok := s.Load()
	if !ok {
		t.Fatal("second Load reported absent")
	}
	if first != second {
		t.Errorf("consecutive loads differ: %+v vs %+v", first, second)
	}
}

func TestStore_MissingFileIsAbsent(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state.json"))
	if _, _, ok := s.Load(); ok {
		t.Error("Load reported a profile for a missing file")
	}
}

func TestStore_CorruptFileIsAbsent(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "state.json"))
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, ok := s.Load(); ok {
		t.Error("Load reported a profile for a corrupt file")
	}
	// The corrupt file is discarded so the next Save starts clean.
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("corrupt fingerprint file was not removed")
	}
}
