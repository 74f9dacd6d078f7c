package search

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/serpent/config"
)

var errTest = errors.New("browser launch failed")

func testSearchConfig(t *testing.T) config.SearchConfig {
	t.Helper()
	return config.SearchConfig{
		DefaultTimeout:       60 * time.Second,
		MaxTimeout:           5 * time.Minute,
		NavigationTimeout:    30 * time.Second,
		SelectorTimeout:      5 * time.Second,
		ChallengeWaitTimeout: 2 * time.Minute,
		StateRoot:            t.TempDir(),
		Locale:               "en-US",
	}
}

func TestOptions_Defaults(t *testing.T) {
	cfg := testSearchConfig(t)
	o := Options{}.withDefaults(cfg)

	if o.Limit != 10 {
		t.Errorf("Limit = %d, want 10", o.Limit)
	}
	if o.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", o.Timeout)
	}
	if o.StateFile != filepath.Join(cfg.StateRoot, "browser-state.json") {
		t.Errorf("StateFile = %q", o.StateFile)
	}
	if o.Locale != "en-US" {
		t.Errorf("Locale = %q, want en-US", o.Locale)
	}
	if o.NoSaveState {
		t.Error("NoSaveState should default to false")
	}
}

func TestOptions_TimeoutCapped(t *testing.T) {
	o := Options{Timeout: time.Hour}.withDefaults(testSearchConfig(t))
	if o.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want the 5m cap", o.Timeout)
	}
}

func TestOptions_ExplicitValuesKept(t *testing.T) {
	in := Options{
		Limit:       3,
		Timeout:     20 * time.Second,
		StateFile:   "/tmp/custom.json",
		NoSaveState: true,
		Locale:      "de-DE",
	}
	o := in.withDefaults(testSearchConfig(t))
	if o != in {
		t.Errorf("explicit options mutated: %+v", o)
	}
}

func TestLaunchTimeoutIsMultipleOfNavigation(t *testing.T) {
	cfg := testSearchConfig(t)
	if cfg.LaunchTimeout() != 3*cfg.NavigationTimeout {
		t.Errorf("LaunchTimeout = %v, want 3x navigation timeout", cfg.LaunchTimeout())
	}
}

func TestFailureResult_KeepsRecordInvariants(t *testing.T) {
	r := failureResult("how to test go code", errTest)
	if r.Title == "" {
		t.Error("synthetic record must carry a title")
	}
	if !strings.HasPrefix(r.Link, "https://") {
		t.Errorf("synthetic record link %q is not absolute https", r.Link)
	}
	if !strings.Contains(r.Link, "how+to+test+go+code") {
		t.Errorf("link does not embed the query: %q", r.Link)
	}
	if !strings.Contains(r.Snippet, errTest.Error()) {
		t.Errorf("snippet does not describe the failure: %q", r.Snippet)
	}
}

func TestQuerySlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"golang testing", "golang-testing"},
		{"Hello World", "hello-world"},
		{"  spaced  ", "spaced"},
		{"C++", "c"},
	}
	for _, tt := range tests {
		if got := querySlug(tt.in); got != tt.want {
			t.Errorf("querySlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := querySlug(strings.Repeat("a", 80)); len(got) != 50 {
		t.Errorf("long slug not truncated: %d chars", len(got))
	}
}

func TestPickDomain_FromCandidateList(t *testing.T) {
	candidates := make(map[string]bool, len(searchDomains))
	for _, d := range searchDomains {
		candidates[d] = true
	}
	for i := 0; i < 50; i++ {
		if d := pickDomain(); !candidates[d] {
			t.Fatalf("pickDomain returned %q, not in the candidate list", d)
		}
	}
}
