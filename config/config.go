package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string // default: "127.0.0.1"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// ControlURL connects to an externally managed browser instead of
	// launching one. An external browser is never closed by this process.
	ControlURL string

	// DefaultProxy is the proxy URL applied to launched browsers.
	DefaultProxy string
}

// SearchConfig controls the search pipeline.
type SearchConfig struct {
	// DefaultTimeout is the per-search deadline when the caller sets none.
	DefaultTimeout time.Duration // default: 60s

	// MaxTimeout caps the caller-supplied timeout.
	MaxTimeout time.Duration // default: 5m

	// NavigationTimeout bounds a single page navigation.
	NavigationTimeout time.Duration // default: 30s

	// SelectorTimeout bounds the wait for one candidate selector.
	SelectorTimeout time.Duration // default: 5s

	// ChallengeWaitTimeout bounds the assisted-mode wait for a human
	// to clear a verification interstitial.
	ChallengeWaitTimeout time.Duration // default: 2m

	// StateRoot is the directory holding session and fingerprint files.
	StateRoot string // default: ~/.serpent

	// Locale is the default interface locale for generated fingerprints.
	Locale string // default: "en-US"
}

// LaunchTimeout is the browser-launch deadline. Cold starts on loaded
// machines routinely exceed a single navigation budget, so the launch
// window is a fixed multiple of it.
func (c SearchConfig) LaunchTimeout() time.Duration {
	return 3 * c.NavigationTimeout
}

// StateFile returns the default session-state path under StateRoot.
func (c SearchConfig) StateFile() string {
	return filepath.Join(c.StateRoot, "browser-state.json")
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the search response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 256
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SERPENT_HOST", "127.0.0.1"),
			Port: envIntOr("SERPENT_PORT", 8080),
			Mode: envOr("SERPENT_MODE", "release"),
		},
		Browser: BrowserConfig{
			NoSandbox:    envBoolOr("SERPENT_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("SERPENT_BROWSER_BIN"),
			ControlURL:   os.Getenv("SERPENT_CONTROL_URL"),
			DefaultProxy: os.Getenv("SERPENT_PROXY"),
		},
		Search: SearchConfig{
			DefaultTimeout:       envDurationOr("SERPENT_DEFAULT_TIMEOUT", 60*time.Second),
			MaxTimeout:           envDurationOr("SERPENT_MAX_TIMEOUT", 5*time.Minute),
			NavigationTimeout:    envDurationOr("SERPENT_NAV_TIMEOUT", 30*time.Second),
			SelectorTimeout:      envDurationOr("SERPENT_SELECTOR_TIMEOUT", 5*time.Second),
			ChallengeWaitTimeout: envDurationOr("SERPENT_CHALLENGE_TIMEOUT", 2*time.Minute),
			StateRoot:            envOr("SERPENT_STATE_ROOT", defaultStateRoot()),
			Locale:               envOr("SERPENT_LOCALE", "en-US"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SERPENT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SERPENT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SERPENT_RATE_RPS", 1.0),
			Burst:             envIntOr("SERPENT_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SERPENT_CACHE_MAX_ENTRIES", 256),
		},
		Log: LogConfig{
			Level:  envOr("SERPENT_LOG_LEVEL", "info"),
			Format: envOr("SERPENT_LOG_FORMAT", "text"),
		},
	}
}

func defaultStateRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "serpent")
	}
	return filepath.Join(home, ".serpent")
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
