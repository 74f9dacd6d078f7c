package models

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`

	// Limit caps the number of extracted results. Defaults to 10.
	Limit int `json:"limit"`

	// TimeoutMs bounds the whole search run in milliseconds.
	TimeoutMs int `json:"timeout_ms"`

	// Locale overrides the fingerprint locale for first-time runs.
	Locale string `json:"locale"`

	// NoSaveState skips session and fingerprint persistence after the run.
	NoSaveState bool `json:"no_save_state"`

	// MaxAgeMs accepts a cached response no older than this. Zero
	// disables the cache for the request.
	MaxAgeMs int `json:"max_age_ms"`
}

// HTMLRequest is the body of POST /api/v1/html.
type HTMLRequest struct {
	Query string `json:"query" binding:"required"`

	TimeoutMs   int    `json:"timeout_ms"`
	Locale      string `json:"locale"`
	NoSaveState bool   `json:"no_save_state"`

	// SaveToFile additionally writes the markup and a screenshot to disk
	// on the server.
	SaveToFile bool   `json:"save_to_file"`
	OutputPath string `json:"output_path"`
}

// APIResponse is the envelope for every API payload.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`

	// CacheStatus is "hit" or "miss" when the request was cacheable.
	CacheStatus string `json:"cache_status,omitempty"`
}

// HealthResponse is the payload of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
