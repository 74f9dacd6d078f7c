package models

// SearchResult is a single organic result extracted from a results page.
// Title and Link are always non-empty; Link always carries an http(s) scheme.
// Snippet may be empty when no description could be located.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SearchResponse pairs the extracted results with the query that produced them.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// HTMLResponse is the payload of a raw results-page fetch. HTML is the
// sanitized page markup (script and style elements removed).
type HTMLResponse struct {
	Query              string `json:"query"`
	Title              string `json:"title,omitempty"`
	HTML               string `json:"html"`
	URL                string `json:"url"`
	SavedPath          string `json:"saved_path,omitempty"`
	ScreenshotPath     string `json:"screenshot_path,omitempty"`
	OriginalHTMLLength int    `json:"original_html_length,omitempty"`
}
