package search

// queryInputSelectors are the candidate selectors for the search box,
// tried in order; the first one present on the page wins. Google has been
// migrating the box between input and textarea elements, so both appear.
var queryInputSelectors = []string{
	`textarea[name="q"]`,
	`input[name="q"]`,
	`textarea[title="Search"]`,
	`input[title="Search"]`,
	`textarea[aria-label="Search"]`,
	`input[aria-label="Search"]`,
}

// resultContainerSelectors mark a loaded results page, tried in order with
// a bounded wait each. The legacy ids come last.
var resultContainerSelectors = []string{
	"#search",
	"#rso",
	"div.g",
	"#main",
}
