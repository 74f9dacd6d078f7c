// Package challenge classifies page locations as human-verification
// interstitials. Detection is marker-based and purely lexical: the package
// never touches the network or the page.
package challenge

import "strings"

// markers are substrings that identify verification interstitials in a URL.
// The list covers the dedicated /sorry endpoints, CAPTCHA widgets and the
// "unusual traffic" notice page.
var markers = []string{
	"google.com/sorry",
	"/sorry/index",
	"recaptcha",
	"captcha",
	"unusual traffic",
}

// IsChallenge reports whether any of the given URLs points at a
// verification interstitial. Empty strings are ignored so callers can pass
// both the address-bar URL and the response URL without pre-filtering.
func IsChallenge(urls ...string) bool {
	for _, u := range urls {
		if u == "" {
			continue
		}
		lower := strings.ToLower(u)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
	}
	return false
}
