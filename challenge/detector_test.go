package challenge

import "testing"

func TestIsChallenge(t *testing.T) {
	tests := []struct {
		name string
		urls []string
		want bool
	}{
		{"sorry page", []string{"https://www.google.com/sorry/index?continue=x"}, true},
		{"sorry path only", []string{"https://ipv4.google.com/sorry/index"}, true},
		{"recaptcha", []string{"https://www.google.com/recaptcha/api2/anchor"}, true},
		{"captcha uppercase", []string{"https://example.com/CAPTCHA/verify"}, true},
		{"plain results page", []string{"https://www.google.com/search?q=golang"}, false},
		{"homepage", []string{"https://www.google.de/"}, false},
		{"second url matches", []string{"https://www.google.com/search?q=x", "https://www.google.com/sorry/index"}, true},
		{"empty inputs", []string{"", ""}, false},
		{"no inputs", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsChallenge(tt.urls...); got != tt.want {
				t.Errorf("IsChallenge(%v) = %v, want %v", tt.urls, got, tt.want)
			}
		})
	}
}
