package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

func TestDecodeState_RoundTrip(t *testing.T) {
	st := &State{
		Cookies: []*proto.NetworkCookie{
			{Name: "NID", Value: "abc", Domain: ".google.com", Path: "/"},
		},
		Origins: []OriginState{
			{Origin: "https://www.google.com", LocalStorage: map[string]string{"k": "v"}},
		},
	}

	blob, err := st.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := DecodeState(blob)
	if got == nil {
		t.Fatal("DecodeState returned nil for a valid blob")
	}
	if len(got.Cookies) != 1 || got.Cookies[0].Name != "NID" {
		t.Errorf("cookies not preserved: %+v", got.Cookies)
	}
	if len(got.Origins) != 1 || got.Origins[0].LocalStorage["k"] != "v" {
		t.Errorf("origins not preserved: %+v", got.Origins)
	}
}

func TestDecodeState_Corrupt(t *testing.T) {
	if st := DecodeState([]byte("{broken")); st != nil {
		t.Errorf("corrupt blob should decode to nil, got %+v", st)
	}
}

func TestDecodeState_Empty(t *testing.T) {
	if st := DecodeState(nil); st != nil {
		t.Errorf("empty blob should decode to nil, got %+v", st)
	}
}

func TestAcceptLanguage(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "en-US,en;q=0.9"},
		{"de-DE", "de-DE,de;q=0.9"},
		{"fr", "fr"},
		{"", "en-US,en;q=0.9"},
	}
	for _, tt := range tests {
		if got := acceptLanguage(tt.locale); got != tt.want {
			t.Errorf("acceptLanguage(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}
