package browser

import (
	"encoding/json"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// State is the serializable browser session: cookies plus per-origin local
// storage. Outside this package it travels as an opaque JSON blob.
type State struct {
	Cookies []*proto.NetworkCookie `json:"cookies"`
	Origins []OriginState          `json:"origins"`
}

// OriginState holds the localStorage entries of one origin.
type OriginState struct {
	Origin       string            `json:"origin"`
	LocalStorage map[string]string `json:"localStorage"`
}

// DecodeState parses a session blob. A corrupt blob yields nil: the session
// is degraded to a fresh one rather than failing the run.
func DecodeState(blob []byte) *State {
	if len(blob) == 0 {
		return nil
	}
	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		slog.Warn("session blob corrupt, starting fresh", "error", err)
		return nil
	}
	return &st
}

// Encode serializes the state to the blob form handed to the session store.
func (st *State) Encode() ([]byte, error) {
	return json.Marshal(st)
}

// CaptureState reads the browser's cookies and the current page's
// localStorage into a State. Best-effort: partial captures are returned
// rather than discarded.
func CaptureState(b *rod.Browser, page *rod.Page) *State {
	st := &State{}

	cookies, err := b.GetCookies()
	if err != nil {
		slog.Warn("cookie capture failed", "error", err)
	} else {
		st.Cookies = cookies
	}

	if page == nil {
		return st
	}
	res, err := page.Eval(`() => {
		const items = {};
		for (let i = 0; i < localStorage.length; i++) {
			const k = localStorage.key(i);
			items[k] = localStorage.getItem(k);
		}
		return JSON.stringify({ origin: location.origin, items });
	}`)
	if err != nil {
		slog.Debug("localStorage capture failed", "error", err)
		return st
	}

	var snap struct {
		Origin string            `json:"origin"`
		Items  map[string]string `json:"items"`
	}
	if err := json.Unmarshal([]byte(res.Value.Str()), &snap); err == nil && len(snap.Items) > 0 {
		st.Origins = append(st.Origins, OriginState{Origin: snap.Origin, LocalStorage: snap.Items})
	}
	return st
}

// ApplyCookies installs the stored cookies into the browser. Must run
// before navigation so the first request already carries them.
func (st *State) ApplyCookies(b *rod.Browser) {
	if st == nil || len(st.Cookies) == 0 {
		return
	}
	params := make([]*proto.NetworkCookieParam, 0, len(st.Cookies))
	for _, c := range st.Cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
			Expires:  c.Expires,
		})
	}
	if err := b.SetCookies(params); err != nil {
		slog.Warn("cookie restore failed", "error", err)
	}
}

// ApplyLocalStorage writes the stored entries for the page's current origin.
// Must run after navigation, once the page is on the target origin.
func (st *State) ApplyLocalStorage(page *rod.Page, origin string) {
	if st == nil || page == nil {
		return
	}
	for _, o := range st.Origins {
		if o.Origin != origin || len(o.LocalStorage) == 0 {
			continue
		}
		if _, err := page.Eval(`(items) => {
			for (const [k, v] of Object.entries(items)) {
				localStorage.setItem(k, v);
			}
		}`, o.LocalStorage); err != nil {
			slog.Debug("localStorage restore failed", "origin", origin, "error", err)
		}
	}
}
