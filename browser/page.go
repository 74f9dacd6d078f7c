package browser

import (
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/serpent/fingerprint"
	"github.com/use-agent/serpent/models"
	"github.com/ysmood/gson"
)

// userAgent matches the canonical desktop Chrome profile presented by every
// generated fingerprint.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Viewport dimensions for the emulated desktop window.
const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// NewPage creates a page configured with the identity profile and, when
// present, the stored session cookies. Stealth and all emulation overrides
// are installed before any navigation so the very first request already
// looks like the persisted identity.
func (h *Handle) NewPage(profile fingerprint.Profile, st *State) (*rod.Page, error) {
	page, err := h.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewSearchError(models.ErrCodeLaunch, "failed to create page", err)
	}

	// ── Stealth injection (before navigation) ────────────────────────
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
	}

	if err := applyProfile(page, profile); err != nil {
		_ = page.Close()
		return nil, err
	}

	// The UA override's Accept-Language does not reach every request path
	// (workers, some subresource fetches), so install it as a header too.
	SetExtraHeaders(page, map[string]string{"Accept-Language": acceptLanguage(profile.Locale)})

	st.ApplyCookies(h.browser)
	return page, nil
}

// applyProfile installs the locale, timezone, appearance and desktop-mode
// overrides described by the identity profile.
func applyProfile(page *rod.Page, profile fingerprint.Profile) error {
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage(profile.Locale),
		Platform:       "Win32",
	}).Call(page); err != nil {
		return models.NewSearchError(models.ErrCodeLaunch, "failed to set user agent", err)
	}

	if err := (proto.EmulationSetTimezoneOverride{
		TimezoneID: profile.TimezoneID,
	}).Call(page); err != nil {
		// An unknown zone ID must not kill the run; the host zone leaks
		// through instead, which is still self-consistent.
		slog.Warn("timezone override failed", "timezone", profile.TimezoneID, "error", err)
	}

	if err := (proto.EmulationSetLocaleOverride{
		Locale: profile.Locale,
	}).Call(page); err != nil {
		slog.Warn("locale override failed", "locale", profile.Locale, "error", err)
	}

	if err := (proto.EmulationSetEmulatedMedia{
		Features: []*proto.EmulationMediaFeature{
			{Name: "prefers-color-scheme", Value: profile.ColorScheme},
			{Name: "prefers-reduced-motion", Value: profile.ReducedMotion},
			{Name: "forced-colors", Value: profile.ForcedColors},
		},
	}).Call(page); err != nil {
		slog.Warn("media feature override failed", "error", err)
	}

	// Fixed desktop overrides: no touch, no mobile emulation.
	if err := (proto.EmulationSetTouchEmulationEnabled{Enabled: false}).Call(page); err != nil {
		slog.Debug("touch emulation override failed", "error", err)
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}).Call(page); err != nil {
		slog.Debug("device metrics override failed", "error", err)
	}

	return nil
}

// SetExtraHeaders installs additional HTTP headers on the page.
func SetExtraHeaders(page *rod.Page, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{Headers: m}).Call(page); err != nil {
		slog.Debug("extra header install failed", "error", err)
	}
}

// acceptLanguage builds an Accept-Language value from a BCP 47 locale,
// e.g. "de-DE" -> "de-DE,de;q=0.9".
func acceptLanguage(locale string) string {
	if locale == "" {
		return "en-US,en;q=0.9"
	}
	lang := locale
	if i := strings.IndexByte(locale, '-'); i > 0 {
		lang = locale[:i]
	}
	if lang == locale {
		return locale
	}
	return locale + "," + lang + ";q=0.9"
}

// PageURL returns the page's current address, or "" when unavailable.
// Used by challenge checkpoints that poll the location.
func PageURL(page *rod.Page) string {
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}
