// Package fingerprint manages the device-and-locale identity profile a
// browser session presents to the target site. A profile is generated once
// from host signals and then reused verbatim across runs: an identity that
// drifts between requests is itself a detection signal.
package fingerprint

import (
	"os"
	"runtime"
	"strings"
	"time"
)

// Color scheme, reduced motion and forced colors values as understood by
// the emulation layer (CSS media feature values).
const (
	SchemeDark  = "dark"
	SchemeLight = "light"

	MotionReduce       = "reduce"
	MotionNoPreference = "no-preference"

	ForcedColorsActive = "active"
	ForcedColorsNone   = "none"
)

// DeviceDesktopChrome is the single canonical device profile presented
// regardless of the host platform. Mixing per-platform profiles with a
// shared session file would make stored identities platform-dependent.
const DeviceDesktopChrome = "Desktop Chrome"

// Profile is the persisted browser identity.
type Profile struct {
	DeviceName    string `json:"deviceName"`
	Locale        string `json:"locale"`
	TimezoneID    string `json:"timezoneId"`
	ColorScheme   string `json:"colorScheme"`
	ReducedMotion string `json:"reducedMotion"`
	ForcedColors  string `json:"forcedColors"`
}

// offsetRange maps a half-open range of UTC offsets (in hours, inclusive
// min, exclusive max) to a representative IANA timezone. Ranges are ordered
// and mutually exclusive by construction; the first match wins.
type offsetRange struct {
	min, max float64
	tz       string
}

var offsetTable = []offsetRange{
	{-10, -9, "Pacific/Honolulu"},
	{-9, -7.5, "America/Anchorage"},
	{-7.5, -6.5, "America/Los_Angeles"},
	{-6.5, -5.5, "America/Denver"},
	{-5.5, -4.5, "America/Chicago"},
	{-4.5, -3.5, "America/New_York"},
	{-3.5, -2.5, "America/Sao_Paulo"},
	{-0.5, 0.5, "Europe/London"},
	{0.5, 1.5, "Europe/Paris"},
	{1.5, 2.5, "Europe/Berlin"},
	{2.5, 3.5, "Europe/Moscow"},
	{3.5, 6.5, "Asia/Karachi"},
	{6.5, 7.5, "Asia/Bangkok"},
	{7.5, 8.5, "Asia/Shanghai"},
	{8.5, 9.5, "Asia/Tokyo"},
	{9.5, 11, "Australia/Sydney"},
	{11, 13, "Pacific/Auckland"},
}

const fallbackTimezone = "America/New_York"

// Generate derives a plausible identity profile from host signals.
// localeHint, when non-empty, wins over the system locale. now supplies the
// wall clock so callers (and tests) control the time-derived attributes.
func Generate(localeHint string, now time.Time) Profile {
	locale := localeHint
	if locale == "" {
		locale = systemLocale()
	}

	_, offsetSec := now.Zone()
	tz := timezoneForOffset(float64(offsetSec) / 3600)

	scheme := SchemeLight
	if h := now.Hour(); h >= 19 || h < 7 {
		scheme = SchemeDark
	}

	// Platform-specific profiles exist but the desktop Chrome profile is
	// deliberately presented on every host; see DeviceDesktopChrome.
	device := deviceForPlatform(runtime.GOOS)
	device = DeviceDesktopChrome

	return Profile{
		DeviceName:    device,
		Locale:        locale,
		TimezoneID:    tz,
		ColorScheme:   scheme,
		ReducedMotion: MotionNoPreference,
		ForcedColors:  ForcedColorsNone,
	}
}

// timezoneForOffset resolves a UTC offset in hours to a timezone through the
// fixed ordered table, falling back to a US eastern default.
func timezoneForOffset(hours float64) string {
	for _, r := range offsetTable {
		if hours >= r.min && hours < r.max {
			return r.tz
		}
	}
	return fallbackTimezone
}

// deviceForPlatform returns the natural device profile for a GOOS value.
// The result is computed for completeness but overridden in Generate.
func deviceForPlatform(goos string) string {
	switch goos {
	case "darwin":
		return "Desktop Chrome macOS"
	case "windows":
		return "Desktop Chrome Windows"
	default:
		return "Desktop Chrome Linux"
	}
}

// systemLocale inspects POSIX locale variables, normalising forms such as
// "en_US.UTF-8" to "en-US". Returns "en-US" when nothing usable is set.
func systemLocale() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(key)
		if v == "" || strings.HasPrefix(v, "C") || strings.HasPrefix(v, "POSIX") {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		v = strings.ReplaceAll(v, "_", "-")
		if v != "" {
			return v
		}
	}
	return "en-US"
}
