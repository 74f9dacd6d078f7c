package fingerprint

import (
	"testing"
	"time"
)

func at(hour int, offsetHours float64) time.Time {
	zone := time.FixedZone("test", int(offsetHours*3600))
	return time.Date(2025, 6, 15, hour, 30, 0, 0, zone)
}

func TestGenerate_NightHoursAreDark(t *testing.T) {
	for _, hour := range []int{19, 21, 23, 0, 2, 6} {
		p := Generate("", at(hour, 0))
		if p.ColorScheme != SchemeDark {
			t.Errorf("hour %d: got %q, want %q", hour, p.ColorScheme, SchemeDark)
		}
	}
}

func TestGenerate_DayHoursAreLight(t *testing.T) {
	for _, hour := range []int{7, 9, 12, 14, 18} {
		p := Generate("", at(hour, 0))
		if p.ColorScheme != SchemeLight {
			t.Errorf("hour %d: got %q, want %q", hour, p.ColorScheme, SchemeLight)
		}
	}
}

func TestGenerate_LocaleHintWins(t *testing.T) {
	t.Setenv("LANG", "de_DE.UTF-8")
	p := Generate("fr-FR", at(12, 1))
	if p.Locale != "fr-FR" {
		t.Errorf("locale = %q, want fr-FR", p.Locale)
	}
}

func TestGenerate_SystemLocaleFallback(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "ja_JP.UTF-8")
	p := Generate("", at(12, 9))
	if p.Locale != "ja-JP" {
		t.Errorf("locale = %q, want ja-JP", p.Locale)
	}
}

func TestGenerate_DeviceIsAlwaysDesktopChrome(t *testing.T) {
	p := Generate("", at(12, -5))
	if p.DeviceName != DeviceDesktopChrome {
		t.Errorf("device = %q, want %q", p.DeviceName, DeviceDesktopChrome)
	}
}

func TestGenerate_LeastRestrictivePreferences(t *testing.T) {
	p := Generate("", at(12, 0))
	if p.ReducedMotion != MotionNoPreference {
		t.Errorf("reducedMotion = %q, want %q", p.ReducedMotion, MotionNoPreference)
	}
	if p.ForcedColors != ForcedColorsNone {
		t.Errorf("forcedColors = %q, want %q", p.ForcedColors, ForcedColorsNone)
	}
}

func TestTimezoneForOffset(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{"utc", 0, "Europe/London"},
		{"cet", 1, "Europe/Paris"},
		{"china", 8, "Asia/Shanghai"},
		{"japan", 9, "Asia/Tokyo"},
		{"us eastern", -5, "America/New_York"},
		{"us pacific", -8, "America/Los_Angeles"},
		{"india", 5.5, "Asia/Karachi"},
		{"out of table", -11, fallbackTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timezoneForOffset(tt.hours); got != tt.want {
				t.Errorf("timezoneForOffset(%v) = %q, want %q", tt.hours, got, tt.want)
			}
		})
	}
}

func TestOffsetTable_MutuallyExclusive(t *testing.T) {
	for i := 1; i < len(offsetTable); i++ {
		if offsetTable[i].min < offsetTable[i-1].max {
			t.Errorf("range %d (%v) overlaps range %d (%v)", i, offsetTable[i], i-1, offsetTable[i-1])
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	now := at(14, 8)
	a := Generate("en-US", now)
	b := Generate("en-US", now)
	if a != b {
		t.Errorf("same inputs produced different profiles: %+v vs %+v", a, b)
	}
}
