// Package browser owns the Rod browser lifecycle and the per-run page setup
// (identity emulation, stealth, session restore). A Handle either launches
// and owns a browser process or attaches to an externally managed one; an
// external browser is never closed here, since other callers may share it.
package browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/serpent/config"
	"github.com/use-agent/serpent/models"
)

// Handle wraps a connected browser and records whether this process owns it.
type Handle struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	detach   context.CancelFunc // severs an external connection without CDP Browser.close
	owned    bool
	headless bool
}

// Launch starts a new owned browser. headless=false produces the
// human-observable surface used by assisted mode.
func Launch(cfg config.BrowserConfig, headless bool, launchTimeout time.Duration) (*Handle, error) {
	l := launcher.New().
		Headless(headless).
		NoSandbox(cfg.NoSandbox).
		Leakless(true)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.DefaultProxy != "" {
		l = l.Proxy(cfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewSearchError(models.ErrCodeLaunch, "failed to launch browser", err)
	}

	b := rod.New().ControlURL(controlURL).Timeout(launchTimeout)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, models.NewSearchError(models.ErrCodeLaunch, "failed to connect to browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL, "headless", headless)

	// The launch timeout only guards startup; steady-state operations carry
	// their own per-call deadlines.
	return &Handle{browser: b.CancelTimeout(), launcher: l, owned: true, headless: headless}, nil
}

// Connect attaches to an externally managed browser over its control URL.
// The returned handle is not owned: Close never terminates the process.
func Connect(controlURL string) (*Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		cancel()
		return nil, models.NewSearchError(models.ErrCodeLaunch, "failed to connect to external browser", err)
	}
	slog.Info("attached to external browser", "controlURL", controlURL)
	return &Handle{browser: b, detach: cancel, owned: false}, nil
}

// Browser exposes the underlying rod browser.
func (h *Handle) Browser() *rod.Browser {
	return h.browser
}

// Owned reports whether this process launched the browser.
func (h *Handle) Owned() bool {
	return h.owned
}

// Headless reports whether the browser runs without a visible surface.
func (h *Handle) Headless() bool {
	return h.headless
}

// Close terminates an owned browser. For an external browser it only drops
// the control connection; the process keeps running for its other users.
// rod's Browser.Close sends CDP Browser.close when no browser context is
// set, which would kill the shared process, so the unowned path must never
// touch the browser client.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	if !h.owned {
		slog.Debug("detaching from external browser")
		if h.detach != nil {
			h.detach()
		}
		return
	}
	slog.Info("closing owned browser")
	if h.browser != nil {
		_ = h.browser.Close()
	}
	if h.launcher != nil {
		h.launcher.Kill()
	}
}
