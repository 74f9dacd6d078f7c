package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/serpent/browser"
	"github.com/use-agent/serpent/challenge"
	"github.com/use-agent/serpent/fingerprint"
	"github.com/use-agent/serpent/models"
)

// maxAttempts bounds the navigation attempts per run: the automated try
// plus at most one assisted retry after escalation.
const maxAttempts = 2

// errEscalate signals that a challenge was hit in automated mode and the
// run should restart in assisted mode. Never escapes the pipeline.
var errEscalate = errors.New("escalate to assisted mode")

// pipeline carries the state of one run through its attempts.
type pipeline struct {
	s    *Searcher
	opts Options

	query   string
	ctrl    *modeController
	fpStore *fingerprint.Store
	profile fingerprint.Profile
	domain  string
	state   *browser.State

	handle   *browser.Handle
	runOwned bool // handle was created by this run (external handles are borrowed)
	page     *rod.Page
	respURL  string // address the last navigation settled on, before any JS rewrites

	finished bool
}

// pageResult exposes the final rendered page to the caller. Finish must be
// called exactly once; it persists state best-effort and releases the page
// and any run-owned browser.
type pageResult struct {
	HTML string
	URL  string

	p      *pipeline
	cancel context.CancelFunc
}

// Page returns the still-open results page, e.g. for screenshots.
func (r *pageResult) Page() *rod.Page {
	return r.p.page
}

// Finish persists state and tears the run down.
func (r *pageResult) Finish() {
	r.p.finish()
	r.cancel()
}

// execute runs the pipeline. On failure, persistence and teardown have
// already happened; on success the caller must call Finish on the result.
func (s *Searcher) execute(ctx context.Context, query string, opts Options) (*pageResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)

	p := &pipeline{
		s:       s,
		opts:    opts,
		query:   query,
		ctrl:    newModeController(),
		fpStore: fingerprint.NewStore(opts.StateFile),
	}
	p.resolveIdentity(ctx)
	p.resolveSession()

	html, finalURL, err := p.run(ctx)
	if err != nil {
		// Best-effort persistence survives the failure path too.
		p.finish()
		cancel()
		return nil, err
	}
	return &pageResult{HTML: html, URL: finalURL, p: p, cancel: cancel}, nil
}

// resolveIdentity loads the stored identity or generates a fresh one, and
// binds a regional domain the first time around.
func (p *pipeline) resolveIdentity(ctx context.Context) {
	profile, domain, ok := p.fpStore.Load()
	if ok {
		p.profile, p.domain = profile, domain
		slog.Debug("stored identity loaded",
			"locale", profile.Locale, "timezone", profile.TimezoneID, "domain", domain)
	} else {
		p.profile = fingerprint.Generate(p.opts.Locale, time.Now())
		slog.Info("identity generated",
			"locale", p.profile.Locale,
			"timezone", p.profile.TimezoneID,
			"colorScheme", p.profile.ColorScheme)
	}

	if p.domain == "" {
		p.domain = pickDomain()
		slog.Info("search domain bound", "domain", p.domain)
		if err := preflightDomain(ctx, p.domain, p.s.browserCfg.DefaultProxy); err != nil {
			slog.Warn("domain preflight failed, proceeding anyway", "domain", p.domain, "error", err)
		}
	}
}

// resolveSession loads the prior session blob, if any. Corruption degrades
// to a fresh session.
func (p *pipeline) resolveSession() {
	blob, ok := p.s.sessions.Load(p.opts.StateFile)
	if !ok {
		return
	}
	if p.state = browser.DecodeState(blob); p.state != nil {
		slog.Debug("stored session loaded", "cookies", len(p.state.Cookies))
	}
}

// run drives the attempt loop: one automated try, and after a challenge at
// most one assisted retry. The external browser, when present, is only
// ever used for the automated try and is never closed here.
func (p *pipeline) run(ctx context.Context) (string, string, error) {
	for attemptNo := 0; attemptNo < maxAttempts; attemptNo++ {
		html, finalURL, err := p.attempt(ctx)
		if err == nil {
			return html, finalURL, nil
		}
		if errors.Is(err, errEscalate) {
			p.teardown()
			p.ctrl.Escalate()
			slog.Info("escalating to assisted mode, restarting navigation", "query", p.query)
			continue
		}
		return "", "", err
	}
	return "", "", models.NewSearchError(models.ErrCodeChallenge, "challenge persisted after assisted retry", nil)
}

// attempt performs one full navigation-to-results cycle in the current
// mode. It returns errEscalate when a challenge (or a navigation timeout)
// in automated mode calls for the assisted restart.
func (p *pipeline) attempt(ctx context.Context) (string, string, error) {
	if err := p.acquireBrowser(); err != nil {
		return "", "", err
	}

	page, err := p.handle.NewPage(p.profile, p.state)
	if err != nil {
		return "", "", err
	}
	p.page = page

	// ── Navigate to the bound regional endpoint ──────────────────────
	startURL := "https://" + p.domain + "/"
	nav := page.Context(ctx).Timeout(p.s.searchCfg.NavigationTimeout)
	if err := nav.Navigate(startURL); err != nil {
		if p.ctrl.CanEscalate() {
			slog.Warn("navigation failed in automated mode, will retry assisted", "error", err)
			return "", "", errEscalate
		}
		return "", "", categorizeNav(err, "navigation to "+startURL+" failed")
	}
	if err := nav.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("page did not stabilise, proceeding with current DOM", "error", err)
	}
	p.respURL = browser.PageURL(page)

	// ── Checkpoint 1: did the landing page challenge us? ─────────────
	if err := p.checkpoint(ctx, "initial navigation"); err != nil {
		return "", "", err
	}

	// Origin storage can only be restored once we are on the origin.
	p.state.ApplyLocalStorage(page, "https://"+p.domain)

	// ── Submit the query ─────────────────────────────────────────────
	if err := p.submitQuery(ctx); err != nil {
		return "", "", err
	}

	// ── Checkpoint 2: did the submission trip a challenge? ───────────
	if err := p.checkpoint(ctx, "query submission"); err != nil {
		return "", "", err
	}

	// ── Await a result container (checkpoint 3 folded in) ────────────
	if err := p.waitResults(ctx); err != nil {
		return "", "", err
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", "", models.NewSearchError(models.ErrCodeInternal, "failed to read page HTML", err)
	}
	finalURL := browser.PageURL(page)
	if finalURL == "" {
		finalURL = startURL
	}
	return html, finalURL, nil
}

// acquireBrowser readies the handle for the current attempt. The first
// automated attempt borrows the external browser when one was supplied;
// every other case launches an owned browser whose visibility follows the
// mode (assisted runs headful so a human can act).
func (p *pipeline) acquireBrowser() error {
	if p.handle != nil {
		return nil
	}
	if p.s.external != nil && p.ctrl.Mode() == ModeAutomated {
		p.handle = p.s.external
		p.runOwned = false
	} else {
		headless := p.ctrl.Mode() == ModeAutomated
		h, err := browser.Launch(p.s.browserCfg, headless, p.s.searchCfg.LaunchTimeout())
		if err != nil {
			return err
		}
		p.handle = h
		p.runOwned = true
	}
	slog.Debug("browser acquired",
		"owned", p.handle.Owned(), "headless", p.handle.Headless(), "mode", p.ctrl.Mode().String())
	return nil
}

// checkpoint inspects the page location for challenge markers. In
// automated mode a hit requests the single escalation; in assisted mode it
// suspends until a human clears the interstitial.
func (p *pipeline) checkpoint(ctx context.Context, where string) error {
	// A challenge redirect can land and then rewrite the visible location,
	// so the settled navigation address is inspected alongside the current
	// one.
	u := browser.PageURL(p.page)
	if !challenge.IsChallenge(u, p.respURL) {
		return nil
	}
	slog.Warn("challenge detected",
		"checkpoint", where, "mode", p.ctrl.Mode().String(), "url", u, "responseURL", p.respURL)
	if p.ctrl.CanEscalate() {
		return errEscalate
	}
	return p.waitChallengeClear(ctx)
}

// waitChallengeClear polls the page location until it leaves all challenge
// markers, bounded by the configured wait. Only reachable in assisted mode.
func (p *pipeline) waitChallengeClear(ctx context.Context) error {
	slog.Info("waiting for challenge to be cleared in the visible browser",
		"timeout", p.s.searchCfg.ChallengeWaitTimeout)

	deadline := time.Now().Add(p.s.searchCfg.ChallengeWaitTimeout)
	for {
		if !challenge.IsChallenge(browser.PageURL(p.page)) {
			slog.Info("challenge cleared, resuming")
			// Let the post-challenge redirect settle before resuming,
			// and forget the challenge address so later checkpoints see
			// the cleared state.
			_ = p.page.Context(ctx).Timeout(p.s.searchCfg.NavigationTimeout).
				WaitDOMStable(300*time.Millisecond, 0.1)
			p.respURL = browser.PageURL(p.page)
			return nil
		}
		if time.Now().After(deadline) {
			return models.NewSearchError(models.ErrCodeChallenge, "challenge was not cleared within the wait window", nil)
		}
		if !sleepWithContext(ctx, 500*time.Millisecond) {
			return models.NewSearchError(models.ErrCodeChallenge, "run timed out while waiting on a challenge", ctx.Err())
		}
	}
}

// submitQuery locates the search box among the candidate selectors, types
// the query with light pacing, and submits it.
func (p *pipeline) submitQuery(ctx context.Context) error {
	var box *rod.Element
	for _, sel := range queryInputSelectors {
		el, err := p.page.Context(ctx).Timeout(p.s.searchCfg.SelectorTimeout).Element(sel)
		if err == nil && el != nil {
			slog.Debug("query input located", "selector", sel)
			box = el
			break
		}
	}
	if box == nil {
		return models.NewSearchError(models.ErrCodeInputNotFound, "no query input matched any candidate selector", nil)
	}

	if err := box.Click(proto.InputMouseButtonLeft, 1); err != nil {
		slog.Debug("query input click failed, typing anyway", "error", err)
	}
	sleepWithContext(ctx, 200*time.Millisecond)
	if err := box.Input(p.query); err != nil {
		return models.NewSearchError(models.ErrCodeInternal, "failed to type query", err)
	}
	sleepWithContext(ctx, 150*time.Millisecond)

	wait := p.page.Context(ctx).Timeout(p.s.searchCfg.NavigationTimeout).
		WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := p.page.Keyboard.Press(input.Enter); err != nil {
		return models.NewSearchError(models.ErrCodeInternal, "failed to submit query", err)
	}
	wait()
	p.respURL = browser.PageURL(p.page)
	return nil
}

// waitResults waits for any result-container selector to appear, trying
// each in order with a bounded wait. Misses are re-checked against the
// challenge detector; after a cleared challenge the selector list gets one
// more full pass.
func (p *pipeline) waitResults(ctx context.Context) error {
	for pass := 0; pass < 2; pass++ {
		challenged := false
		for _, sel := range resultContainerSelectors {
			el, err := p.page.Context(ctx).Timeout(p.s.searchCfg.SelectorTimeout).Element(sel)
			if err == nil && el != nil {
				slog.Debug("result container located", "selector", sel)
				return nil
			}
			if cerr := p.checkpoint(ctx, "awaiting results"); cerr != nil {
				return cerr
			}
			if challenge.IsChallenge(browser.PageURL(p.page)) {
				challenged = true
			}
		}
		if !challenged {
			break
		}
	}
	return models.NewSearchError(models.ErrCodeResultsNotFound, "no result container matched after challenge recovery", nil)
}

// finish persists state best-effort and tears the run down. Idempotent, so
// failure paths and the caller's deferred Finish cannot double-run it.
func (p *pipeline) finish() {
	if p.finished {
		return
	}
	p.finished = true
	p.persistState()
	p.teardown()
}

// persistState writes the session blob and identity back to durable
// storage. Failures are logged and swallowed: persistence never decides
// the outcome of a run.
func (p *pipeline) persistState() {
	if p.opts.NoSaveState {
		slog.Debug("state persistence disabled for this run")
		return
	}

	if p.handle != nil {
		st := browser.CaptureState(p.handle.Browser(), p.page)
		if blob, err := st.Encode(); err == nil {
			if err := p.s.sessions.Save(p.opts.StateFile, blob); err != nil {
				slog.Warn("session persistence failed",
					"code", models.ErrCodeStatePersistence, "path", p.opts.StateFile, "error", err)
			}
		}
	}

	if p.profile.DeviceName != "" {
		if err := p.fpStore.Save(p.profile, p.domain); err != nil {
			slog.Warn("identity persistence failed",
				"code", models.ErrCodeStatePersistence, "path", p.fpStore.Path(), "error", err)
		}
	}
}

// teardown releases the page and, for run-owned browsers, the browser.
// Borrowed external handles are abandoned, never closed.
func (p *pipeline) teardown() {
	if p.page != nil {
		_ = p.page.Close()
		p.page = nil
	}
	if p.handle != nil {
		if p.runOwned {
			p.handle.Close()
		} else {
			slog.Debug("abandoning external browser handle")
		}
		p.handle = nil
		p.runOwned = false
	}
}

// categorizeNav wraps raw navigation errors into typed SearchErrors.
func categorizeNav(err error, msg string) *models.SearchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewSearchError(models.ErrCodeNavTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewSearchError(models.ErrCodeNavTimeout, "run canceled during navigation", err)
	default:
		return models.NewSearchError(models.ErrCodeNavTimeout, msg, err)
	}
}

// sleepWithContext sleeps for d or until the context ends. Reports whether
// the full duration elapsed.
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
