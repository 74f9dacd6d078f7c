package search

// Mode is the execution mode of one search run.
type Mode int

const (
	// ModeAutomated runs headless with no human-observable surface.
	ModeAutomated Mode = iota

	// ModeAssisted runs with a visible browser window so a person can
	// clear a verification interstitial.
	ModeAssisted
)

func (m Mode) String() string {
	if m == ModeAssisted {
		return "assisted"
	}
	return "automated"
}

// modeController is the escalation state machine. A run starts automated
// and may transition to assisted exactly once; there is no way back within
// the run, so retries are bounded structurally rather than by convention.
type modeController struct {
	mode      Mode
	escalated bool
}

func newModeController() *modeController {
	return &modeController{mode: ModeAutomated}
}

// Mode returns the current execution mode.
func (c *modeController) Mode() Mode {
	return c.mode
}

// CanEscalate reports whether a challenge may still trigger the
// automated-to-assisted transition.
func (c *modeController) CanEscalate() bool {
	return c.mode == ModeAutomated && !c.escalated
}

// Escalate performs the single automated-to-assisted transition.
// Calling it when CanEscalate is false is a no-op.
func (c *modeController) Escalate() {
	if !c.CanEscalate() {
		return
	}
	c.mode = ModeAssisted
	c.escalated = true
}
