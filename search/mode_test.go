package search

import "testing"

func TestModeController_StartsAutomated(t *testing.T) {
	c := newModeController()
	if c.Mode() != ModeAutomated {
		t.Errorf("initial mode = %v, want automated", c.Mode())
	}
	if !c.CanEscalate() {
		t.Error("fresh controller should allow escalation")
	}
}

func TestModeController_EscalatesExactlyOnce(t *testing.T) {
	c := newModeController()
	c.Escalate()
	if c.Mode() != ModeAssisted {
		t.Fatalf("mode after escalation = %v, want assisted", c.Mode())
	}
	if c.CanEscalate() {
		t.Error("escalation must not be available twice")
	}

	// A second call must not change anything.
	c.Escalate()
	if c.Mode() != ModeAssisted {
		t.Errorf("mode changed on repeat escalation: %v", c.Mode())
	}
}

func TestModeController_NoReturnToAutomated(t *testing.T) {
	c := newModeController()
	c.Escalate()
	// The controller has no transition back; the only mutation is
	// Escalate, which is a no-op now.
	c.Escalate()
	c.Escalate()
	if c.Mode() != ModeAssisted {
		t.Errorf("mode = %v, want assisted for the rest of the run", c.Mode())
	}
}

func TestModeString(t *testing.T) {
	if ModeAutomated.String() != "automated" || ModeAssisted.String() != "assisted" {
		t.Errorf("unexpected mode strings: %q, %q", ModeAutomated, ModeAssisted)
	}
}
