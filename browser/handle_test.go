package browser

import (
	"testing"

	"github.com/go-rod/rod"
)

func TestClose_UnownedDetachesWithoutBrowserClose(t *testing.T) {
	detached := false
	h := &Handle{
		// Never connected: any CDP call against it (such as the
		// Browser.close an owned shutdown sends) would panic, so this
		// test fails loudly if Close touches the client.
		browser: rod.New(),
		detach:  func() { detached = true },
		owned:   false,
	}

	h.Close()

	if !detached {
		t.Error("Close on an unowned handle must sever the connection")
	}
	if h.Owned() {
		t.Error("handle should report unowned")
	}
}

func TestClose_UnownedWithoutDetachIsNoOp(t *testing.T) {
	h := &Handle{browser: rod.New(), owned: false}
	h.Close()
}

func TestClose_NilSafe(t *testing.T) {
	var h *Handle
	h.Close()

	(&Handle{owned: true}).Close()
}

func TestHandle_Accessors(t *testing.T) {
	h := &Handle{owned: true, headless: true}
	if !h.Owned() || !h.Headless() {
		t.Errorf("Owned() = %v, Headless() = %v, want true, true", h.Owned(), h.Headless())
	}
	if (&Handle{}).Owned() {
		t.Error("zero handle must report unowned")
	}
}
