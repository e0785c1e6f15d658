package core

import "testing"

func TestActionRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		parsed, ok := ParseAction(a.String())
		if !ok || parsed != a {
			t.Errorf("ParseAction(%q) = %v, %v; want %v", a.String(), parsed, ok, a)
		}
	}
	if _, ok := ParseAction("Jump"); ok {
		t.Error("ParseAction should reject unknown names")
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("String() of out-of-range action = %q", Action(99).String())
	}
}

func TestActionIsGameplay(t *testing.T) {
	if ActionNone.IsGameplay() {
		t.Error("ActionNone is not a gameplay action")
	}
	if ActionQuit.IsGameplay() {
		t.Error("ActionQuit is handled by the host")
	}
	for _, a := range []Action{ActionRotateCW, ActionRotateCCW, ActionLeft, ActionRight, ActionSoftDrop, ActionHardDrop, ActionPause} {
		if !a.IsGameplay() {
			t.Errorf("%s should be a gameplay action", a)
		}
	}
}
