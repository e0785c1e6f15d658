package core

// Action represents a logical game action, abstracted from physical key presses.
// The host translates raw key events into at most one Action per tick.
type Action int

const (
	ActionNone      Action = iota
	ActionRotateCW         // Up - rotate clockwise
	ActionRotateCCW        // Z - rotate counter-clockwise
	ActionLeft             // Left arrow - shift one cell left
	ActionRight            // Right arrow - shift one cell right
	ActionSoftDrop         // Down arrow - fast descent
	ActionHardDrop         // Space - drop to rest
	ActionPause            // P - pause/unpause
	ActionQuit             // Q, Esc, Ctrl+C - handled by the host, never by the engine
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionRotateCW:  "RotateCW",
	ActionRotateCCW: "RotateCCW",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionSoftDrop:  "SoftDrop",
	ActionHardDrop:  "HardDrop",
	ActionPause:     "Pause",
	ActionQuit:      "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// ParseAction is the inverse of String. Unknown names yield ActionNone and false.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}

// IsGameplay reports whether the engine understands the action.
// Anything else is treated as ActionNone.
func (a Action) IsGameplay() bool {
	return a >= ActionRotateCW && a <= ActionPause
}
