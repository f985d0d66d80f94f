package game

import "github.com/gdamore/tcell/v2"

// Delta is a one-step movement offset.
type Delta struct {
	DX, DY int
}

// Action is one tick's worth of player input. A nil Move means no move was
// requested.
type Action struct {
	Move *Delta
}

// MoveAction requests a step by (dx, dy).
func MoveAction(dx, dy int) Action {
	return Action{Move: &Delta{DX: dx, DY: dy}}
}

// KeyToAction maps a key event to an action. quit is true for Escape and q.
// Keys with no binding give the zero Action.
func KeyToAction(ev *tcell.EventKey) (a Action, quit bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return MoveAction(0, -1), false
	case tcell.KeyDown:
		return MoveAction(0, 1), false
	case tcell.KeyRight:
		return MoveAction(1, 0), false
	case tcell.KeyLeft:
		return MoveAction(-1, 0), false
	case tcell.KeyEscape:
		return Action{}, true
	}

	switch ev.Rune() {
	case 'k', 'K':
		return MoveAction(0, -1), false
	case 'j', 'J':
		return MoveAction(0, 1), false
	case 'l', 'L':
		return MoveAction(1, 0), false
	case 'h', 'H':
		return MoveAction(-1, 0), false
	case 'y', 'Y':
		return MoveAction(-1, -1), false
	case 'u', 'U':
		return MoveAction(1, -1), false
	case 'b', 'B':
		return MoveAction(-1, 1), false
	case 'n', 'N':
		return MoveAction(1, 1), false
	case 'q', 'Q':
		return Action{}, true
	}
	return Action{}, false
}
