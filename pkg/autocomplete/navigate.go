package autocomplete

import (
	"strconv"
	"strings"
)

// Key is a navigation key understood by the controller.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeyEnter:
		return "enter"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "other"
	}
}

// ParseKey maps a key name ("up", "esc" ...) or a DOM keyCode ("38") to a Key.
func ParseKey(s string) Key {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "escape", "esc":
		return KeyEscape
	case "enter", "return":
		return KeyEnter
	case "up", "arrowup":
		return KeyUp
	case "down", "arrowdown":
		return KeyDown
	}
	if code, err := strconv.Atoi(s); err == nil {
		return KeyFromCode(code)
	}
	return KeyOther
}

// KeyFromCode maps DOM keyCodes 27, 13, 38 and 40.
func KeyFromCode(code int) Key {
	switch code {
	case 27:
		return KeyEscape
	case 13:
		return KeyEnter
	case 38:
		return KeyUp
	case 40:
		return KeyDown
	default:
		return KeyOther
	}
}

// Action is what the controller must do after a key press.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionClose
	ActionConfirm
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionClose:
		return "close"
	case ActionConfirm:
		return "confirm"
	default:
		return "none"
	}
}

// Transition is the outcome of one key press.
// CaretToEnd and PreventDefault are instructions for the text field owner;
// Blur asks it to drop focus.
type Transition struct {
	Key            Key
	Action         Action
	Index          int
	PreventDefault bool
	CaretToEnd     bool
	Blur           bool
}

// Navigate computes the next selection for key given the current index
// (-1 when unset) and n results. Up and Down wrap around.
func Navigate(key Key, selected, n int) Transition {
	t := Transition{Key: key, Action: ActionNone, Index: selected}

	if key == KeyEscape {
		t.Action = ActionClose
		t.Blur = true
		return t
	}
	if n <= 0 {
		return t
	}
	if selected < 0 || selected >= n {
		selected = -1
	}

	switch key {
	case KeyEnter:
		if selected < 0 {
			return t
		}
		t.Action = ActionConfirm
		t.Blur = true
	case KeyUp:
		t.Action = ActionMove
		t.PreventDefault = true
		t.CaretToEnd = true
		if selected <= 0 {
			t.Index = n - 1
		} else {
			t.Index = selected - 1
		}
	case KeyDown:
		t.Action = ActionMove
		t.PreventDefault = true
		t.CaretToEnd = true
		if selected == n-1 {
			t.Index = 0
		} else {
			t.Index = selected + 1
		}
	}
	return t
}
