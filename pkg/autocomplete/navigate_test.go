package autocomplete

import (
	"slices"
	"testing"
)

func TestNavigateCycle(t *testing.T) {
	testCases := []struct {
		description string
		key         Key
		selected    int
		n           int
		expected    int
	}{
		{"down from none", KeyDown, -1, 3, 0},
		{"down middle", KeyDown, 0, 3, 1},
		{"down wraps", KeyDown, 2, 3, 0},
		{"up from first wraps", KeyUp, 0, 3, 2},
		{"up from none", KeyUp, -1, 3, 2},
		{"up middle", KeyUp, 2, 3, 1},
		{"single result down", KeyDown, 0, 1, 0},
		{"single result up", KeyUp, 0, 1, 0},
		{"stale index treated as none", KeyDown, 7, 3, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			tr := Navigate(tc.key, tc.selected, tc.n)
			if tr.Action != ActionMove || tr.Index != tc.expected {
				t.Fatalf("Navigate(%v, %d, %d) = %v@%d, want move@%d",
					tc.key, tc.selected, tc.n, tr.Action, tr.Index, tc.expected)
			}
			if !tr.PreventDefault || !tr.CaretToEnd || tr.Blur {
				t.Errorf("unexpected flags: %+v", tr)
			}
		})
	}
}

func TestNavigateEmptyList(t *testing.T) {
	for _, k := range []Key{KeyUp, KeyDown, KeyEnter, KeyOther} {
		tr := Navigate(k, -1, 0)
		if tr.Action != ActionNone || tr.Index != -1 || tr.PreventDefault {
			t.Errorf("Navigate(%s) on empty list = %+v", k, tr)
		}
	}
}

func TestNavigateEscapeAlwaysCloses(t *testing.T) {
	if a := Navigate(KeyEscape, -1, 0).Action; a != ActionClose {
		t.Fatalf("escape on empty list: got %v", a)
	}

	tr := Navigate(KeyEscape, 1, 3)
	if tr.Action != ActionClose || !tr.Blur || tr.Index != 1 {
		t.Fatalf("escape with results = %+v", tr)
	}
}

func TestNavigateEnter(t *testing.T) {
	tr := Navigate(KeyEnter, 1, 3)
	if tr.Action != ActionConfirm || tr.Index != 1 || !tr.Blur {
		t.Fatalf("enter = %+v", tr)
	}
	if a := Navigate(KeyEnter, -1, 3).Action; a != ActionNone {
		t.Fatalf("enter without highlight: got %v", a)
	}
}

func TestParseKey(t *testing.T) {
	testCases := []struct {
		name     string
		expected Key
	}{
		{"ArrowUp", KeyUp},
		{"down", KeyDown},
		{"13", KeyEnter},
		{"esc", KeyEscape},
		{"27", KeyEscape},
		{"a", KeyOther},
	}
	for _, tc := range testCases {
		if got := ParseKey(tc.name); got != tc.expected {
			t.Errorf("ParseKey(%q) = %v, want %v", tc.name, got, tc.expected)
		}
	}
	if got := KeyFromCode(65); got != KeyOther {
		t.Errorf("KeyFromCode(65) = %v, want %v", got, KeyOther)
	}
}

func TestNavigateDownFromUnsetVisitsAll(t *testing.T) {
	sel := -1
	var visited []int
	for range 4 {
		sel = Navigate(KeyDown, sel, 3).Index
		visited = append(visited, sel)
	}
	if want := []int{0, 1, 2, 0}; !slices.Equal(visited, want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	if got := Navigate(KeyUp, 0, 3).Index; got != 2 {
		t.Fatalf("up from first = %d, want 2", got)
	}
}
