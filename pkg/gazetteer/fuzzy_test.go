package gazetteer

import (
	"fmt"
	"testing"
)

// preference: `exact match > smallest distance > highest rank`
func TestCorrector(t *testing.T) {
	c := newCorrector()
	for key, rank := range map[string]int{
		"london":        100,
		"lyon":          60,
		"paris":         95,
		"parma":         30,
		"amsterdam":     80,
		"munich":        70,
		"san francisco": 85,
		"salzburg":      20,
	} {
		c.add(key, rank)
	}

	testCases := []struct {
		input          string
		expectedOutput string
		corrected      bool
		description    string
	}{
		{"london", "london", false, "Exact match"},
		{"lodnon", "london", true, "Transposition"},
		{"londn", "london", true, "Missing character"},
		{"amsterdm", "amsterdam", true, "Missing character near end"},
		{"mnuich", "munich", true, "Swapped second and third"},
		{"parus", "paris", true, "Substitution"},
		{"pars", "paris", true, "Short input, higher rank wins"},
		{"san fransi", "san francis", true, "Correction keeps prefix length"},
		{"x", "x", false, "Too short"},
		{"qwerty", "qwerty", false, "No candidate shares the first letter"},
		{"lxxxxn", "lxxxxn", false, "Too far"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, corrected := c.Correct(tc.input)
			if got != tc.expectedOutput || corrected != tc.corrected {
				t.Errorf("Correct(%q) = (%q, %v), want (%q, %v)",
					tc.input, got, corrected, tc.expectedOutput, tc.corrected)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1, s2   string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "acb", 2},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"zürich", "zurich", 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s-%s", tc.s1, tc.s2), func(t *testing.T) {
			if got := levenshteinDistance([]rune(tc.s1), []rune(tc.s2)); got != tc.expected {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.s1, tc.s2, got, tc.expected)
			}
		})
	}
}
