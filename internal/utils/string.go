package utils

import (
	"strings"
	"unicode"
)

// NormalizeQuery lowercases s, folds separators into single spaces and trims it.
// Place names and user queries go through the same function so trie keys line up.
func NormalizeQuery(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if IsSeparator(r) || unicode.IsSpace(r) || r == ',' {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokens splits a normalized string into words.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// WordSuffixes returns every tail of the token list that starts at a word boundary
// after the first, so "rio de janeiro" yields "de janeiro" and "janeiro".
func WordSuffixes(normalized string) []string {
	tokens := Tokens(normalized)
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 1; i < len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:], " "))
	}
	return out
}

// RuneLen counts runes rather than bytes.
func RuneLen(s string) int {
	return len([]rune(s))
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
