package utils

import (
	"unicode"
)

// IsSeparator checks if a rune is a separator character
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// ContainsLetters checks if a string contains at least one letter
func ContainsLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsValidQuery checks if a normalized query is worth a local lookup.
// House numbers alone ("221") and repeated keys ("aaaa") are rejected;
// "221b baker street" is fine.
func IsValidQuery(s string) bool {
	if len(s) == 0 {
		return false
	}
	if !ContainsLetters(s) {
		return false
	}
	return !IsRepetitive(s)
}

// IsRepetitive checks if a string consists of the same character repeated 3+ times
func IsRepetitive(s string) bool {
	r := []rune(s)
	if len(r) <= 2 {
		return false
	}
	for i := 1; i < len(r); i++ {
		if r[i] != r[0] {
			return false
		}
	}
	return true
}
