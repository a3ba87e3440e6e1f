package utils

import (
	"strings"
	"unicode"
)

// IsSeparator checks if a rune separates words inside a phrase
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '\''
}

// ContainsLetters checks if a string has at least one letter
func ContainsLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string contains characters other than
// letters, digits, separators and the comma between phrases.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) && r != ',' {
			return true
		}
	}
	return false
}

// IsValidInput checks if a probe query or seed phrase is worth canonicalizing.
// It rejects empty input, bare numbers, and text without any letter.
func IsValidInput(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return false
	}
	if IsOnlyNumbers(s) {
		return false
	}
	return ContainsLetters(s)
}
