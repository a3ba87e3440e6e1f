// Package canon holds the comparison form of phrases and the checks built on it:
// canonicalization, reversal, palindrome and Panama validity.
package canon

import (
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical returns the lowercase ASCII letters of text, in order.
// Accented letters are folded to their base letter first ("Café" -> "cafe"),
// everything else that is not a letter is dropped.
func Canonical(text string) string {
	folded, _, err := transform.String(foldMarks(), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c - 'A' + 'a')
		}
	}
	return b.String()
}

// foldMarks is built per call, transformers keep state between uses.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Reverse reverses a canonical (ASCII) string.
func Reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// IsPalindrome reports whether the canonical form of s reads the same both ways.
func IsPalindrome(s string) bool {
	c := Canonical(s)
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		if c[i] != c[j] {
			return false
		}
	}
	return true
}

// Phrases splits s on commas, trimming blanks and dropping empty phrases.
func Phrases(s string) []string {
	parts := strings.Split(s, ",")
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		phrases = append(phrases, p)
	}
	return phrases
}

// IsUnique reports whether no two phrases share a canonical form.
// Phrases without letters are ignored.
func IsUnique(phrases []string) bool {
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(phrases))
	for _, p := range phrases {
		c := Canonical(p)
		if c == "" {
			continue
		}
		if !seen.Add(c) {
			return false
		}
	}
	return true
}

// IsPanama reports whether s is a Panama-style palindrome: a palindrome with
// no repeated phrase whose letters end with the letters of terminal.
// An empty terminal accepts any ending.
func IsPanama(s, terminal string) bool {
	phrases := Phrases(s)
	if len(phrases) == 0 {
		return false
	}
	if !strings.HasSuffix(Canonical(s), Canonical(terminal)) {
		return false
	}
	return IsPalindrome(s) && IsUnique(phrases)
}

// SeedEndsWith reports whether a palindrome grown from the seed halves can
// end with the letters of terminal. The seed fixes its last letters through
// the right half and, read backwards, through the left half.
func SeedEndsWith(left, right []string, terminal string) bool {
	term := Canonical(terminal)
	end := Canonical(strings.Join(right, ","))
	if start := Reverse(Canonical(strings.Join(left, ","))); len(start) > len(end) {
		end = start
	}
	if len(end) >= len(term) {
		return strings.HasSuffix(end, term)
	}
	return strings.HasSuffix(term, end)
}

// SplitSeed splits a palindrome phrase into a left and a right phrase list at
// the letter midpoint. Phrases that end at or before the midpoint go left.
func SplitSeed(phrase string) (left, right []string) {
	phrases := Phrases(phrase)
	total := len(Canonical(phrase))

	count := 0
	for i, p := range phrases {
		count += len(Canonical(p))
		if 2*count > total {
			return phrases[:i], phrases[i:]
		}
		left = phrases[:i+1]
	}
	return left, nil
}
