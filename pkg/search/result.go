package search

import (
	"strings"
)

// Result is a palindrome found by the search, copied out of the live state.
type Result struct {
	Phrases []string // true names in reading order
	Words   []string // canonical words in reading order
	Letters int
	Step    int
}

// Len returns the number of phrases.
func (r Result) Len() int {
	return len(r.Phrases)
}

// WordCount returns the number of blank-separated words across all phrases.
func (r Result) WordCount() int {
	n := 0
	for _, p := range r.Phrases {
		n += len(strings.Fields(p))
	}
	return n
}

// String joins the phrases the way they are written to the log.
func (r Result) String() string {
	return strings.Join(r.Phrases, ", ")
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	c := r
	c.Phrases = append([]string(nil), r.Phrases...)
	c.Words = append([]string(nil), r.Words...)
	return c
}

// Summary describes a finished Run.
type Summary struct {
	Status  Status
	Steps   int
	Matches int
	Best    *Result
}
