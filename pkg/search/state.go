package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bastiangx/panama/pkg/canon"
	mapset "github.com/deckarep/golang-set/v2"
)

// ErrInvalidSeed is returned when the seed phrases are not a consistent partial palindrome.
var ErrInvalidSeed = errors.New("invalid seed")

// Side names the half of the palindrome a word is placed on.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// State is a palindrome under construction. Left words are kept in reading
// order, right words innermost-last, so both sides grow by appending.
// diff is letters(left) - letters(right).
type State struct {
	left  []string
	right []string
	used  mapset.Set[string]
	diff  int
}

// NewState builds a state from canonical seed words. right is given in
// reading order. The seed must not repeat a word and its letters must mirror
// each other as far as the shorter side reaches.
func NewState(left, right []string) (*State, error) {
	s := &State{
		left:  make([]string, 0, len(left)+16),
		right: make([]string, 0, len(right)+16),
		used:  mapset.NewThreadUnsafeSet[string](),
	}

	for _, w := range left {
		if w == "" {
			continue
		}
		if s.used.Contains(w) {
			return nil, fmt.Errorf("%w: %q appears twice", ErrInvalidSeed, w)
		}
		s.Push(Left, w)
	}
	for i := len(right) - 1; i >= 0; i-- {
		w := right[i]
		if w == "" {
			continue
		}
		if s.used.Contains(w) {
			return nil, fmt.Errorf("%w: %q appears twice", ErrInvalidSeed, w)
		}
		s.Push(Right, w)
	}

	if !s.consistent() {
		return nil, fmt.Errorf("%w: %q and %q do not mirror each other",
			ErrInvalidSeed, strings.Join(s.left, ""), strings.Join(s.Right(), ""))
	}
	return s, nil
}

// consistent checks that the matched portion reads the same both ways.
func (s *State) consistent() bool {
	l := strings.Join(s.left, "")
	r := strings.Join(s.Right(), "")
	n := min(len(l), len(r))
	for i := 0; i < n; i++ {
		if l[i] != r[len(r)-1-i] {
			return false
		}
	}
	return true
}

// Push places word on side. The caller is responsible for checking Used.
func (s *State) Push(side Side, word string) {
	if side == Left {
		s.left = append(s.left, word)
		s.diff += len(word)
	} else {
		s.right = append(s.right, word)
		s.diff -= len(word)
	}
	s.used.Add(word)
}

// Pop removes word from side. It reports false, leaving the state untouched,
// when word is not the last word placed on that side.
func (s *State) Pop(side Side, word string) bool {
	words := &s.left
	sign := 1
	if side == Right {
		words = &s.right
		sign = -1
	}

	n := len(*words)
	if n == 0 || (*words)[n-1] != word {
		return false
	}
	*words = (*words)[:n-1]
	s.diff -= sign * len(word)
	s.used.Remove(word)
	return true
}

// Used reports whether word is already placed.
func (s *State) Used(word string) bool {
	return s.used.Contains(word)
}

// Diff returns letters(left) - letters(right).
func (s *State) Diff() int {
	return s.diff
}

// Len returns the number of placed words.
func (s *State) Len() int {
	return len(s.left) + len(s.right)
}

// Letters returns the number of placed letters.
func (s *State) Letters() int {
	n := 0
	for _, w := range s.left {
		n += len(w)
	}
	for _, w := range s.right {
		n += len(w)
	}
	return n
}

// Left returns a copy of the left words in reading order.
func (s *State) Left() []string {
	out := make([]string, len(s.left))
	copy(out, s.left)
	return out
}

// Right returns a copy of the right words in reading order.
func (s *State) Right() []string {
	out := make([]string, len(s.right))
	for i, w := range s.right {
		out[len(s.right)-1-i] = w
	}
	return out
}

// Words returns all placed words in reading order.
func (s *State) Words() []string {
	return append(s.Left(), s.Right()...)
}

// Remainder returns the side that owes letters and the fragment its next word
// must match: a prefix for Left, a suffix for Right. Balanced sides owe a
// fresh word on the left and the fragment is empty.
func (s *State) Remainder() (Side, string) {
	switch {
	case s.diff > 0:
		return Right, canon.Reverse(tail(s.left, s.diff))
	case s.diff < 0:
		return Left, canon.Reverse(innerHead(s.right, -s.diff))
	default:
		return Left, ""
	}
}

// tail returns the last n letters of the words read in order.
func tail(words []string, n int) string {
	buf := make([]byte, n)
	pos := n
	for i := len(words) - 1; i >= 0 && pos > 0; i-- {
		w := words[i]
		take := min(len(w), pos)
		copy(buf[pos-take:pos], w[len(w)-take:])
		pos -= take
	}
	return string(buf[pos:])
}

// innerHead returns the first n letters of the right side's reading text,
// given its words innermost-last.
func innerHead(words []string, n int) string {
	buf := make([]byte, 0, n)
	for i := len(words) - 1; i >= 0 && len(buf) < n; i-- {
		w := words[i]
		take := min(len(w), n-len(buf))
		buf = append(buf, w[:take]...)
	}
	return string(buf)
}

// Snapshot is a value copy of a State, comparable with reflect.DeepEqual.
type Snapshot struct {
	Left  []string
	Right []string
	Used  []string
	Diff  int
}

// Snapshot copies the state out.
func (s *State) Snapshot() Snapshot {
	used := s.used.ToSlice()
	sort.Strings(used)
	return Snapshot{
		Left:  s.Left(),
		Right: s.Right(),
		Used:  used,
		Diff:  s.diff,
	}
}
