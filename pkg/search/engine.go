/*
Package search grows Panama-style palindromes from both ends inward.

The engine keeps a State (the words placed so far on each side) and an
explicit stack of frames. Each frame remembers the side that owed letters, the
fragment a word there had to match, the candidate words fetched from the
dictionary, and the word it currently has placed. A step either places the
next candidate and pushes a child frame, or, when a frame runs out of
candidates, pops it and takes back the word its parent placed.

	eng, err := search.NewEngine(dict, []string{"A man", "a plan"}, []string{"a canal", "Panama"}, search.Options{
		SampleLimit: 100,
		Reporter:    reporter,
	})
	summary := eng.Run(1_000_000)

Whenever the unmatched fragment between the two sides is itself a palindrome
the whole state reads the same both ways; the engine hands a copy of it to the
Reporter if it is the longest seen so far.
*/
package search

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/bastiangx/panama/internal/logger"
	"github.com/bastiangx/panama/pkg/canon"
	"github.com/charmbracelet/log"
)

// Status is the outcome of a single engine step.
type Status int

const (
	// Extending means a word was placed and a deeper frame pushed.
	Extending Status = iota
	// Matched means the current state is a palindrome; it was reported.
	Matched
	// Exhausted means a frame ran out of candidates and was popped.
	Exhausted
	// Done means the stack is empty.
	Done
)

func (s Status) String() string {
	switch s {
	case Extending:
		return "extending"
	case Matched:
		return "matched"
	case Exhausted:
		return "exhausted"
	case Done:
		return "done"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Dictionary is what the engine needs from a phrase dictionary.
type Dictionary interface {
	TrueName(word string) (string, bool)
	StartsWith(prefix string, limit int) []string
	EndsWith(suffix string, limit int) []string
	CountPrefix(prefix string, max int) int
	CountSuffix(suffix string, max int) int
}

// Dictionaries may also offer these.
type (
	// partialDictionary lists the short words a fragment itself starts or
	// ends with, when the dictionary is trying harder.
	partialDictionary interface {
		PrefixPartials(prefix string) []string
		SuffixPartials(suffix string) []string
	}
	tryHarderSwitch interface {
		SetTryHarder(enabled bool)
	}
	// reversibleDictionary lists words whose reversal is another word.
	reversibleDictionary interface {
		Reversibles() []string
	}
)

// Reporter receives every palindrome that beats the engine's best so far.
// A result it returns false and an error for does not count as the best.
type Reporter interface {
	Report(Result) (bool, error)
}

const (
	DefaultSampleLimit = 100
	DefaultScoreCap    = 64
	progressEvery      = 100_000
)

// Options tune the engine.
type Options struct {
	// SampleLimit caps the candidates fetched per frame.
	SampleLimit int
	// ScoreCap caps the continuation count used to rank candidates.
	ScoreCap int
	// Reversibles places every unused reversible word pair (camus and
	// sumac) the first time the sides balance. Those words and everything
	// placed before them are then kept for the rest of the search.
	Reversibles bool
	// TryHarderAt turns on the dictionary's partial words once a palindrome
	// of more than this many phrases is found; 0 never does.
	TryHarderAt int
	// Reporter may be nil.
	Reporter Reporter
	Logger   *log.Logger
}

type frame struct {
	side       Side
	remainder  string
	checked    bool
	loaded     bool
	candidates []string
	next       int
	placed     string
}

// Engine runs the depth-first search. It is driven from a single goroutine;
// only Stop may be called concurrently.
type Engine struct {
	dict     Dictionary
	state    *State
	names    map[string]string
	stack    []*frame
	opts     Options
	log      *log.Logger
	status   Status
	steps    int
	matches  int
	pruned   int
	maxDepth int
	best     *Result
	stop     atomic.Bool

	reversed    bool
	triedHarder bool
}

// NewEngine seeds a search with true-name phrases for each side, right in
// reading order. It returns ErrInvalidSeed when the seed does not mirror itself.
func NewEngine(dict Dictionary, left, right []string, opts Options) (*Engine, error) {
	if opts.SampleLimit <= 0 {
		opts.SampleLimit = DefaultSampleLimit
	}
	if opts.ScoreCap <= 0 {
		opts.ScoreCap = DefaultScoreCap
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("search")
	}

	names := make(map[string]string, len(left)+len(right))
	canonical := func(phrases []string) []string {
		words := make([]string, 0, len(phrases))
		for _, p := range phrases {
			w := canon.Canonical(p)
			if w == "" {
				continue
			}
			if _, ok := names[w]; !ok {
				names[w] = p
			}
			words = append(words, w)
		}
		return words
	}

	state, err := NewState(canonical(left), canonical(right))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		dict:   dict,
		state:  state,
		names:  names,
		opts:   opts,
		log:    opts.Logger,
		status: Extending,
	}
	e.stack = []*frame{e.newFrame()}
	return e, nil
}

func (e *Engine) newFrame() *frame {
	side, rem := e.state.Remainder()
	return &frame{side: side, remainder: rem}
}

// Step advances the search by one transition.
func (e *Engine) Step() Status {
	if len(e.stack) == 0 {
		e.status = Done
		return e.status
	}
	e.steps++
	top := e.stack[len(e.stack)-1]

	if !top.checked {
		top.checked = true
		if isPalindrome(top.remainder) {
			e.matches++
			e.record()
			e.status = Matched
			return e.status
		}
	}

	if !top.loaded {
		if e.opts.Reversibles && !e.reversed && e.state.Diff() == 0 {
			e.placeReversibles()
			e.status = Extending
			return e.status
		}
		e.load(top)
	}

	for top.next < len(top.candidates) {
		word := top.candidates[top.next]
		top.next++
		if e.state.Used(word) {
			continue
		}

		e.state.Push(top.side, word)
		top.placed = word
		e.stack = append(e.stack, e.newFrame())
		if len(e.stack) > e.maxDepth {
			e.maxDepth = len(e.stack)
		}
		e.status = Extending
		return e.status
	}

	e.backtrack()
	if len(e.stack) == 0 {
		e.status = Done
	} else {
		e.status = Exhausted
	}
	return e.status
}

// backtrack pops the exhausted top frame and takes back the word its parent placed.
func (e *Engine) backtrack() {
	e.stack = e.stack[:len(e.stack)-1]
	if len(e.stack) == 0 {
		return
	}

	parent := e.stack[len(e.stack)-1]
	if parent.placed == "" {
		return
	}
	if !e.state.Pop(parent.side, parent.placed) {
		e.log.Errorf("Could not undo %q on the %s side", parent.placed, parent.side)
	}
	parent.placed = ""
}

// placeReversibles puts each unused reversible pair on both sides at once and
// restarts the stack from the resulting state, so nothing placed so far is
// ever taken back.
func (e *Engine) placeReversibles() {
	e.reversed = true
	d, ok := e.dict.(reversibleDictionary)
	if !ok {
		return
	}

	placed := 0
	for _, w := range d.Reversibles() {
		rw := canon.Reverse(w)
		if e.state.Used(w) || e.state.Used(rw) {
			continue
		}
		e.state.Push(Left, w)
		e.state.Push(Right, rw)
		placed++
	}
	e.stack = []*frame{e.newFrame()}
	e.log.Info("Placed reversible words", "pairs", placed, "words", e.state.Len())
}

// load fetches the candidates for f, dropping dead ends and ordering the rest
// by how easily the search could continue after them.
func (e *Engine) load(f *frame) {
	f.loaded = true

	var raw []string
	if f.side == Left {
		raw = e.dict.StartsWith(f.remainder, e.opts.SampleLimit)
	} else {
		raw = e.dict.EndsWith(f.remainder, e.opts.SampleLimit)
	}

	type scored struct {
		word  string
		score int
	}
	ranked := make([]scored, 0, len(raw))
	for _, w := range raw {
		if e.state.Used(w) {
			continue
		}
		score, ok := e.score(f.side, w)
		if !ok {
			e.pruned++
			continue
		}
		ranked = append(ranked, scored{word: w, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	f.candidates = make([]string, len(ranked))
	for i, r := range ranked {
		f.candidates[i] = r.word
	}
}

// score counts the words that could follow word on side. It reports false for
// a word that leaves an unmatched, non-palindromic fragment nothing can follow.
func (e *Engine) score(side Side, word string) (int, bool) {
	e.state.Push(side, word)
	defer e.state.Pop(side, word)

	next, rem := e.state.Remainder()
	if rem == "" {
		return e.opts.ScoreCap, true
	}

	var n int
	if next == Left {
		n = e.dict.CountPrefix(rem, e.opts.ScoreCap)
	} else {
		n = e.dict.CountSuffix(rem, e.opts.ScoreCap)
	}
	if n < e.opts.ScoreCap {
		n = min(n+e.partials(next, rem), e.opts.ScoreCap)
	}
	if n == 0 && !isPalindrome(rem) {
		return 0, false
	}
	return n, true
}

// partials counts the shorter words a lookup for rem on side would add.
func (e *Engine) partials(side Side, rem string) int {
	d, ok := e.dict.(partialDictionary)
	if !ok {
		return 0
	}
	if side == Left {
		return len(d.PrefixPartials(rem))
	}
	return len(d.SuffixPartials(rem))
}

// record copies the current state out and reports it when it beats the best.
// Only a result the Reporter accepts becomes the best.
func (e *Engine) record() {
	n := e.state.Len()
	if e.opts.TryHarderAt > 0 && n > e.opts.TryHarderAt && !e.triedHarder {
		e.tryHarder(n)
	}
	if e.best != nil && n <= e.best.Len() {
		return
	}

	words := e.state.Words()
	phrases := make([]string, len(words))
	for i, w := range words {
		phrases[i] = e.trueName(w)
	}
	result := Result{
		Phrases: phrases,
		Words:   words,
		Letters: e.state.Letters(),
		Step:    e.steps,
	}

	if e.opts.Reporter != nil {
		// an error with true means it was kept but could not be written
		accepted, err := e.opts.Reporter.Report(result.Clone())
		if err != nil {
			e.log.Error("Reporter failed on palindrome", "phrases", result.Len(), "accepted", accepted, "err", err)
			if !accepted {
				return
			}
		}
	}
	e.best = &result
}

func (e *Engine) tryHarder(phrases int) {
	e.triedHarder = true
	d, ok := e.dict.(tryHarderSwitch)
	if !ok {
		return
	}
	d.SetTryHarder(true)
	e.log.Info("Trying harder", "phrases", phrases, "step", e.steps)
}

func (e *Engine) trueName(word string) string {
	if name, ok := e.names[word]; ok {
		return name
	}
	if name, ok := e.dict.TrueName(word); ok {
		return name
	}
	return word
}

// Run steps until the stack is empty, Stop is called, or steps transitions
// have been taken (steps <= 0 means no budget). Reaching the budget is a
// normal end; the best palindrome so far is returned.
func (e *Engine) Run(steps int) Summary {
	for i := 0; steps <= 0 || i < steps; i++ {
		if e.stop.Load() {
			e.log.Debug("Search stopped", "steps", e.steps)
			break
		}
		if e.Step() == Done {
			break
		}
		if e.steps%progressEvery == 0 {
			e.log.Debug("Searching", "steps", e.steps, "depth", len(e.stack), "words", e.state.Len())
		}
	}
	return e.Summary()
}

// Stop asks Run to return before its next step.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Summary reports where the search stands.
func (e *Engine) Summary() Summary {
	s := Summary{
		Status:  e.status,
		Steps:   e.steps,
		Matches: e.matches,
	}
	if e.best != nil {
		best := e.best.Clone()
		s.Best = &best
	}
	return s
}

// State exposes the live search state. Callers must not mutate it while the engine runs.
func (e *Engine) State() *State {
	return e.state
}

// Stats returns counters about the search so far
func (e *Engine) Stats() map[string]int {
	bestLen := 0
	if e.best != nil {
		bestLen = e.best.Len()
	}
	return map[string]int{
		"steps":       e.steps,
		"depth":       len(e.stack),
		"maxDepth":    e.maxDepth,
		"matches":     e.matches,
		"pruned":      e.pruned,
		"words":       e.state.Len(),
		"bestPhrases": bestLen,
	}
}

func isPalindrome(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}
