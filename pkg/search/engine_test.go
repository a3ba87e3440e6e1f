package search

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/bastiangx/panama/pkg/canon"
	"github.com/bastiangx/panama/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// recorder keeps every result it is handed. Results matching reject are
// refused with errRejected.
type recorder struct {
	results []Result
	err     error
	reject  func(Result) bool
}

var errRejected = errors.New("rejected")

func (r *recorder) Report(res Result) (bool, error) {
	r.results = append(r.results, res)
	if r.reject != nil && r.reject(res) {
		return false, errRejected
	}
	return true, r.err
}

// listDict answers lookups from a fixed word list, in list order.
type listDict []string

func (d listDict) TrueName(word string) (string, bool) { return word, true }

func (d listDict) StartsWith(prefix string, limit int) []string {
	return d.filter(func(w string) bool { return strings.HasPrefix(w, prefix) }, limit)
}

func (d listDict) EndsWith(suffix string, limit int) []string {
	return d.filter(func(w string) bool { return strings.HasSuffix(w, suffix) }, limit)
}

func (d listDict) CountPrefix(prefix string, max int) int {
	return len(d.filter(func(w string) bool { return strings.HasPrefix(w, prefix) }, max))
}

func (d listDict) CountSuffix(suffix string, max int) int {
	return len(d.filter(func(w string) bool { return strings.HasSuffix(w, suffix) }, max))
}

func (d listDict) filter(keep func(string) bool, limit int) []string {
	var out []string
	for _, w := range d {
		if limit > 0 && len(out) == limit {
			break
		}
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func quietOptions(rep Reporter) Options {
	return Options{
		SampleLimit: 50,
		Reporter:    rep,
		Logger:      log.New(io.Discard),
	}
}

func TestEngineFindsPanama(t *testing.T) {
	dict := dictionary.New([]string{"a", "plan", "canal", "panama", "a plan", "a canal"}, rand.New(rand.NewSource(1)))
	rep := &recorder{}

	eng, err := NewEngine(dict, []string{"a", "man"}, []string{"panama"}, quietOptions(rep))
	require.NoError(t, err)

	summary := eng.Run(50)
	require.NotNil(t, summary.Best)
	require.NotEmpty(t, rep.results)

	best := rep.results[len(rep.results)-1]
	assert.Equal(t, "amanaplanacanalpanama", canon.Canonical(best.String()))
	assert.Equal(t, "a, man, a plan, a canal, panama", best.String())
	assert.True(t, canon.IsPanama(best.String(), "panama"))
	assert.Equal(t, 21, best.Letters)
	assert.Equal(t, 7, best.WordCount())
	assert.Equal(t, *summary.Best, best)
}

func TestEngineEmptyDictionary(t *testing.T) {
	dict := dictionary.New(nil, rand.New(rand.NewSource(1)))
	rep := &recorder{}

	eng, err := NewEngine(dict, []string{"a", "man"}, []string{"panama"}, quietOptions(rep))
	require.NoError(t, err)

	summary := eng.Run(10)
	assert.Equal(t, Done, summary.Status)
	assert.Equal(t, 1, summary.Steps)
	assert.Nil(t, summary.Best)
	assert.Empty(t, rep.results, "seed is not a palindrome, nothing to report")
	assert.Equal(t, Done, eng.Step())
}

func TestEngineSeedAlreadyPalindrome(t *testing.T) {
	dict := dictionary.New(nil, rand.New(rand.NewSource(1)))
	rep := &recorder{}

	left, right := canon.SplitSeed("A man, a plan, a canal, Panama")
	eng, err := NewEngine(dict, left, right, quietOptions(rep))
	require.NoError(t, err)

	assert.Equal(t, Matched, eng.Step())
	assert.Equal(t, Done, eng.Step())
	require.Len(t, rep.results, 1)
	assert.Equal(t, "A man, a plan, a canal, Panama", rep.results[0].String())
}

func TestEngineInvalidSeed(t *testing.T) {
	dict := dictionary.New(nil, nil)
	_, err := NewEngine(dict, []string{"A man"}, []string{"a canal"}, quietOptions(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSeed))
}

func TestEngineStepBudget(t *testing.T) {
	var phrases []string
	letters := "abc"
	for i := 0; i < 3*3*3*3; i++ {
		n := i
		var b strings.Builder
		for j := 0; j < 4; j++ {
			b.WriteByte(letters[n%3])
			n /= 3
		}
		phrases = append(phrases, b.String())
	}
	dict := dictionary.New(phrases, rand.New(rand.NewSource(5)))

	eng, err := NewEngine(dict, []string{"abc"}, []string{"cba"}, quietOptions(nil))
	require.NoError(t, err)

	summary := eng.Run(25)
	assert.Equal(t, 25, summary.Steps, "budget ends the run without error")
	assert.NotEqual(t, Done, summary.Status)
}

func TestEngineStop(t *testing.T) {
	dict := dictionary.New([]string{"ab", "ba", "aab", "baa"}, rand.New(rand.NewSource(1)))
	eng, err := NewEngine(dict, []string{"x"}, []string{"yx"}, quietOptions(nil))
	require.NoError(t, err)

	eng.Stop()
	summary := eng.Run(100)
	assert.Equal(t, 0, summary.Steps)
}

// Exhaustive search over a tiny alphabet: every report must be a Panama
// palindrome without repeated words, and once the stack is empty the state
// must be back to the seed.
func TestEngineInvariants(t *testing.T) {
	phrases := []string{"Ab", "ba", "A ab", "baa", "Bab", "b", "abb", "B-B-A"}
	dict := dictionary.New(phrases, rand.New(rand.NewSource(21)), dictionary.WithTryHarder(true))
	rep := &recorder{}

	eng, err := NewEngine(dict, []string{"Zzq"}, []string{"qzz"}, quietOptions(rep))
	require.NoError(t, err)
	seed := eng.State().Snapshot()

	summary := eng.Run(2_000_000)
	require.Equal(t, Done, summary.Status)
	require.NotEmpty(t, rep.results)

	lengths := 0
	for _, res := range rep.results {
		assert.True(t, canon.IsPalindrome(res.String()), res.String())
		assert.True(t, canon.IsPanama(res.String(), "qzz"), res.String())

		seen := map[string]bool{}
		for _, w := range res.Words {
			assert.False(t, seen[w], "word %q repeated in %s", w, res)
			seen[w] = true
		}
		assert.Greater(t, res.Len(), lengths, "each report beats the previous one")
		lengths = res.Len()
	}

	assert.Equal(t, seed, eng.State().Snapshot())
	assert.Greater(t, eng.Stats()["maxDepth"], 1)
}

func TestEngineReporterErrorDoesNotStopSearch(t *testing.T) {
	dict := dictionary.New([]string{"a", "plan", "canal", "panama", "a plan", "a canal"}, rand.New(rand.NewSource(1)))
	rep := &recorder{err: errors.New("rejected")}

	eng, err := NewEngine(dict, []string{"a", "man"}, []string{"panama"}, quietOptions(rep))
	require.NoError(t, err)

	summary := eng.Run(0)
	assert.Equal(t, Done, summary.Status)
	assert.NotEmpty(t, rep.results)
}

func TestEngineRejectedResultIsNotBest(t *testing.T) {
	dict := dictionary.New([]string{"a", "plan", "canal", "panama", "a plan", "a canal"}, rand.New(rand.NewSource(1)))
	rep := &recorder{reject: func(Result) bool { return true }}

	eng, err := NewEngine(dict, []string{"a", "man"}, []string{"panama"}, quietOptions(rep))
	require.NoError(t, err)

	summary := eng.Run(0)
	assert.Equal(t, Done, summary.Status)
	assert.NotEmpty(t, rep.results)
	assert.Nil(t, summary.Best)
	assert.Equal(t, 0, eng.Stats()["bestPhrases"])
}

// Once a result is refused, a later one of the same length must still be offered.
func TestEngineReportsAfterRejection(t *testing.T) {
	dict := dictionary.New([]string{"ab", "ba", "cd", "dc"}, rand.New(rand.NewSource(4)))
	rep := &recorder{reject: func(res Result) bool {
		for _, w := range res.Words {
			if w == "ab" {
				return true
			}
		}
		return false
	}}

	eng, err := NewEngine(dict, []string{"xy"}, []string{"yx"}, quietOptions(rep))
	require.NoError(t, err)

	summary := eng.Run(0)
	require.Equal(t, Done, summary.Status)
	require.NotNil(t, summary.Best)
	assert.Equal(t, 4, summary.Best.Len())
	assert.NotContains(t, summary.Best.Words, "ab")
	assert.True(t, canon.IsPanama(summary.Best.String(), "yx"), summary.Best.String())
}

func TestEngineLoadRanksCandidates(t *testing.T) {
	// after z the right side owes: zc leaves "c" (zc, mc, nc end with it),
	// zd leaves "d" (zd, od), zab leaves "ba" (kba), ze leaves "e" (ze) and
	// zxy leaves "yx", which nothing ends with.
	dict := listDict{"zc", "zab", "zxy", "zd", "ze", "kba", "mc", "nc", "od"}

	eng, err := NewEngine(dict, nil, []string{"z"}, quietOptions(nil))
	require.NoError(t, err)

	f := eng.stack[0]
	require.Equal(t, Left, f.side)
	require.Equal(t, "z", f.remainder)

	eng.load(f)
	assert.Equal(t, []string{"zc", "zd", "zab", "ze"}, f.candidates, "highest count first, ties in sampled order")
	assert.Equal(t, 1, eng.Stats()["pruned"])
	assert.Equal(t, []string{"z"}, eng.State().Words(), "scoring leaves the state as it was")
}

func TestEngineScoreCap(t *testing.T) {
	dict := listDict{"zc", "zd", "mc", "nc", "od"}

	eng, err := NewEngine(dict, nil, []string{"z"}, Options{ScoreCap: 2, Logger: log.New(io.Discard)})
	require.NoError(t, err)

	f := eng.stack[0]
	eng.load(f)
	// zc (3 followers) and zd (2) both score the cap, so sampled order holds
	assert.Equal(t, []string{"zc", "zd"}, f.candidates)
}

func TestEnginePartialCompletesPalindrome(t *testing.T) {
	phrases := []string{"qabcd", "cba"}

	plain := dictionary.New(phrases, rand.New(rand.NewSource(1)))
	eng, err := NewEngine(plain, nil, []string{"q"}, quietOptions(nil))
	require.NoError(t, err)
	summary := eng.Run(1000)
	require.NotNil(t, summary.Best)
	assert.Equal(t, "q", summary.Best.String())
	assert.Equal(t, 1, eng.Stats()["pruned"], "qabcd leaves dcba, which no word ends with")

	harder := dictionary.New(phrases, rand.New(rand.NewSource(1)), dictionary.WithTryHarder(true))
	eng, err = NewEngine(harder, nil, []string{"q"}, quietOptions(nil))
	require.NoError(t, err)
	summary = eng.Run(1000)
	require.Equal(t, Done, summary.Status)
	require.NotNil(t, summary.Best)
	assert.Equal(t, "qabcd, cba, q", summary.Best.String())
	assert.Equal(t, 0, eng.Stats()["pruned"])
}

func TestEngineTryHarderAt(t *testing.T) {
	phrases := []string{"qabcd", "cba"}
	left, right := []string{"ok"}, []string{"q", "ko"}

	dict := dictionary.New(phrases, rand.New(rand.NewSource(1)))
	eng, err := NewEngine(dict, left, right, quietOptions(nil))
	require.NoError(t, err)
	summary := eng.Run(0)
	require.NotNil(t, summary.Best)
	assert.Equal(t, "ok, q, ko", summary.Best.String())
	assert.False(t, dict.TryHarder())

	dict = dictionary.New(phrases, rand.New(rand.NewSource(1)))
	opts := quietOptions(nil)
	opts.TryHarderAt = 2
	eng, err = NewEngine(dict, left, right, opts)
	require.NoError(t, err)
	summary = eng.Run(0)
	require.NotNil(t, summary.Best)
	assert.True(t, dict.TryHarder(), "the three phrase seed is past the threshold")
	assert.Equal(t, "ok, qabcd, cba, q, ko", summary.Best.String())
}

func TestEngineReversibles(t *testing.T) {
	dict := dictionary.New([]string{"stab", "bats", "Camus", "sumac", "level"}, rand.New(rand.NewSource(1)))
	opts := quietOptions(nil)
	opts.Reversibles = true

	eng, err := NewEngine(dict, []string{"stab"}, []string{"bats"}, opts)
	require.NoError(t, err)

	assert.Equal(t, Matched, eng.Step(), "balanced seed is reported first")
	assert.Equal(t, Extending, eng.Step())
	assert.Equal(t, []string{"stab", "camus"}, eng.State().Left())
	assert.Equal(t, []string{"sumac", "bats"}, eng.State().Right())
	assert.Equal(t, 0, eng.State().Diff())
	assert.Equal(t, 1, eng.Stats()["depth"])

	summary := eng.Run(0)
	require.Equal(t, Done, summary.Status)
	require.NotNil(t, summary.Best)
	assert.Equal(t, "stab, Camus, level, sumac, bats", summary.Best.String())
	assert.True(t, canon.IsPanama(summary.Best.String(), "bats"))

	// the pairs are never taken back
	assert.Equal(t, []string{"stab", "camus"}, eng.State().Left())
}
