// Package dictionary provides the phrase dictionary used by the palindrome search:
// canonical words mapped to their true names, with prefix and suffix lookups backed by
// two patricia tries (one over the words, one over the reversed words).
package dictionary

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/bastiangx/panama/pkg/canon"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// minPartialLen is the shortest word considered when trying harder.
const minPartialLen = 3

var errCountCapped = errors.New("count capped")

// PhraseDict maps canonical words to true names and answers "starts with" and
// "ends with" queries. Its words never change after construction; only the
// try-harder switch does.
// The sampling source is not safe for concurrent use, so neither is PhraseDict.
type PhraseDict struct {
	forward     *patricia.Trie
	backward    *patricia.Trie
	names       map[string]string
	phrases     []string
	rng         *rand.Rand
	tryHarder   bool
	collisions  int
	maxLength   int
	reversibles []string
}

// Option configures a PhraseDict.
type Option func(*PhraseDict)

// WithTryHarder makes lookups also return words that are a proper prefix
// (StartsWith) or proper suffix (EndsWith) of the query.
func WithTryHarder(enabled bool) Option {
	return func(d *PhraseDict) {
		d.tryHarder = enabled
	}
}

// New builds a dictionary from true-name phrases. Only the first phrase seen
// for a canonical word is kept. A nil rng gets a time-seeded source.
func New(phrases []string, rng *rand.Rand, opts ...Option) *PhraseDict {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &PhraseDict{
		forward:  patricia.NewTrie(),
		backward: patricia.NewTrie(),
		names:    make(map[string]string, len(phrases)),
		phrases:  make([]string, 0, len(phrases)),
		rng:      rng,
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, phrase := range phrases {
		d.add(phrase)
	}

	if d.collisions > 0 {
		log.Debugf("Dropped %d phrases sharing a canonical word with an earlier phrase", d.collisions)
	}
	return d
}

func (d *PhraseDict) add(phrase string) {
	word := canon.Canonical(phrase)
	if word == "" {
		return
	}
	if _, exists := d.names[word]; exists {
		d.collisions++
		return
	}

	d.names[word] = phrase
	d.phrases = append(d.phrases, phrase)
	d.forward.Insert(patricia.Prefix(word), word)
	d.backward.Insert(patricia.Prefix(canon.Reverse(word)), word)
	if len(word) > d.maxLength {
		d.maxLength = len(word)
	}
}

// TrueName returns the phrase a canonical word came from.
func (d *PhraseDict) TrueName(word string) (string, bool) {
	name, ok := d.names[word]
	return name, ok
}

// Contains reports whether word is a canonical word of the dictionary.
func (d *PhraseDict) Contains(word string) bool {
	_, ok := d.names[word]
	return ok
}

// Len returns the number of canonical words.
func (d *PhraseDict) Len() int {
	return len(d.names)
}

// Words returns all canonical words in sorted order.
func (d *PhraseDict) Words() []string {
	words := make([]string, 0, len(d.names))
	for w := range d.names {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Phrases returns the kept true names in the order they were added.
func (d *PhraseDict) Phrases() []string {
	out := make([]string, len(d.phrases))
	copy(out, d.phrases)
	return out
}

// SetTryHarder switches partial words on or off for later lookups.
func (d *PhraseDict) SetTryHarder(enabled bool) {
	d.tryHarder = enabled
}

// TryHarder reports whether lookups include partial words.
func (d *PhraseDict) TryHarder() bool {
	return d.tryHarder
}

// StartsWith returns up to limit canonical words beginning with prefix.
// When more words match, a uniform random sample is returned.
func (d *PhraseDict) StartsWith(prefix string, limit int) []string {
	return d.lookup(d.forward, prefix, limit, d.PrefixPartials(prefix))
}

// EndsWith returns up to limit canonical words ending with suffix.
// When more words match, a uniform random sample is returned.
func (d *PhraseDict) EndsWith(suffix string, limit int) []string {
	return d.lookup(d.backward, canon.Reverse(suffix), limit, d.SuffixPartials(suffix))
}

// PrefixPartials returns the words of at least three letters that are proper
// prefixes of prefix, shortest first. It is empty unless trying harder.
func (d *PhraseDict) PrefixPartials(prefix string) []string {
	if !d.tryHarder {
		return nil
	}
	var partials []string
	for i := minPartialLen; i < len(prefix); i++ {
		if d.Contains(prefix[:i]) {
			partials = append(partials, prefix[:i])
		}
	}
	return partials
}

// SuffixPartials returns the words of at least three letters that are proper
// suffixes of suffix, shortest first. It is empty unless trying harder.
func (d *PhraseDict) SuffixPartials(suffix string) []string {
	if !d.tryHarder {
		return nil
	}
	var partials []string
	for i := minPartialLen; i < len(suffix); i++ {
		if w := suffix[len(suffix)-i:]; d.Contains(w) {
			partials = append(partials, w)
		}
	}
	return partials
}

// Reversibles returns the words whose reversal is a different word of the
// dictionary, like camus for sumac. Each pair appears once, as its
// alphabetically smaller word, and the list is sorted.
func (d *PhraseDict) Reversibles() []string {
	if d.reversibles != nil {
		return d.reversibles
	}

	words := []string{}
	err := d.backward.Visit(func(p patricia.Prefix, item patricia.Item) error {
		word, ok := item.(string)
		if !ok {
			return nil
		}
		rev := string(p)
		if rev != word && word < rev && d.Contains(rev) {
			words = append(words, word)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error collecting reversible words: %v", err)
	}
	sort.Strings(words)

	d.reversibles = words
	log.Debugf("Found %d reversible word pairs", len(words))
	return words
}

func (d *PhraseDict) lookup(trie *patricia.Trie, key string, limit int, partials []string) []string {
	if limit <= 0 {
		return []string{}
	}
	if len(partials) > limit {
		partials = partials[:limit]
	}

	results := d.sample(trie, key, limit-len(partials))
	return append(results, partials...)
}

// sample draws up to limit items from the subtree under key (reservoir sampling)
// and shuffles them.
func (d *PhraseDict) sample(trie *patricia.Trie, key string, limit int) []string {
	results := []string{}
	if limit <= 0 {
		return results
	}

	seen := 0
	visit := func(p patricia.Prefix, item patricia.Item) error {
		word, ok := item.(string)
		if !ok {
			log.Errorf("Unknown item type: %T for key %s", item, p)
			return nil
		}
		seen++
		if len(results) < limit {
			results = append(results, word)
			return nil
		}
		if j := d.rng.Intn(seen); j < limit {
			results[j] = word
		}
		return nil
	}

	var err error
	if key == "" {
		err = trie.Visit(visit)
	} else {
		err = trie.VisitSubtree(patricia.Prefix(key), visit)
	}
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}

	d.rng.Shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
	return results
}

// CountPrefix counts words beginning with prefix, stopping at max (max <= 0 counts all).
func (d *PhraseDict) CountPrefix(prefix string, max int) int {
	return count(d.forward, prefix, max)
}

// CountSuffix counts words ending with suffix, stopping at max (max <= 0 counts all).
func (d *PhraseDict) CountSuffix(suffix string, max int) int {
	return count(d.backward, canon.Reverse(suffix), max)
}

func count(trie *patricia.Trie, key string, max int) int {
	n := 0
	visit := func(patricia.Prefix, patricia.Item) error {
		n++
		if max > 0 && n >= max {
			return errCountCapped
		}
		return nil
	}

	var err error
	if key == "" {
		err = trie.Visit(visit)
	} else {
		err = trie.VisitSubtree(patricia.Prefix(key), visit)
	}
	if err != nil && !errors.Is(err, errCountCapped) {
		log.Errorf("Error counting trie subtree: %v", err)
	}
	return n
}

// Stats returns statistics about the loaded dictionary
func (d *PhraseDict) Stats() map[string]int {
	tryHarder := 0
	if d.tryHarder {
		tryHarder = 1
	}
	return map[string]int{
		"totalWords": len(d.names),
		"collisions": d.collisions,
		"maxLength":  d.maxLength,
		"tryHarder":  tryHarder,
		"reversible": len(d.Reversibles()),
	}
}
