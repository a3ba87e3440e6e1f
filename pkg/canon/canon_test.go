package canon

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"a man", "aman"},
		{"an elk", "anelk"},
		{"Mr. T", "mrt"},
		{"Donald E. Knuth", "donaldeknuth"},
		{"A man, a plan, a canal, Panama", "amanaplanacanalpanama"},
		{"Café", "cafe"},
		{"naïve résumé", "naiveresume"},
		{"R2-D2", "rd"},
		{"", ""},
		{"123 !?", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Canonical(tc.input), "Canonical(%q)", tc.input)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("aBcDeé ü,.;-'!?xYz09ñ\tÅ")

	for i := 0; i < 500; i++ {
		n := rng.Intn(24)
		s := make([]rune, n)
		for j := range s {
			s[j] = alphabet[rng.Intn(len(alphabet))]
		}
		once := Canonical(string(s))
		assert.Equal(t, once, Canonical(once), "input %q", string(s))
	}
}

func TestIsPalindrome(t *testing.T) {
	assert.True(t, IsPalindrome("A man, a plan, a canal, Panama."))
	assert.True(t, IsPalindrome("radar, radar? radar!"))
	assert.True(t, IsPalindrome(""))
	assert.False(t, IsPalindrome("radars"))
}

func TestIsPanama(t *testing.T) {
	assert.True(t, IsPanama("A man, a plan, a canal, Panama.", "panama"))
	assert.True(t, IsPanama(`A (man),     a   plan,,;, a `+"```"+`canal?'' -- Panama!`, "Panama"))
	assert.False(t, IsPanama("A man, a plan, a radar, a canal, Panama.", "panama"), "not a palindrome")
	assert.False(t, IsPanama("Maya, a yam", "panama"), "wrong terminal")
	assert.True(t, IsPanama("Maya, a yam", ""))
	assert.False(t, IsPanama("Radar, RADAR", ""), "duplicate phrase")
	assert.False(t, IsPanama("", ""))
}

func TestPhrases(t *testing.T) {
	assert.Equal(t, []string{"A man", "a plan", "Panama"}, Phrases("A man, a plan, Panama"))
	assert.Equal(t, []string{"x"}, Phrases(" , x,, "))
	assert.Empty(t, Phrases(""))
}

func TestSplitSeed(t *testing.T) {
	testCases := []struct {
		phrase string
		left   []string
		right  []string
	}{
		{"A man, a plan, a canal, Panama", []string{"A man", "a plan"}, []string{"a canal", "Panama"}},
		{"Maya, a yam", []string{"Maya"}, []string{"a yam"}},
		{"racecar", []string{}, []string{"racecar"}},
	}

	for _, tc := range testCases {
		left, right := SplitSeed(tc.phrase)
		assert.Equal(t, tc.left, append([]string{}, left...), tc.phrase)
		assert.Equal(t, tc.right, append([]string{}, right...), tc.phrase)
	}
}

func TestSeedEndsWith(t *testing.T) {
	left, right := []string{"A man", "a plan"}, []string{"a canal", "Panama"}
	assert.True(t, SeedEndsWith(left, right, "Panama"))
	assert.True(t, SeedEndsWith(left, right, ""))
	assert.False(t, SeedEndsWith(left, right, "canal"))

	// only the left half is known: the palindrome ends with it reversed
	assert.True(t, SeedEndsWith([]string{"A man"}, nil, "nama"))
	assert.True(t, SeedEndsWith([]string{"A man"}, nil, "Panama"), "longer terminals stay possible")
	assert.False(t, SeedEndsWith([]string{"A man"}, nil, "canal"))
}

func TestReverse(t *testing.T) {
	assert.Equal(t, "oof", Reverse("foo"))
	assert.Equal(t, "", Reverse(""))
}
