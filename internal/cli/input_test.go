package cli

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/bastiangx/panama/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func runProbe(t *testing.T, input string) (string, *InputHandler) {
	t.Helper()
	dict := dictionary.New([]string{"Panama", "pan", "A plan", "a canal", "canal"}, rand.New(rand.NewSource(1)))
	var out bytes.Buffer
	h := NewInputHandler(dict, 5, "Panama", strings.NewReader(input), &out)
	require.NoError(t, h.Start())
	return out.String(), h
}

func TestProbePrefix(t *testing.T) {
	out, h := runProbe(t, "Pan\n")
	assert.Equal(t, 1, h.Requests())
	assert.Contains(t, out, "Showing 2 of 2 words for 'pan'")
	assert.Contains(t, out, "panama")
	assert.Contains(t, out, "Panama")
}

func TestProbeSuffix(t *testing.T) {
	out, _ := runProbe(t, "<nal\n")
	assert.Contains(t, out, "for 'nal'")
	assert.Contains(t, out, "acanal")
	assert.Contains(t, out, "a canal")
}

func TestProbeCheck(t *testing.T) {
	out, h := runProbe(t, "?A man, a plan, a canal, Panama\n?Maya, a yam")
	assert.Equal(t, 2, h.Requests(), "last line needs no newline")
	lines := strings.Split(out, "\n")
	var yes, no string
	for _, l := range lines {
		if strings.Contains(l, "amanaplanacanalpanama") {
			yes = l
		}
		if strings.Contains(l, "mayaayam") {
			no = l
		}
	}
	assert.Contains(t, yes, "yes")
	assert.Contains(t, no, "no")
}

func TestProbeRejects(t *testing.T) {
	out, h := runProbe(t, "\n1234\nzzzz\n")
	assert.Equal(t, 2, h.Requests())
	assert.Contains(t, out, "Not a word")
	assert.Contains(t, out, "No words found for 'zzzz'")
}
