// Package cli provides the interactive probe for poking at a phrase
// dictionary the way the search sees it.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/panama/internal/utils"
	"github.com/bastiangx/panama/pkg/canon"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

var (
	wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// Dictionary is what the probe looks things up in.
type Dictionary interface {
	TrueName(word string) (string, bool)
	StartsWith(prefix string, limit int) []string
	EndsWith(suffix string, limit int) []string
	CountPrefix(prefix string, max int) int
	CountSuffix(suffix string, max int) int
}

// InputHandler reads probe queries line by line:
//
//	pan        words starting with "pan"
//	<nal       words ending with "nal"
//	?A man...  is the text a Panama palindrome
type InputHandler struct {
	dict         Dictionary
	limit        int
	countCap     int
	terminal     string
	in           io.Reader
	out          *log.Logger
	requestCount int
}

// NewInputHandler creates a probe reading from in and printing to out.
func NewInputHandler(dict Dictionary, limit int, terminal string, in io.Reader, out io.Writer) *InputHandler {
	if limit <= 0 {
		limit = 24
	}
	return &InputHandler{
		dict:     dict,
		limit:    limit,
		countCap: 100_000,
		terminal: terminal,
		in:       in,
		out:      log.NewWithOptions(out, log.Options{Level: log.DebugLevel}),
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("Panama probe")
	h.out.Print("type a prefix, <suffix or ?phrases and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Requests returns how many queries were handled.
func (h *InputHandler) Requests() int {
	return h.requestCount
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	switch line[0] {
	case '?':
		h.check(line[1:])
		return
	case '<':
		h.lookup(line[1:], true)
		return
	}
	h.lookup(line, false)
}

func (h *InputHandler) check(text string) {
	if !utils.IsValidInput(text) {
		h.out.Errorf("Nothing to check in %q", text)
		return
	}
	if canon.IsPanama(text, h.terminal) {
		h.out.Printf("%s %s", okStyle.Render("yes"), canon.Canonical(text))
		return
	}
	h.out.Printf("%s %s", failStyle.Render("no"), canon.Canonical(text))
}

func (h *InputHandler) lookup(query string, suffix bool) {
	if !utils.IsValidInput(query) {
		h.out.Errorf("Not a word: %q", query)
		return
	}
	if utils.ContainsSpecialChars(query) {
		log.Debugf("Dropping non-letters from %q", query)
	}
	key := canon.Canonical(query)

	start := time.Now()
	var words []string
	var total int
	if suffix {
		words = h.dict.EndsWith(key, h.limit)
		total = h.dict.CountSuffix(key, h.countCap)
	} else {
		words = h.dict.StartsWith(key, h.limit)
		total = h.dict.CountPrefix(key, h.countCap)
	}
	log.Debugf("Took [ %v ] for %q", time.Since(start), key)

	if len(words) == 0 {
		h.out.Warnf("No words found for '%s'", key)
		return
	}

	h.out.Printf("Showing %d of %s words for '%s':", len(words), humanize.Comma(int64(total)), key)
	for i, w := range words {
		name, _ := h.dict.TrueName(w)
		h.out.Print(fmt.Sprintf("%2d. %s %s", i+1, wordStyle.Render(w), nameStyle.Render(name)))
	}
}
