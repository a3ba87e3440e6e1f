/*
Package report keeps the best palindrome a search has produced and writes it
to a log file as the search improves on it.

A Reporter only persists an improvement once it beats the last written
palindrome by more than a margin of phrases, so a long run does not rewrite
its log on every small gain. Flush writes whatever is left at the end.
*/
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bastiangx/panama/internal/logger"
	"github.com/bastiangx/panama/pkg/canon"
	"github.com/bastiangx/panama/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrInvalidPalindrome is returned for a result that is not a Panama palindrome.
var ErrInvalidPalindrome = errors.New("invalid palindrome")

// Options tune a Reporter.
type Options struct {
	// Dir holds the log file; "" means the working directory.
	Dir string
	// Margin is how many phrases a result must gain over the last written
	// one before it is written.
	Margin int
	// Terminal is the phrase every result must end with; "" accepts any.
	Terminal string
	// RunID names the log file; a random uuid is used when empty.
	RunID  string
	Logger *log.Logger
}

// Reporter implements search.Reporter over a log file.
type Reporter struct {
	mu        sync.Mutex
	path      string
	margin    int
	terminal  string
	best      *search.Result
	persisted int
	writes    int
	rejected  int
	log       *log.Logger
}

// New creates a Reporter writing to <dir>/pallog-<pid>-<run id>.txt. The
// file is only created on the first write.
func New(opts Options) *Reporter {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("report")
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	name := fmt.Sprintf("pallog-%d-%s.txt", os.Getpid(), opts.RunID)
	return &Reporter{
		path:     filepath.Join(opts.Dir, name),
		margin:   opts.Margin,
		terminal: opts.Terminal,
		log:      opts.Logger,
	}
}

// Report records res when it has more phrases than the best so far and
// writes it once it beats the last written result by more than the margin.
// It reports whether res became the new best.
func (r *Reporter) Report(res search.Result) (bool, error) {
	text := res.String()
	if !canon.IsPanama(text, r.terminal) {
		r.mu.Lock()
		r.rejected++
		r.mu.Unlock()
		return false, fmt.Errorf("%w: %q", ErrInvalidPalindrome, text)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.best != nil && res.Len() <= r.best.Len() {
		return false, nil
	}
	best := res.Clone()
	r.best = &best
	r.log.Debug("New best", "phrases", best.Len(), "step", best.Step)

	if best.Len() > r.persisted+r.margin {
		if err := r.persist(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Flush writes the best result if it was never written.
func (r *Reporter) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.best == nil || r.best.Len() == r.persisted {
		return nil
	}
	return r.persist()
}

// persist rewrites the log file with the best result. Callers hold mu.
func (r *Reporter) persist() error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(r.best.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}

	r.persisted = r.best.Len()
	r.writes++
	r.log.Info(StatsLine(*r.best))
	return nil
}

// Best returns a copy of the best result so far.
func (r *Reporter) Best() (search.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.best == nil {
		return search.Result{}, false
	}
	return r.best.Clone(), true
}

// Path returns the log file path.
func (r *Reporter) Path() string {
	return r.path
}

// Stats returns counters about the reporter
func (r *Reporter) Stats() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	best := 0
	if r.best != nil {
		best = r.best.Len()
	}
	return map[string]int{
		"bestPhrases": best,
		"persisted":   r.persisted,
		"writes":      r.writes,
		"rejected":    r.rejected,
	}
}

// StatsLine summarizes res as
//
//	Pal: 1,234 phrases, 2,345 words, 9,876 letters (at step 12,345)
func StatsLine(res search.Result) string {
	var b strings.Builder
	b.WriteString("Pal: ")
	b.WriteString(humanize.Comma(int64(res.Len())))
	b.WriteString(" phrases, ")
	b.WriteString(humanize.Comma(int64(res.WordCount())))
	b.WriteString(" words, ")
	b.WriteString(humanize.Comma(int64(res.Letters)))
	b.WriteString(" letters (at step ")
	b.WriteString(humanize.Comma(int64(res.Step)))
	b.WriteString(")")
	return b.String()
}
