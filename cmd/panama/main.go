// Copyright 2025 The Panama Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the panama palindrome search CLI.

panama grows "A man, a plan, a canal, Panama" style palindromes from both
ends inward. Starting from a seed it places dictionary phrases alternately on
the side that is short of letters, backtracking whenever the letters in the
middle can no longer be completed. Every time the middle reads the same both
ways the whole phrase is a palindrome, and the longest one found is written
to a log file.

# Usage

Search from the classic seed with a word list:

	panama start --dict words.txt --steps 5000000

Seed with two halves, or with a single palindrome split at its middle:

	panama start --dict words.txt --left "A man, a plan" --right "a canal, Panama"
	panama start --dict words.txt --phrase "Maya, a yam"

Compile a word list into a msgpack snapshot that loads without
re-canonicalizing every line:

	panama compile --dict words.txt --out words.msgpack

Probe the dictionary interactively, or serve it over msgpack IPC:

	panama probe --dict words.msgpack
	panama serve --dict words.msgpack

# Word lists

A word list has one phrase per line. Phrases are matched on their canonical
form: diacritics are folded, everything but ASCII letters is dropped, and
the rest is lowercased. When two lines share a canonical form the first one
is kept as the phrase written to the log.

# Results

Improvements are written to pallog-<pid>-<run id>.txt in the output directory
as one line of comma separated phrases. With --margin M a result is written
only once it beats the last written one by more than M phrases; the best
result is always written when the search ends. Ctrl-C stops the search
cleanly.

# Configuration

Defaults come from ~/.config/panama/config.toml, created on first use:

	[dict]
	path = "words.txt"
	try_harder = false

	[search]
	steps = 1000000
	sample_limit = 100
	score_cap = 64
	left = "A man, a plan"
	right = "a canal, Panama"
	reversibles = false
	try_harder_at = 0

	[report]
	dir = "."
	margin = 0

Command line flags override the file.

# Exit codes

	0  the search finished or spent its step budget
	1  any other failure
	2  the seed is not a consistent partial palindrome, or it cannot end
	   with the terminal phrase
	3  the word list could not be read
*/
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/panama/pkg/dictionary"
	"github.com/bastiangx/panama/pkg/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "panama"
	gh      = "https://github.com/bastiangx/panama"
)

const (
	exitFailure     = 1
	exitInvalidSeed = 2
	exitWordList    = 3
)

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, search.ErrInvalidSeed):
		return exitInvalidSeed
	case errors.Is(err, dictionary.ErrWordListUnreadable):
		return exitWordList
	}
	return exitFailure
}

// sigHandler calls onSignal once on the first interrupt.
func sigHandler(onSignal func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nStopping...\n")
		onSignal()
	}()
}

// exitOnSignal is the sigHandler action for commands with nothing to save.
func exitOnSignal() {
	os.Exit(0)
}

// showVersion prints the version banner.
func showVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ Panama ] A man, a plan, a canal... and then some.")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available commands")
	logger.Print("Github Repo", "gh", gh)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Error(err)
	}
	os.Exit(exitCode(err))
}
