package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/panama/internal/cli"
	"github.com/bastiangx/panama/internal/logger"
	"github.com/bastiangx/panama/internal/utils"
	"github.com/bastiangx/panama/pkg/canon"
	"github.com/bastiangx/panama/pkg/config"
	"github.com/bastiangx/panama/pkg/dictionary"
	"github.com/bastiangx/panama/pkg/report"
	"github.com/bastiangx/panama/pkg/search"
	"github.com/bastiangx/panama/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// appConfig is loaded once before any command runs.
var appConfig *config.Config

// setup loads the config and sets the global log level: -d wins over
// --log-level, which wins over the config file.
func setup() error {
	level := logger.ParseLevel(logLevel, log.WarnLevel)
	if debugMode {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	cfg, usedPath, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	log.Debugf("Using config file: %s", config.GetActiveConfigPath(usedPath))

	if !debugMode && logLevel == "" {
		log.SetLevel(logger.ParseLevel(cfg.Log.Level, log.WarnLevel))
	}
	if log.GetLevel() == log.DebugLevel {
		log.SetReportTimestamp(true)
	}
	return nil
}

// overrides collects the flags the user actually set on cmd.
func overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()
	if flags.Changed("dict") {
		o.Dict = &dictPath
	}
	if flags.Changed("try-harder") {
		o.TryHarder = &tryHarder
	}
	if flags.Changed("steps") {
		o.Steps = &stepBudget
	}
	if flags.Changed("limit") && cmd.Name() == "start" {
		o.Limit = &sampleLimit
	}
	if flags.Changed("seed") {
		o.Seed = &randSeed
	}
	if flags.Changed("left") {
		o.Left = &leftSeed
	}
	if flags.Changed("right") {
		o.Right = &rightSeed
	}
	if flags.Changed("phrase") {
		o.Phrase = &phraseSeed
	}
	if flags.Changed("out") && cmd.Name() == "start" {
		o.OutDir = &outDir
	}
	if flags.Changed("margin") {
		o.Margin = &margin
	}
	if flags.Changed("terminal") {
		o.Terminal = &terminal
	}
	if flags.Changed("reversibles") {
		o.Reversibles = &reversibles
	}
	if flags.Changed("try-harder-at") {
		o.TryHarderAt = &tryHarderAt
	}
	return o
}

// loadDictionary builds the phrase dictionary named by the config.
func loadDictionary(cfg *config.Config) (*dictionary.PhraseDict, error) {
	var rng *rand.Rand
	if cfg.Search.Seed != 0 {
		rng = rand.New(rand.NewSource(int64(cfg.Search.Seed)))
	}

	path := utils.NewPathResolver().ResolveWordList(cfg.Dict.Path)
	log.Debugf("Loading word list from %s", path)

	start := time.Now()
	dict, err := dictionary.Load(path, rng, dictionary.WithTryHarder(cfg.Dict.TryHarder))
	if err != nil {
		return nil, err
	}
	stats := dict.Stats()
	log.Debug("Dictionary ready",
		"words", humanize.Comma(int64(stats["totalWords"])),
		"collisions", stats["collisions"],
		"took", time.Since(start))
	return dict, nil
}

func runStart(cmd *cobra.Command, args []string) error {
	appConfig.Apply(overrides(cmd))
	cfg := appConfig

	dict, err := loadDictionary(cfg)
	if err != nil {
		return err
	}

	left, right := cfg.Search.SeedPhrases()
	if len(left)+len(right) == 0 {
		return fmt.Errorf("%w: no seed phrases", search.ErrInvalidSeed)
	}
	if term := cfg.Terminal(); !canon.SeedEndsWith(left, right, term) {
		return fmt.Errorf("%w: no palindrome from this seed can end with %q", search.ErrInvalidSeed, term)
	}
	reporter := report.New(report.Options{
		Dir:      cfg.Report.Dir,
		Margin:   cfg.Report.Margin,
		Terminal: cfg.Terminal(),
	})

	eng, err := search.NewEngine(dict, left, right, search.Options{
		SampleLimit: cfg.Search.SampleLimit,
		ScoreCap:    cfg.Search.ScoreCap,
		Reversibles: cfg.Search.Reversibles,
		TryHarderAt: cfg.Search.TryHarderAt,
		Reporter:    reporter,
	})
	if err != nil {
		return err
	}
	sigHandler(eng.Stop)

	log.Info("Searching",
		"left", left, "right", right,
		"steps", cfg.Search.Steps,
		"log", reporter.Path())

	start := time.Now()
	summary := eng.Run(cfg.Search.Steps)
	if err := reporter.Flush(); err != nil {
		return fmt.Errorf("failed to write palindrome log: %w", err)
	}

	stats := eng.Stats()
	log.Debug("Search finished",
		"status", summary.Status,
		"steps", humanize.Comma(int64(summary.Steps)),
		"matches", summary.Matches,
		"maxDepth", stats["maxDepth"],
		"pruned", stats["pruned"],
		"took", time.Since(start))

	best, ok := reporter.Best()
	if !ok {
		fmt.Println("No palindrome found")
		return nil
	}
	fmt.Println(best.String())
	fmt.Println(report.StatsLine(best))
	fmt.Printf("Written to %s\n", reporter.Path())
	return nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	appConfig.Apply(overrides(cmd))

	dict, err := loadDictionary(appConfig)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(snapshotPath); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := dict.SaveSnapshot(snapshotPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %s phrases to %s\n", humanize.Comma(int64(dict.Len())), snapshotPath)
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	appConfig.Apply(overrides(cmd))
	sigHandler(exitOnSignal)

	dict, err := loadDictionary(appConfig)
	if err != nil {
		return err
	}
	log.SetReportTimestamp(false)
	return cli.NewInputHandler(dict, probeLimit, terminal, os.Stdin, os.Stderr).Start()
}

func runServe(cmd *cobra.Command, args []string) error {
	appConfig.Apply(overrides(cmd))
	sigHandler(exitOnSignal)

	dict, err := loadDictionary(appConfig)
	if err != nil {
		return err
	}
	showStartupInfo(appConfig.Dict.Path, dict.Len())
	return server.NewServer(dict, os.Stdin, os.Stdout, serveLimit).Start()
}

func runConfig(cmd *cobra.Command, args []string) error {
	if resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			return fmt.Errorf("failed to rebuild config: %w", err)
		}
	}
	fmt.Println(config.GetActiveConfigPath(configPath))
	return nil
}

// showStartupInfo displays some basic info about the server on stderr.
func showStartupInfo(dictPath string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dict: ( %s ) %s words", dictPath, humanize.Comma(int64(words)))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
