package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath   string
	debugMode    bool
	logLevel     string
	dictPath     string
	tryHarder    bool
	versionFlag  bool
	leftSeed     string
	rightSeed    string
	phraseSeed   string
	stepBudget   int
	sampleLimit  int
	probeLimit   int
	serveLimit   int
	margin       int
	randSeed     int
	outDir       string
	terminal     string
	snapshotPath string
	resetConfig  bool
	reversibles  bool
	tryHarderAt  int

	rootCmd = &cobra.Command{
		Use:           AppName,
		Short:         "Grow Panama-style palindromes from both ends inward",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				showVersion()
				return nil
			}
			return cmd.Help()
		},
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Search for the longest palindrome reachable from a seed",
		Args:  cobra.NoArgs,
		RunE:  runStart,
	}

	compileCmd = &cobra.Command{
		Use:   "compile",
		Short: "Write a word list as a msgpack snapshot",
		Args:  cobra.NoArgs,
		RunE:  runCompile,
	}

	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Interactively look up prefixes and suffixes in a word list",
		Args:  cobra.NoArgs,
		RunE:  runProbe,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Show the active config file, or rewrite it with defaults",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve dictionary lookups as msgpack over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show current version")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ~/.config/panama/config.toml)")
	pf.BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&dictPath, "dict", "", "Word list, one phrase per line, or a msgpack snapshot")
	pf.BoolVar(&tryHarder, "try-harder", false, "Also offer short words the query itself starts or ends with")

	sf := startCmd.Flags()
	sf.StringVar(&leftSeed, "left", "", "Comma separated phrases that start the palindrome")
	sf.StringVar(&rightSeed, "right", "", "Comma separated phrases that end the palindrome")
	sf.StringVar(&phraseSeed, "phrase", "", "A palindrome to start from, split at its middle")
	sf.IntVar(&stepBudget, "steps", 0, "Maximum search steps (0 for no limit)")
	sf.IntVarP(&sampleLimit, "limit", "k", 0, "Candidates sampled per frame")
	sf.IntVar(&margin, "margin", 0, "Phrases a result must gain before it is written")
	sf.IntVar(&randSeed, "seed", 0, "Random seed for sampling (0 for time based)")
	sf.StringVar(&outDir, "out", "", "Directory for the palindrome log")
	sf.StringVar(&terminal, "terminal", "", "Phrase every result must end with (default last seed phrase)")
	sf.BoolVar(&reversibles, "reversibles", false, "Place reversible word pairs (Camus, sumac) once the sides first balance")
	sf.IntVar(&tryHarderAt, "try-harder-at", 0, "Turn on --try-harder once a palindrome has more than this many phrases (0 never)")
	startCmd.MarkFlagsMutuallyExclusive("phrase", "left")
	startCmd.MarkFlagsMutuallyExclusive("phrase", "right")

	compileCmd.Flags().StringVarP(&snapshotPath, "out", "o", "", "Snapshot file to write (.msgpack)")
	_ = compileCmd.MarkFlagRequired("out")

	probeCmd.Flags().IntVarP(&probeLimit, "limit", "k", 24, "Words shown per lookup")
	probeCmd.Flags().StringVar(&terminal, "terminal", "", "Phrase ?checks must end with")

	serveCmd.Flags().IntVarP(&serveLimit, "limit", "k", 0, "Maximum words per response")

	configCmd.Flags().BoolVar(&resetConfig, "reset", false, "Rewrite the default config file with built-in defaults")

	rootCmd.AddCommand(startCmd, compileCmd, probeCmd, serveCmd, configCmd)
}
