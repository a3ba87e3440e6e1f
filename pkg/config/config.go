/*
Package config manages the TOML config for panama.

The file lives at ~/.config/panama/config.toml and is created with defaults
on first use. A file that does not decode cleanly is parsed section by
section so that every valid value still applies. Command line flags take
precedence over anything read here.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/panama/internal/utils"
	"github.com/bastiangx/panama/pkg/canon"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Search SearchConfig `toml:"search"`
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path      string `toml:"path"`
	TryHarder bool   `toml:"try_harder"`
}

// SearchConfig holds search options.
type SearchConfig struct {
	Steps       int    `toml:"steps"`
	SampleLimit int    `toml:"sample_limit"`
	ScoreCap    int    `toml:"score_cap"`
	Seed        int    `toml:"seed"`
	Left        string `toml:"left"`
	Right       string `toml:"right"`
	Phrase      string `toml:"phrase"`
	// Reversibles places reversible word pairs once the sides first balance.
	Reversibles bool `toml:"reversibles"`
	// TryHarderAt switches try-harder on past this many phrases; 0 never does.
	TryHarderAt int `toml:"try_harder_at"`
}

// ReportConfig holds reporter options.
type ReportConfig struct {
	Dir      string `toml:"dir"`
	Margin   int    `toml:"margin"`
	Terminal string `toml:"terminal"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/panama (or the platform equivalent)
// 2. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := utils.AppConfigDir(homeDir, "panama")
	err = utils.WritableDir(primaryPath)
	if err == nil {
		return primaryPath, nil
	}
	log.Warnf("Cannot use config directory %s: %v", primaryPath, err)
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/panama/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			Path:      "words.txt",
			TryHarder: false,
		},
		Search: SearchConfig{
			Steps:       1_000_000,
			SampleLimit: 100,
			ScoreCap:    64,
			Seed:        0,
			Left:        "A man, a plan",
			Right:       "a canal, Panama",
			Reversibles: false,
			TryHarderAt: 0,
		},
		Report: ReportConfig{
			Dir:    ".",
			Margin: 0,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.PathExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOML(configPath, config); err != nil {
		log.Warnf("Config %s does not decode cleanly: %v. Attempting partial recovery...", configPath, err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value it can find and defaults the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tables, err := utils.ReadTables(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	extractDictConfig(tables["dict"], &config.Dict)
	extractSearchConfig(tables["search"], &config.Search)
	extractReportConfig(tables["report"], &config.Report)
	if val, ok := tables["log"].Str("level"); ok {
		config.Log.Level = val
	}
	return config, nil
}

func extractDictConfig(t utils.Table, dict *DictConfig) {
	if val, ok := t.Str("path"); ok {
		dict.Path = val
	}
	if val, ok := t.Bool("try_harder"); ok {
		dict.TryHarder = val
	}
}

func extractSearchConfig(t utils.Table, search *SearchConfig) {
	if val, ok := t.Int("steps"); ok {
		search.Steps = val
	}
	if val, ok := t.Int("sample_limit"); ok {
		search.SampleLimit = val
	}
	if val, ok := t.Int("score_cap"); ok {
		search.ScoreCap = val
	}
	if val, ok := t.Int("seed"); ok {
		search.Seed = val
	}
	if val, ok := t.Str("left"); ok {
		search.Left = val
	}
	if val, ok := t.Str("right"); ok {
		search.Right = val
	}
	if val, ok := t.Str("phrase"); ok {
		search.Phrase = val
	}
	if val, ok := t.Bool("reversibles"); ok {
		search.Reversibles = val
	}
	if val, ok := t.Int("try_harder_at"); ok {
		search.TryHarderAt = val
	}
}

func extractReportConfig(t utils.Table, report *ReportConfig) {
	if val, ok := t.Str("dir"); ok {
		report.Dir = val
	}
	if val, ok := t.Int("margin"); ok {
		report.Margin = val
	}
	if val, ok := t.Str("terminal"); ok {
		report.Terminal = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOML(configPath, config)
}

// Overrides carries command line values; nil fields leave the config alone.
type Overrides struct {
	Dict      *string
	TryHarder *bool
	Steps     *int
	Limit     *int
	Seed      *int
	Left      *string
	Right     *string
	Phrase    *string
	OutDir    *string
	Margin    *int
	Terminal  *string

	Reversibles *bool
	TryHarderAt *int
}

// Apply copies every set override into c.
func (c *Config) Apply(o Overrides) {
	if o.Dict != nil {
		c.Dict.Path = *o.Dict
	}
	if o.TryHarder != nil {
		c.Dict.TryHarder = *o.TryHarder
	}
	if o.Steps != nil {
		c.Search.Steps = *o.Steps
	}
	if o.Limit != nil {
		c.Search.SampleLimit = *o.Limit
	}
	if o.Seed != nil {
		c.Search.Seed = *o.Seed
	}
	if o.Phrase != nil {
		c.Search.Phrase = *o.Phrase
	}
	if o.Left != nil || o.Right != nil {
		// an explicit half seed replaces whatever seed came from the file
		c.Search.Phrase = ""
		c.Search.Left, c.Search.Right = "", ""
		if o.Left != nil {
			c.Search.Left = *o.Left
		}
		if o.Right != nil {
			c.Search.Right = *o.Right
		}
	}
	if o.OutDir != nil {
		c.Report.Dir = *o.OutDir
	}
	if o.Margin != nil {
		c.Report.Margin = *o.Margin
	}
	if o.Terminal != nil {
		c.Report.Terminal = *o.Terminal
	}
	if o.Reversibles != nil {
		c.Search.Reversibles = *o.Reversibles
	}
	if o.TryHarderAt != nil {
		c.Search.TryHarderAt = *o.TryHarderAt
	}
}

// SeedPhrases returns the seed split into left and right phrases, right in
// reading order. A single phrase takes precedence over the two halves.
func (s SearchConfig) SeedPhrases() (left, right []string) {
	if s.Phrase != "" {
		return canon.SplitSeed(s.Phrase)
	}
	return canon.Phrases(s.Left), canon.Phrases(s.Right)
}

// Terminal returns the phrase results must end with: the configured one, or
// else the last phrase of the seed.
func (c *Config) Terminal() string {
	if c.Report.Terminal != "" {
		return c.Report.Terminal
	}
	_, right := c.Search.SeedPhrases()
	if len(right) == 0 {
		return ""
	}
	return right[len(right)-1]
}
