package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds word lists and per-user directories for the panama binary.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a resolver rooted at the running executable.
func NewPathResolver() *PathResolver {
	execDir, err := ExecutableDir()
	if err != nil {
		log.Warnf("Could not determine executable directory: %v", err)
		execDir = "."
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     AppConfigDir(homeDir, "panama"),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr
}

// AppConfigDir returns the platform config directory for app under homeDir.
func AppConfigDir(homeDir, app string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	default:
		return filepath.Join(homeDir, ".config", app)
	}
}

// Candidates lists where a word list named path is looked for, in order:
// the path itself, the working directory, next to the executable, and the
// data directory under the config dir.
func (pr *PathResolver) Candidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}

	candidates := []string{path}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, path),
		filepath.Join(pr.executableDir, "data", path),
		filepath.Join(pr.configDir, "data", path),
	)
	return candidates
}

// ResolveWordList returns the first existing regular file among the
// candidates for path. When none exists path is returned unchanged so the
// caller reports the name the user gave.
func (pr *PathResolver) ResolveWordList(path string) string {
	for _, candidate := range pr.Candidates(path) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			log.Debugf("Word list candidate not valid: %s", candidate)
			continue
		}
		log.Debugf("Found word list: %s", candidate)
		return candidate
	}
	return path
}
