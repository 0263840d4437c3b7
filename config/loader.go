package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ProjectConfigName is the config file searched for in the working
	// directory and its parents.
	ProjectConfigName = "caseflow.yaml"
	// UserConfigDir is the per-user config directory under the XDG config
	// root.
	UserConfigDir = "caseflow"
	// UserConfigName is the per-user config file name.
	UserConfigName = "config.yaml"
)

// Loader handles layered configuration loading.
type Loader struct {
	workDir string
}

// NewLoader creates a config loader rooted at workDir. An empty workDir
// means the current directory.
func NewLoader(workDir string) *Loader {
	if workDir == "" {
		workDir = "."
	}
	return &Loader{workDir: workDir}
}

// Load loads configuration in precedence order: defaults, then the user
// config, then the nearest project config walking up from workDir. Each
// layer overrides non-zero fields of the previous.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if userPath, err := l.userConfigPath(); err == nil {
		if userConfig, err := LoadFromFile(userPath); err == nil {
			config.Merge(userConfig)
		}
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		projectConfig, err := LoadFromFile(projectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load project config %s: %w", projectPath, err)
		}
		config.Merge(projectConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func (l *Loader) userConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(configDir, UserConfigDir, UserConfigName), nil
}

// findProjectConfig walks up from workDir looking for ProjectConfigName.
// Returns "" when no project config exists.
func (l *Loader) findProjectConfig() string {
	dir, err := filepath.Abs(l.workDir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// EnsureUserConfig writes a default user config file if none exists and
// returns its path.
func EnsureUserConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}

	path := filepath.Join(configDir, UserConfigDir, UserConfigName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return path, nil
}
