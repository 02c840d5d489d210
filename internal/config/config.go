// Package config provides hierarchical configuration management for relbump using koanf.
// Configuration is loaded with priority: environment variables (RELBUMP_*) > project config
// (.relbump.yml) > user config (~/.config/relbump/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "RELBUMP_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the relbump configuration. Every component
// receives the values it needs from here at construction.
type Configuration struct {
	// VersionFile is the source file holding the version assignment. Required.
	VersionFile string `koanf:"version_file"`
	// VersionVariable is the assigned name, __version__ by default.
	VersionVariable string `koanf:"version_variable" validate:"required"`

	// ManifestFile is optional; a missing file is skipped. Empty disables it.
	ManifestFile    string `koanf:"manifest_file"`
	ManifestSection string `koanf:"manifest_section" validate:"required_with=ManifestFile"`

	ChangelogFile  string `koanf:"changelog_file" validate:"required"`
	ChangelogTitle string `koanf:"changelog_title"`

	LogFile  string `koanf:"log_file"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error none"`

	GitCommand string        `koanf:"git_command" validate:"required"`
	GitTimeout time.Duration `koanf:"git_timeout" validate:"min=0"`
	Push       bool          `koanf:"push"`
	Remote     string        `koanf:"remote"`

	SkipConfirmations bool `koanf:"skip_confirmations"` // Also set by RELBUMP_YES
	MaxPromptAttempts int  `koanf:"max_prompt_attempts" validate:"min=0"`

	StateDir          string `koanf:"state_dir"`
	MaxHistoryEntries int    `koanf:"max_history_entries" validate:"min=1"`

	// Sources records which layer set each key that differs from the defaults.
	Sources map[string]ConfigSource `koanf:"-"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relbump.yml)
	ProjectConfigPath string
	// SkipUserConfig ignores the user-level config file.
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		userPath, _ := UserConfigPath()
		if err := loadLayer(k, userPath, SourceUser, sources); err != nil {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	projectPath := ProjectConfigPath()
	if opts.ProjectConfigPath != "" {
		projectPath = opts.ProjectConfigPath
		if !fileExists(projectPath) {
			return nil, &ValidationError{FilePath: projectPath, Message: "config file not found"}
		}
	}
	if err := loadLayer(k, projectPath, SourceProject, sources); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := loadEnvironmentConfig(k, sources); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}
}

// loadLayer loads one YAML file, if it exists, over k and records the keys it set.
func loadLayer(k *koanf.Koanf, path string, source ConfigSource, sources map[string]ConfigSource) error {
	if !fileExists(path) {
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", source, err)
	}

	layer := koanf.New(".")
	if err := layer.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", source, path, err)
	}
	if err := checkKnownKeys(layer, path); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		sources[key] = source
	}
	return k.Merge(layer)
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf, sources map[string]ConfigSource) error {
	layer := koanf.New(".")
	if err := layer.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	for _, key := range layer.Keys() {
		if _, known := KnownKeys[key]; !known {
			layer.Delete(key)
			continue
		}
		if err := ValidateValue(key, layer.String(key)); err != nil {
			return &ValidationError{FilePath: "environment", Field: EnvPrefix + strings.ToUpper(key), Message: err.Error()}
		}
		sources[key] = SourceEnv
	}
	return k.Merge(layer)
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv(EnvPrefix+"YES") != "" {
		cfg.SkipConfirmations = true
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.LogFile = expandHomePath(cfg.LogFile)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Source returns where key was set, SourceDefault when no layer overrode it.
func (c *Configuration) Source(key string) ConfigSource {
	if src, ok := c.Sources[key]; ok {
		return src
	}
	return SourceDefault
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: RELBUMP_GIT_TIMEOUT -> git_timeout
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
