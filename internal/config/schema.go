package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "git_timeout")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// LogLevels are the accepted values of log_level.
var LogLevels = []string{"debug", "info", "warn", "error", "none"}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"version_file": {
		Path:        "version_file",
		Type:        TypeString,
		Description: "Source file holding the version assignment",
	},
	"version_variable": {
		Path:        "version_variable",
		Type:        TypeString,
		Description: "Name assigned in the version file",
	},
	"manifest_file": {
		Path:        "manifest_file",
		Type:        TypeString,
		Description: "Optional manifest carrying a copy of the version (empty disables)",
	},
	"manifest_section": {
		Path:        "manifest_section",
		Type:        TypeString,
		Description: "Manifest section that owns the version line",
	},
	"changelog_file": {
		Path:        "changelog_file",
		Type:        TypeString,
		Description: "Markdown changelog receiving release sections",
	},
	"changelog_title": {
		Path:        "changelog_title",
		Type:        TypeString,
		Description: "Title line of a newly created changelog",
	},
	"log_file": {
		Path:        "log_file",
		Type:        TypeString,
		Description: "Append-only operational log (JSON lines)",
	},
	"log_level": {
		Path:          "log_level",
		Type:          TypeEnum,
		AllowedValues: LogLevels,
		Description:   "Minimum level written to the log file",
	},
	"git_command": {
		Path:        "git_command",
		Type:        TypeString,
		Description: "git executable",
	},
	"git_timeout": {
		Path:        "git_timeout",
		Type:        TypeDuration,
		Description: "Limit for each git invocation (0 disables)",
	},
	"push": {
		Path:        "push",
		Type:        TypeBool,
		Description: "Push the branch and tags after tagging",
	},
	"remote": {
		Path:        "remote",
		Type:        TypeString,
		Description: "Remote to push to (empty uses git's defaults)",
	},
	"skip_confirmations": {
		Path:        "skip_confirmations",
		Type:        TypeBool,
		Description: "Continue without asking when the working tree is dirty",
	},
	"max_prompt_attempts": {
		Path:        "max_prompt_attempts",
		Type:        TypeInt,
		Description: "Version prompts before giving up (0 = unlimited)",
	},
	"state_dir": {
		Path:        "state_dir",
		Type:        TypeString,
		Description: "Directory for the release history file",
	},
	"max_history_entries": {
		Path:        "max_history_entries",
		Type:        TypeInt,
		Description: "Release history entries to retain",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the known key names in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateValue validates a raw value against the schema for a given key.
func ValidateValue(key, value string) error {
	schema, err := GetKeySchema(key)
	if err != nil {
		return err
	}

	switch schema.Type {
	case TypeBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid boolean: %q (expected true or false)", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer: %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration: %q (examples: 2m, 90s)", value)
		}
	case TypeEnum:
		for _, allowed := range schema.AllowedValues {
			if value == allowed {
				return nil
			}
		}
		return fmt.Errorf("invalid value: %q (valid options: %s)", value, strings.Join(schema.AllowedValues, ", "))
	}
	return nil
}

// Value returns the effective value of a known key formatted for display.
func (c *Configuration) Value(key string) (string, error) {
	switch key {
	case "version_file":
		return c.VersionFile, nil
	case "version_variable":
		return c.VersionVariable, nil
	case "manifest_file":
		return c.ManifestFile, nil
	case "manifest_section":
		return c.ManifestSection, nil
	case "changelog_file":
		return c.ChangelogFile, nil
	case "changelog_title":
		return c.ChangelogTitle, nil
	case "log_file":
		return c.LogFile, nil
	case "log_level":
		return c.LogLevel, nil
	case "git_command":
		return c.GitCommand, nil
	case "git_timeout":
		return c.GitTimeout.String(), nil
	case "push":
		return strconv.FormatBool(c.Push), nil
	case "remote":
		return c.Remote, nil
	case "skip_confirmations":
		return strconv.FormatBool(c.SkipConfirmations), nil
	case "max_prompt_attempts":
		return strconv.Itoa(c.MaxPromptAttempts), nil
	case "state_dir":
		return c.StateDir, nil
	case "max_history_entries":
		return strconv.Itoa(c.MaxHistoryEntries), nil
	}
	return "", ErrUnknownKey{Key: key}
}
