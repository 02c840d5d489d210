package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# relbump configuration
# Values here override ~/.config/relbump/config.yml; RELBUMP_* env vars override both.

# Files
version_file: ""                      # Source file with the version assignment (required)
version_variable: __version__         # Assignment name in version_file
manifest_file: pyproject.toml         # Optional manifest; "" disables
manifest_section: project             # Section owning the version (package for Cargo.toml)
changelog_file: CHANGELOG.md          # Changelog receiving new sections
changelog_title: "# Changelog"        # Title of a newly created changelog

# Git
git_command: git                      # git executable
git_timeout: 2m                       # Limit per git invocation (0 = none)
push: true                            # Push branch and tags after tagging
remote: ""                            # Remote to push to ("" = git defaults)

# Prompts
skip_confirmations: false             # Continue on a dirty working tree without asking
max_prompt_attempts: 0                # Version prompts before giving up (0 = unlimited)

# Logging and history
log_file: .relbump/relbump.log        # Append-only JSON log
log_level: info                       # debug | info | warn | error | none
state_dir: .relbump                   # Release history location
max_history_entries: 100              # History entries to retain
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"version_file":     "",
		"version_variable": "__version__",
		"manifest_file":    "pyproject.toml",
		"manifest_section": "project",
		"changelog_file":   "CHANGELOG.md",
		"changelog_title":  "# Changelog",
		"log_file":         ".relbump/relbump.log",
		"log_level":        "info",
		"git_command":      "git",
		// git_timeout bounds each git call so a hung push cannot block forever.
		"git_timeout":         "2m",
		"push":                true,
		"remote":              "",
		"skip_confirmations":  false,
		"max_prompt_attempts": 0, // 0 means keep asking until valid
		"state_dir":           ".relbump",
		"max_history_entries": 100,
	}
}
