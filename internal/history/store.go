// Package history keeps a YAML record of every relbump run: which version
// was released, how the run ended and which git steps completed. It is
// pruned to a fixed number of entries and never consulted by the workflow.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// HistoryFileName is the file kept inside the state directory.
const HistoryFileName = "history.yaml"

// Run statuses recorded in HistoryEntry.Status.
const (
	StatusReleased = "released"
	StatusDryRun   = "dry-run"
	StatusAborted  = "aborted"
	StatusFailed   = "failed"
)

// HistoryEntry records one run.
type HistoryEntry struct {
	Timestamp  time.Time `yaml:"timestamp"`
	RunID      string    `yaml:"run_id,omitempty"`
	OldVersion string    `yaml:"old_version,omitempty"`
	NewVersion string    `yaml:"new_version,omitempty"`
	Status     string    `yaml:"status"`
	Reason     string    `yaml:"reason,omitempty"`
	Changes    int       `yaml:"changes"`
	Files      []string  `yaml:"files,omitempty"`
	Steps      []string  `yaml:"steps,omitempty"`
	Error      string    `yaml:"error,omitempty"`
	ExitCode   int       `yaml:"exit_code"`
	Duration   string    `yaml:"duration"`
}

// HistoryFile is the on-disk document.
type HistoryFile struct {
	Entries []HistoryEntry `yaml:"entries"`
}

// HistoryPath returns the history file path for stateDir.
func HistoryPath(stateDir string) string {
	return filepath.Join(stateDir, HistoryFileName)
}

// LoadHistory reads the history file. A missing file yields an empty history.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	data, err := os.ReadFile(HistoryPath(stateDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &HistoryFile{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", HistoryPath(stateDir), err)
	}
	return &history, nil
}

// SaveHistory writes the history file through a temporary file and rename,
// so a crash never leaves a truncated document behind.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	tmp, err := os.CreateTemp(stateDir, HistoryFileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing history: %w", err)
	}
	if err := os.Rename(tmp.Name(), HistoryPath(stateDir)); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}

// ClearHistory removes the history file.
func ClearHistory(stateDir string) error {
	err := os.Remove(HistoryPath(stateDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Filter returns the entries matching status ("" = all), limited to the
// most recent limit entries (0 = no limit). Order is preserved.
func Filter(entries []HistoryEntry, status string, limit int) []HistoryEntry {
	var result []HistoryEntry
	for _, entry := range entries {
		if status == "" || entry.Status == status {
			result = append(result, entry)
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
