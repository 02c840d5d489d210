package version

import (
	"fmt"
	"os"
	"regexp"
)

// DefaultVariable is the assignment name looked up in the marker file.
const DefaultVariable = "__version__"

// DefaultManifestSection is the manifest table that owns the project version.
const DefaultManifestSection = "project"

// StoreOptions locates the files a Store reads and writes.
type StoreOptions struct {
	// MarkerPath is the source file holding the version assignment. Required.
	MarkerPath string
	// Variable is the assigned name (default "__version__").
	Variable string
	// ManifestPath is the optional manifest. Empty disables manifest updates.
	ManifestPath string
	// ManifestSection is the bracketed section owning the version (default "project").
	ManifestSection string
}

// Store reads and writes the version held in the marker file and manifest.
type Store struct {
	opts    StoreOptions
	pattern *regexp.Regexp
}

// NewStore creates a Store for the given files.
func NewStore(opts StoreOptions) *Store {
	if opts.Variable == "" {
		opts.Variable = DefaultVariable
	}
	if opts.ManifestSection == "" {
		opts.ManifestSection = DefaultManifestSection
	}
	return &Store{
		opts:    opts,
		pattern: assignmentPattern(opts.Variable),
	}
}

// assignmentPattern matches `NAME = "x"` (optionally `NAME: str = 'x'`) at the
// start of a line. Group 1 is everything before the opening quote, group 2
// the double quoted value and group 3 the single quoted value.
func assignmentPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(name) +
		`[ \t]*(?::[^=\r\n]*)?=[ \t]*)(?:"([^"\r\n]*)"|'([^'\r\n]*)')`)
}

// MarkerPath returns the marker file path.
func (s *Store) MarkerPath() string {
	return s.opts.MarkerPath
}

// ManifestPath returns the manifest file path, or "" when none is configured.
func (s *Store) ManifestPath() string {
	return s.opts.ManifestPath
}

// Read returns the version assigned in the marker file. A marker without an
// assignment yields Zero. A missing marker file, or an assigned value that is
// not a strict version, is an error.
func (s *Store) Read() (Version, error) {
	data, err := os.ReadFile(s.opts.MarkerPath)
	if err != nil {
		return Version{}, fmt.Errorf("reading version file %s: %w", s.opts.MarkerPath, err)
	}

	start, end := s.valueSpan(data)
	if start < 0 {
		return Zero, nil
	}

	v, err := Parse(string(data[start:end]))
	if err != nil {
		return Version{}, fmt.Errorf("version file %s: %w", s.opts.MarkerPath, err)
	}
	return v, nil
}

// Write replaces the value of the first version assignment in the marker
// file. Prefix spacing and quote style are kept.
func (s *Store) Write(v Version) error {
	data, err := os.ReadFile(s.opts.MarkerPath)
	if err != nil {
		return fmt.Errorf("reading version file %s: %w", s.opts.MarkerPath, err)
	}

	start, end := s.valueSpan(data)
	if start < 0 {
		return fmt.Errorf("version file %s: %w", s.opts.MarkerPath, ErrVersionNotFound)
	}

	out := make([]byte, 0, len(data)+8)
	out = append(out, data[:start]...)
	out = append(out, v.String()...)
	out = append(out, data[end:]...)

	return writePreservingMode(s.opts.MarkerPath, out)
}

// valueSpan returns the byte offsets of the first assigned value, or -1, -1.
func (s *Store) valueSpan(data []byte) (int, int) {
	m := s.pattern.FindSubmatchIndex(data)
	if m == nil {
		return -1, -1
	}
	if m[4] >= 0 {
		return m[4], m[5]
	}
	return m[6], m[7]
}

// writePreservingMode rewrites path with data, keeping its permission bits.
func writePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
