package version

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/pelletier/go-toml"
)

// manifestValuePattern captures the quoted value of a `version = "..."` line.
var manifestValuePattern = regexp.MustCompile(`^[ \t]*version[ \t]*=[ \t]*(?:"([^"\r\n]*)"|'([^'\r\n]*)')`)

// WriteManifest replaces the version line inside the manifest's primary
// section. Lines outside that section are never altered, even when they
// assign a version of their own.
//
// The returned bool reports whether the manifest was rewritten. A manifest
// that is not configured or does not exist is a silent no-op. A primary
// section without a version line returns ErrManifestVersionNotFound and more
// than one version line returns ErrAmbiguousManifestVersion; in both cases
// the file is left as it was.
func (s *Store) WriteManifest(v Version) (bool, error) {
	if s.opts.ManifestPath == "" {
		return false, nil
	}

	data, err := os.ReadFile(s.opts.ManifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading manifest %s: %w", s.opts.ManifestPath, err)
	}

	start, end, err := locateManifestVersion(data, s.opts.ManifestSection)
	if err != nil {
		return false, fmt.Errorf("manifest %s [%s]: %w", s.opts.ManifestPath, s.opts.ManifestSection, err)
	}

	out := make([]byte, 0, len(data)+8)
	out = append(out, data[:start]...)
	out = append(out, v.String()...)
	out = append(out, data[end:]...)

	if err := writePreservingMode(s.opts.ManifestPath, out); err != nil {
		return false, err
	}
	return true, nil
}

// HasManifest reports whether a manifest is configured and present on disk.
func (s *Store) HasManifest() bool {
	if s.opts.ManifestPath == "" {
		return false
	}
	_, err := os.Stat(s.opts.ManifestPath)
	return err == nil
}

// Preflight checks that Write and WriteManifest can succeed without touching
// any file: the marker must carry an assignment and, when present, the
// manifest's primary section must not be ambiguous.
func (s *Store) Preflight() error {
	data, err := os.ReadFile(s.opts.MarkerPath)
	if err != nil {
		return fmt.Errorf("reading version file %s: %w", s.opts.MarkerPath, err)
	}
	if start, _ := s.valueSpan(data); start < 0 {
		return fmt.Errorf("version file %s: %w", s.opts.MarkerPath, ErrVersionNotFound)
	}

	if !s.HasManifest() {
		return nil
	}
	manifest, err := os.ReadFile(s.opts.ManifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", s.opts.ManifestPath, err)
	}
	if _, _, err := locateManifestVersion(manifest, s.opts.ManifestSection); err != nil {
		// A missing version line is skipped at write time, not fatal.
		if errors.Is(err, ErrManifestVersionNotFound) {
			return nil
		}
		return fmt.Errorf("manifest %s [%s]: %w", s.opts.ManifestPath, s.opts.ManifestSection, err)
	}
	return nil
}

// ManifestVersion returns the version declared in the manifest's primary
// section, decoded as TOML. It returns "" when no manifest is present.
func (s *Store) ManifestVersion() (string, error) {
	if !s.HasManifest() {
		return "", nil
	}

	tree, err := toml.LoadFile(s.opts.ManifestPath)
	if err != nil {
		return "", fmt.Errorf("parsing manifest %s: %w", s.opts.ManifestPath, err)
	}

	raw := tree.Get(s.opts.ManifestSection + ".version")
	if raw == nil {
		return "", nil
	}
	str, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("manifest %s: %s.version is %T, not a string", s.opts.ManifestPath, s.opts.ManifestSection, raw)
	}
	return str, nil
}

// locateManifestVersion scans data line by line, tracking bracketed section
// headers, and returns the byte span of the version value inside section.
func locateManifestVersion(data []byte, section string) (int, int, error) {
	var (
		current string
		spans   [][2]int
		unquote bool
		scan    tomlScanner
	)

	for offset := 0; offset < len(data); {
		next := len(data)
		line := data[offset:]
		if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
			next = offset + nl + 1
		}
		body := bytes.TrimRight(line, "\r")
		trimmed := bytes.TrimSpace(body)

		if !scan.topLevel() {
			scan.advance(body)
			offset = next
			continue
		}
		if name, ok := sectionHeader(trimmed); ok {
			current = name
			offset = next
			continue
		}
		scan.advance(body)
		if current == section && isVersionKey(trimmed) {
			m := manifestValuePattern.FindSubmatchIndex(body)
			switch {
			case m == nil:
				unquote = true
				spans = append(spans, [2]int{-1, -1})
			case m[2] >= 0:
				spans = append(spans, [2]int{offset + m[2], offset + m[3]})
			default:
				spans = append(spans, [2]int{offset + m[4], offset + m[5]})
			}
		}
		offset = next
	}

	switch {
	case len(spans) == 0:
		return -1, -1, ErrManifestVersionNotFound
	case len(spans) > 1:
		return -1, -1, fmt.Errorf("%w (%d found)", ErrAmbiguousManifestVersion, len(spans))
	case unquote:
		return -1, -1, fmt.Errorf("%w: version is not a quoted string", ErrManifestVersionNotFound)
	}
	return spans[0][0], spans[0][1], nil
}

// tomlScanner tracks the TOML state that spans lines: open arrays and
// multi-line strings. Section headers and keys only appear at top level.
type tomlScanner struct {
	depth int
	// multi is the closing delimiter while inside a multi-line string.
	multi string
}

func (s *tomlScanner) topLevel() bool {
	return s.depth == 0 && s.multi == ""
}

// advance updates the state over one line. Brackets inside strings and
// comments are ignored.
func (s *tomlScanner) advance(line []byte) {
	for i := 0; i < len(line); i++ {
		if s.multi != "" {
			switch {
			case bytes.HasPrefix(line[i:], []byte(s.multi)):
				i += len(s.multi) - 1
				s.multi = ""
			case s.multi == `"""` && line[i] == '\\':
				i++
			}
			continue
		}
		switch c := line[i]; c {
		case '#':
			return
		case '"', '\'':
			if delim := []byte{c, c, c}; bytes.HasPrefix(line[i:], delim) {
				s.multi = string(delim)
				i += len(delim) - 1
				continue
			}
			for i++; i < len(line) && line[i] != c; i++ {
				if c == '"' && line[i] == '\\' {
					i++
				}
			}
		case '[':
			s.depth++
		case ']':
			if s.depth > 0 {
				s.depth--
			}
		}
	}
}

// sectionHeader parses "[name]" and "[[name]]" lines. Array tables are
// returned with their brackets so they never equal a plain section name.
func sectionHeader(line []byte) (string, bool) {
	if len(line) == 0 || line[0] != '[' {
		return "", false
	}
	if bytes.HasPrefix(line, []byte("[[")) {
		end := bytes.Index(line, []byte("]]"))
		if end < 0 {
			return "", false
		}
		return "[[" + string(bytes.TrimSpace(line[2:end])) + "]]", true
	}
	end := bytes.IndexByte(line, ']')
	if end < 0 {
		return "", false
	}
	return string(bytes.TrimSpace(line[1:end])), true
}

// isVersionKey reports whether a trimmed line assigns the bare "version" key.
func isVersionKey(line []byte) bool {
	rest, ok := bytes.CutPrefix(line, []byte("version"))
	if !ok {
		return false
	}
	rest = bytes.TrimLeft(rest, " \t")
	return len(rest) > 0 && rest[0] == '='
}
