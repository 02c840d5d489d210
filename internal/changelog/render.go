package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderSection writes a Keep a Changelog style release section:
//
//	## [1.0.0] - 2024-01-01
//	### Added
//	- X
//
// Categories without entries are skipped. The output always ends with a
// newline.
func RenderSection(s Section, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "## [%s] - %s\n", s.Version, s.Date); err != nil {
		return err
	}

	for _, cat := range Categories() {
		entries := s.Changes.Get(cat)
		if len(entries) == 0 {
			continue
		}
		if err := renderCategory(cat.Title(), entries, w); err != nil {
			return fmt.Errorf("rendering %s: %w", cat, err)
		}
	}

	return nil
}

// RenderSectionString is a convenience function that renders to a string.
func RenderSectionString(s Section) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = RenderSection(s, &b)
	return b.String()
}

// renderCategory writes a single category heading with its bullets.
func renderCategory(name string, entries []string, w io.Writer) error {
	if _, err := io.WriteString(w, "### "+name+"\n"); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := io.WriteString(w, "- "+entry+"\n"); err != nil {
			return err
		}
	}

	return nil
}
