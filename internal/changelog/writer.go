package changelog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultTitle is the first line of a newly created changelog.
const DefaultTitle = "# Changelog"

// DateFormat is the layout used for section dates.
const DateFormat = "2006-01-02"

// Writer inserts release sections into a markdown changelog, newest first.
type Writer struct {
	path  string
	title string
}

// NewWriter creates a Writer for the changelog at path. title is used only
// when the file does not exist yet; an empty title selects DefaultTitle.
func NewWriter(path, title string) *Writer {
	if title == "" {
		title = DefaultTitle
	}
	return &Writer{path: path, title: title}
}

// Path returns the changelog file path.
func (w *Writer) Path() string {
	return w.path
}

// Append renders a section for version and inserts it directly beneath the
// changelog's first line, above every existing entry. Everything after the
// title line is kept byte for byte. A missing or empty changelog is created
// with the default title.
func (w *Writer) Append(version, date string, changes Changes) error {
	existing, err := os.ReadFile(w.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading changelog %s: %w", w.path, err)
	}

	section := RenderSectionString(Section{Version: version, Date: date, Changes: changes})
	out := insertSection(existing, w.title, section)

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(w.path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(w.path, out, mode); err != nil {
		return fmt.Errorf("writing changelog %s: %w", w.path, err)
	}
	return nil
}

// insertSection places section after the first line of existing. The result
// is: title line, blank line, section, then the untouched remainder. A blank
// line separates the section from the remainder when it does not already
// start with one.
func insertSection(existing []byte, defaultTitle, section string) []byte {
	if len(existing) == 0 {
		existing = []byte(defaultTitle + "\n")
	}

	title, rest := existing, []byte(nil)
	if nl := bytes.IndexByte(existing, '\n'); nl >= 0 {
		title, rest = existing[:nl+1], existing[nl+1:]
	}

	eol := "\n"
	if bytes.HasSuffix(title, []byte("\r\n")) {
		eol = "\r\n"
		section = strings.ReplaceAll(section, "\n", eol)
	}

	var buf bytes.Buffer
	buf.Grow(len(existing) + len(section) + 8)
	buf.Write(title)
	if !bytes.HasSuffix(title, []byte("\n")) {
		buf.WriteString(eol)
	}
	buf.WriteString(eol)
	buf.WriteString(section)
	if len(rest) > 0 && !startsWithBlankLine(rest) {
		buf.WriteString(eol)
	}
	buf.Write(rest)
	return buf.Bytes()
}

// startsWithBlankLine reports whether b begins with an empty line.
func startsWithBlankLine(b []byte) bool {
	return bytes.HasPrefix(b, []byte("\n")) || bytes.HasPrefix(b, []byte("\r\n"))
}
