package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps category names to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	CategoryAdded:   {Color: color.New(color.FgGreen), Icon: "✓"},
	CategoryChanged: {Color: color.New(color.FgBlue), Icon: "~"},
	CategoryFixed:   {Color: color.New(color.FgYellow), Icon: "⚡"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatSection writes a terminal preview of a release section: a bold
// version header followed by color-coded categories. With Plain set the
// output is the same markdown that will be written to the changelog.
func FormatSection(s Section, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		return RenderSection(s, w)
	}

	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(s.Version, s.Date, w); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if s.Changes.IsEmpty() {
		_, err := fmt.Fprintln(w, color.New(color.Faint).Sprint("  (no release notes)"))
		return err
	}

	for _, cat := range Categories() {
		entries := s.Changes.Get(cat)
		if len(entries) == 0 {
			continue
		}
		if err := writeCategorySection(cat, entries, w, width); err != nil {
			return err
		}
	}

	return nil
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(version, date string, w io.Writer) error {
	header := fmt.Sprintf("v%s", version)
	if date != "" {
		header = fmt.Sprintf("v%s (%s)", version, date)
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(category Category, entries []string, w io.Writer, width int) error {
	style := categoryStyles[category]
	colored := style.Color.SprintFunc()

	if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(category.Title())); err != nil {
		return err
	}

	prefix := "  - "
	for _, entry := range entries {
		wrapped := wrapText(entry, width-len(prefix), "    ")
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped)); err != nil {
			return err
		}
	}

	return nil
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
