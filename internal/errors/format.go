package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the decorators used by formatError. The plain palette
// returns its input unchanged.
type palette struct {
	label, message, category, fix, usage, bullet, command func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	usage:    color.New(color.FgCyan, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
	command:  color.New(color.FgCyan).SprintFunc(),
}

var plain = palette{
	label: fmt.Sprint, message: fmt.Sprint, category: fmt.Sprint, fix: fmt.Sprint,
	usage: fmt.Sprint, bullet: fmt.Sprint, command: fmt.Sprint,
}

// commandIndent marks a remediation line as a shell command to run rather
// than an instruction.
const commandIndent = "  "

// FormatError formats a CLIError for display in the terminal.
// Colors follow fatih/color's detection, so output is plain when stdout is
// not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))
	for _, line := range err.Details {
		sb.WriteString("  " + line + "\n")
	}

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.command(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			if cmd, ok := strings.CutPrefix(step, commandIndent); ok {
				fmt.Fprintf(&sb, "      %s\n", p.command(cmd))
				continue
			}
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
