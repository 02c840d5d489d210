package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned when the line source is exhausted before an
// answer was given.
var ErrInputClosed = errors.New("input closed")

// Prompter reads operator answers line by line from an injected source and
// writes prompts to an injected sink. It never touches the process console
// directly, so scripted input drives it in tests.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter wraps in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Out returns the sink prompts are written to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Printf writes formatted text to the sink.
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// ReadLine returns the next line without its line terminator or surrounding
// whitespace. A final line without a newline is still returned; only an
// exhausted source yields ErrInputClosed.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrInputClosed
			}
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Ask prints question with def shown in brackets and returns the answer.
// A blank answer selects def.
func (p *Prompter) Ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	answer, err := p.ReadLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question that defaults to no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	answer, err := p.ReadLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// CollectList reads entries for label until a blank line. An exhausted
// source returns the entries read so far with ErrInputClosed.
func (p *Prompter) CollectList(label string) ([]string, error) {
	fmt.Fprintf(p.out, "%s (one per line, blank line to finish):\n", label)

	var entries []string
	for {
		fmt.Fprint(p.out, "  - ")
		line, err := p.ReadLine()
		if errors.Is(err, ErrInputClosed) {
			fmt.Fprintln(p.out)
			return entries, err
		}
		if err != nil {
			return entries, err
		}
		if line == "" {
			return entries, nil
		}
		entries = append(entries, line)
	}
}
