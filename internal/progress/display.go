package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

const spinnerInterval = 100 * time.Millisecond

// StepDisplay shows git release steps as they run. It implements
// git.StepObserver. A spinner is used only when the capabilities report a
// TTY; otherwise each step prints a single line when it finishes.
type StepDisplay struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	gitCmd  string

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewStepDisplay creates a display writing to out. gitCmd prefixes each
// rendered command line.
func NewStepDisplay(out io.Writer, caps TerminalCapabilities, gitCmd string) *StepDisplay {
	if gitCmd == "" {
		gitCmd = "git"
	}
	return &StepDisplay{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
		gitCmd:  gitCmd,
	}
}

// BeginStep starts the spinner for a step on interactive terminals.
func (d *StepDisplay) BeginStep(step git.Step, args []string) {
	if !d.caps.IsTTY {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	s := spinner.New(spinner.CharSets[d.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(d.out))
	s.Suffix = " " + d.commandLine(args)
	s.Start()
	d.spinner = s
}

// EndStep stops the spinner and prints the step's final status line.
func (d *StepDisplay) EndStep(result git.StepResult) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}

	mark := d.symbols.Checkmark
	if !result.OK() {
		mark = d.symbols.Failure
	}
	if d.caps.SupportsColor {
		if result.OK() {
			mark = color.GreenString(mark)
		} else {
			mark = color.RedString(mark)
		}
	}
	fmt.Fprintf(d.out, "  %s %s\n", mark, d.commandLine(result.Args))
}

func (d *StepDisplay) commandLine(args []string) string {
	line := d.gitCmd + " " + strings.Join(args, " ")
	// leave room for the indent and the longest status marker
	if limit := d.caps.Width - 10; limit > 3 && len(line) > limit {
		line = line[:limit-3] + "..."
	}
	return line
}
