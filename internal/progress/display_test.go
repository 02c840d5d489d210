package progress

import (
	"bytes"
	"testing"

	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps      TerminalCapabilities
		wantCheck string
		wantSet   int
	}{
		"unicode": {caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true}, wantCheck: "✓", wantSet: 14},
		"ascii":   {caps: TerminalCapabilities{}, wantCheck: "[OK]", wantSet: 9},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := SelectSymbols(tt.caps)
			assert.Equal(t, tt.wantCheck, got.Checkmark)
			assert.Equal(t, tt.wantSet, got.SpinnerSet)
		})
	}
}

func TestStepDisplay_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := NewStepDisplay(&buf, PlainCapabilities(), "")

	add := []string{"add", "--", "a.py"}
	d.BeginStep(git.StepAdd, add)
	assert.Empty(t, buf.String(), "plain output prints nothing until the step ends")
	d.EndStep(git.StepResult{Step: git.StepAdd, Args: add})

	push := []string{"push"}
	d.BeginStep(git.StepPush, push)
	d.EndStep(git.StepResult{Step: git.StepPush, Args: push, ExitCode: 1})

	assert.Equal(t, "  [OK] git add -- a.py\n  [FAIL] git push\n", buf.String())
}

func TestStepDisplay_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := NewStepDisplay(&buf, TerminalCapabilities{Width: 30}, "git")
	d.EndStep(git.StepResult{Args: []string{"commit", "-m", "v10.20.30 release with a long message"}})

	line := buf.String()
	assert.Contains(t, line, "...")
	assert.LessOrEqual(t, len(line), 30)
}

func TestStepDisplay_ImplementsObserver(t *testing.T) {
	t.Parallel()

	var _ git.StepObserver = NewStepDisplay(&bytes.Buffer{}, PlainCapabilities(), "git")
}
