package git

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Step identifies one git invocation in the release sequence.
type Step string

const (
	StepAdd      Step = "add"
	StepCommit   Step = "commit"
	StepTag      Step = "tag"
	StepPush     Step = "push"
	StepPushTags Step = "push-tags"
)

// ReleaseRecord is what gets committed and tagged: the files modified by the
// bump and the released version (without the "v" prefix).
type ReleaseRecord struct {
	Version string
	Paths   []string
}

// Tag returns the tag name, "v" + version.
func (r ReleaseRecord) Tag() string {
	return "v" + r.Version
}

// CommitMessage returns the release commit message.
func (r ReleaseRecord) CommitMessage() string {
	return r.Tag() + " release"
}

// StepResult is the outcome of a single git invocation.
type StepResult struct {
	Step     Step
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// OK reports whether the step exited zero.
func (s StepResult) OK() bool {
	return s.Err == nil && s.ExitCode == 0
}

// Command returns the step as a shell command line. Arguments containing
// whitespace are double quoted.
func (s StepResult) Command(gitCmd string) string {
	parts := make([]string, 0, len(s.Args)+1)
	parts = append(parts, gitCmd)
	for _, a := range s.Args {
		if a == "" || strings.ContainsAny(a, " \t\n") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// StepError describes the first failing step of a release.
type StepError struct {
	Step     Step
	ExitCode int
	Stderr   string
	Err      error
}

func (e *StepError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if e.Err != nil {
		if detail == "" {
			return fmt.Sprintf("git %s failed: %v", e.Step, e.Err)
		}
		return fmt.Sprintf("git %s failed: %v, detail: %s", e.Step, e.Err, detail)
	}
	if detail == "" {
		return fmt.Sprintf("git %s failed: exit status %d", e.Step, e.ExitCode)
	}
	return fmt.Sprintf("git %s failed: exit status %d, detail: %s", e.Step, e.ExitCode, detail)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ReleaseResult reports each step that ran, in order, and the steps that
// were skipped after a failure. Completed steps are never rolled back.
type ReleaseResult struct {
	Record  ReleaseRecord
	Steps   []StepResult
	Skipped []StepResult
}

// Failed returns the failing step, or nil when every step succeeded.
func (r ReleaseResult) Failed() *StepResult {
	for i := range r.Steps {
		if !r.Steps[i].OK() {
			return &r.Steps[i]
		}
	}
	return nil
}

// Completed returns the steps that exited zero.
func (r ReleaseResult) Completed() []StepResult {
	var done []StepResult
	for _, s := range r.Steps {
		if s.OK() {
			done = append(done, s)
		}
	}
	return done
}

// Err returns a *StepError for the failing step, or nil.
func (r ReleaseResult) Err() error {
	failed := r.Failed()
	if failed == nil {
		return nil
	}
	return &StepError{Step: failed.Step, ExitCode: failed.ExitCode, Stderr: failed.Stderr, Err: failed.Err}
}

// StepObserver is notified around every step. It is used for progress
// display; implementations must not block.
type StepObserver interface {
	BeginStep(step Step, args []string)
	EndStep(result StepResult)
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	// Dir is the working directory for git commands ("" = current directory).
	Dir string
	// GitCommand is the git executable (default "git").
	GitCommand string
	// Remote is pushed to explicitly when set; otherwise git's defaults apply.
	Remote string
	// NoPush stops the sequence after tagging.
	NoPush bool
	// Runner executes commands (default ExecRunner without timeout).
	Runner CommandRunner
	// Logger receives one entry per step (default no-op).
	Logger *zap.Logger
	// Observer is notified around each step (optional).
	Observer StepObserver
}

// Recorder stages, commits, tags and pushes a release through the git CLI.
type Recorder struct {
	opts RecorderOptions
}

// NewRecorder creates a Recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	if opts.GitCommand == "" {
		opts.GitCommand = "git"
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Recorder{opts: opts}
}

// GitCommand returns the configured git executable.
func (r *Recorder) GitCommand() string {
	return r.opts.GitCommand
}

// Status returns the paths reported by 'git status --porcelain'.
func (r *Recorder) Status(ctx context.Context) ([]string, error) {
	var stdout, stderr bytes.Buffer
	code, err := r.opts.Runner.Run(ctx, r.opts.Dir, &stdout, &stderr, r.opts.GitCommand, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("checking working tree: %w", err)
	}
	if code != 0 {
		return nil, &StepError{Step: "status", ExitCode: code, Stderr: stderr.String()}
	}
	return parseStatusOutput(stdout.Bytes()), nil
}

// CheckClean reports whether the working tree has no pending modifications.
// The result is advisory; nothing in the release sequence enforces it.
func (r *Recorder) CheckClean(ctx context.Context) (bool, error) {
	files, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	return len(files) == 0, nil
}

// Plan returns the git arguments for each step of the release, in order.
func (r *Recorder) Plan(record ReleaseRecord) []StepResult {
	steps := []StepResult{
		{Step: StepAdd, Args: append([]string{"add", "--"}, record.Paths...)},
		{Step: StepCommit, Args: []string{"commit", "-m", record.CommitMessage()}},
		{Step: StepTag, Args: []string{"tag", record.Tag()}},
	}
	if r.opts.NoPush {
		return steps
	}

	push := []string{"push"}
	pushTags := []string{"push", "--tags"}
	if r.opts.Remote != "" {
		push = []string{"push", r.opts.Remote, "HEAD"}
		pushTags = []string{"push", r.opts.Remote, "--tags"}
	}
	return append(steps,
		StepResult{Step: StepPush, Args: push},
		StepResult{Step: StepPushTags, Args: pushTags},
	)
}

// CommitTagPush runs add, commit, tag, push and push --tags in that order.
// The first step that fails, by non-zero exit or by not running at all,
// stops the sequence: its stderr is logged and the remaining steps are
// reported as skipped. Steps already completed stay in effect.
func (r *Recorder) CommitTagPush(ctx context.Context, record ReleaseRecord) ReleaseResult {
	result := ReleaseResult{Record: record}
	log := r.opts.Logger.With(zap.String("tag", record.Tag()))

	plan := r.Plan(record)
	for i, step := range plan {
		if r.opts.Observer != nil {
			r.opts.Observer.BeginStep(step.Step, step.Args)
		}

		step = r.runStep(ctx, step)
		result.Steps = append(result.Steps, step)

		if r.opts.Observer != nil {
			r.opts.Observer.EndStep(step)
		}

		if !step.OK() {
			log.Error("git step failed",
				zap.String("step", string(step.Step)),
				zap.Strings("args", step.Args),
				zap.Int("exit_code", step.ExitCode),
				zap.String("stderr", strings.TrimSpace(step.Stderr)),
				zap.Error(step.Err),
			)
			result.Skipped = append(result.Skipped, plan[i+1:]...)
			return result
		}
		log.Info("git step completed", zap.String("step", string(step.Step)), zap.Strings("args", step.Args))
	}

	return result
}

// runStep executes one planned step and fills in its outcome.
func (r *Recorder) runStep(ctx context.Context, step StepResult) StepResult {
	var stdout, stderr bytes.Buffer
	code, err := r.opts.Runner.Run(ctx, r.opts.Dir, &stdout, &stderr, r.opts.GitCommand, step.Args...)
	step.ExitCode = code
	step.Err = err
	step.Stderr = stderr.String()
	return step
}
