// Package workflow drives an interactive release bump.
//
// The Controller walks a fixed state machine:
//
//	Start → ReadVersion → Suggest → Prompt → Validate{reject→Prompt}
//	  → CleanCheck{dirty→ConfirmOverride{no→Abort}} → CollectChanges
//	  → Preview → ApplyEdits → Record → Done
//
// Nothing is written before ApplyEdits, so every abort leaves the project
// untouched. Failures from ApplyEdits onward are not rolled back; the
// Outcome lists what was changed so the operator can reconcile by hand.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/ariel-frischer/relbump/internal/changelog"
	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/version"
)

// maxListedFiles bounds the dirty-file listing shown before the override prompt.
const maxListedFiles = 10

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	noteColor    = color.New(color.Faint)
)

// Options configures a Controller.
type Options struct {
	Store     *version.Store
	Changelog *changelog.Writer
	Recorder  *git.Recorder

	// In and Out are the operator's line source and sink.
	In  io.Reader
	Out io.Writer

	// Logger receives one entry per state transition (default no-op).
	Logger *zap.Logger

	// RepoDir locates the repository for the branch banner ("" = working directory).
	RepoDir string

	// NewVersion skips the version prompt. It is still validated.
	NewVersion string
	// DryRun stops after the preview without writing files or running git.
	DryRun bool
	// AssumeYes answers the dirty-tree override with yes.
	AssumeYes bool
	// MaxAttempts bounds version prompts; 0 means unlimited.
	MaxAttempts int
	// Plain disables styled preview output.
	Plain bool

	// Now supplies the release date (default time.Now).
	Now func() time.Time
}

// Outcome is the terminal report of a run.
type Outcome struct {
	State           State
	Reason          AbortReason
	OldVersion      version.Version
	NewVersion      version.Version
	Date            string
	Changes         changelog.Changes
	UpdatedFiles    []string
	ManifestSkipped bool
	DryRun          bool
	Release         *git.ReleaseResult
	Err             error
}

// Controller runs the bump workflow once.
type Controller struct {
	opts   Options
	prompt *Prompter
	log    *zap.Logger

	state      State
	suggested  version.Version
	candidate  string
	attempts   int
	lastReject AbortReason
	outcome    Outcome
}

// New creates a Controller. Store, Changelog and Recorder are required.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	return &Controller{
		opts:   opts,
		prompt: NewPrompter(opts.In, opts.Out),
		log:    opts.Logger,
		state:  StateStart,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Run walks the state machine to a terminal state. The returned error is
// non-nil only for StateFailed; aborts carry their reason in the Outcome.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	c.log.Info("workflow started", zap.Bool("dry_run", c.opts.DryRun))

	for !c.state.Terminal() {
		if err := ctx.Err(); err != nil {
			c.transition(c.fail(fmt.Errorf("interrupted: %w", err)))
			break
		}
		c.transition(c.step(ctx))
	}

	c.outcome.State = c.state
	fields := []zap.Field{
		zap.String("state", c.state.String()),
		zap.String("old_version", c.outcome.OldVersion.String()),
		zap.String("new_version", c.outcome.NewVersion.String()),
	}
	switch c.state {
	case StateAborted:
		c.log.Warn("workflow aborted", append(fields, zap.String("reason", string(c.outcome.Reason)))...)
	case StateFailed:
		c.log.Error("workflow failed", append(fields, zap.Error(c.outcome.Err))...)
	default:
		c.log.Info("workflow finished", append(fields, zap.Strings("files", c.outcome.UpdatedFiles))...)
	}
	return c.outcome, c.outcome.Err
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	c.log.Info("state transition", zap.String("from", c.state.String()), zap.String("to", next.String()))
	c.state = next
}

// step performs the work of the current state and returns the next one.
func (c *Controller) step(ctx context.Context) State {
	switch c.state {
	case StateStart:
		return c.start()
	case StateReadVersion:
		return c.readVersion()
	case StateSuggest:
		c.suggested = version.SuggestNext(c.outcome.OldVersion)
		return StatePrompt
	case StatePrompt:
		return c.promptVersion()
	case StateValidate:
		return c.validate()
	case StateCleanCheck:
		return c.cleanCheck(ctx)
	case StateConfirmOverride:
		return c.confirmOverride()
	case StateCollectChanges:
		return c.collectChanges()
	case StatePreview:
		return c.preview()
	case StateApplyEdits:
		return c.applyEdits()
	case StateRecord:
		return c.record(ctx)
	default:
		return c.fail(fmt.Errorf("no transition from state %s", c.state))
	}
}

func (c *Controller) start() State {
	branch, err := git.CurrentBranch(c.opts.RepoDir)
	if err != nil {
		c.log.Debug("branch unavailable", zap.Error(err))
		return StateReadVersion
	}
	if branch != "" {
		c.prompt.Printf("On branch %s\n", branch)
	}
	return StateReadVersion
}

func (c *Controller) readVersion() State {
	current, err := c.opts.Store.Read()
	if err != nil {
		return c.fail(err)
	}
	if err := c.opts.Store.Preflight(); err != nil {
		return c.fail(err)
	}

	c.outcome.OldVersion = current
	c.log.Info("current version", zap.String("version", current.String()), zap.String("file", c.opts.Store.MarkerPath()))
	c.prompt.Printf("Current version: %s\n", current)
	return StateSuggest
}

func (c *Controller) promptVersion() State {
	if c.opts.NewVersion != "" {
		if c.attempts > 0 {
			return c.abort(c.lastReject)
		}
		c.attempts++
		c.candidate = c.opts.NewVersion
		c.prompt.Printf("New version: %s\n", c.candidate)
		return StateValidate
	}

	if c.opts.MaxAttempts > 0 && c.attempts >= c.opts.MaxAttempts {
		return c.abort(c.lastReject)
	}

	answer, err := c.prompt.Ask("New version (q to quit)", c.suggested.String())
	if errors.Is(err, ErrInputClosed) {
		c.prompt.Printf("\n")
		if c.lastReject != ReasonNone {
			return c.abort(c.lastReject)
		}
		return c.abort(ReasonInputClosed)
	}
	if err != nil {
		return c.fail(err)
	}
	if strings.EqualFold(answer, "q") {
		return c.abort(ReasonDeclined)
	}

	c.attempts++
	c.candidate = answer
	return StateValidate
}

func (c *Controller) validate() State {
	if !version.Validate(c.candidate) {
		c.reject(ReasonInvalidVersion, "%q is not a valid version, expected MAJOR.MINOR.PATCH", c.candidate)
		return StatePrompt
	}

	next, err := version.Parse(c.candidate)
	if err != nil {
		c.reject(ReasonInvalidVersion, "%q: %v", c.candidate, err)
		return StatePrompt
	}
	if next == c.outcome.OldVersion {
		c.reject(ReasonUnchangedVersion, "%s is already the current version", next)
		return StatePrompt
	}
	if version.Compare(next, c.outcome.OldVersion) < 0 {
		warnColor.Fprintf(c.prompt.Out(), "Warning: %s is lower than the current version %s\n", next, c.outcome.OldVersion)
		c.log.Warn("new version is lower than current",
			zap.String("new_version", next.String()),
			zap.String("old_version", c.outcome.OldVersion.String()))
	}

	c.outcome.NewVersion = next
	c.lastReject = ReasonNone
	return StateCleanCheck
}

func (c *Controller) reject(reason AbortReason, format string, args ...any) {
	c.lastReject = reason
	msg := fmt.Sprintf(format, args...)
	warnColor.Fprintf(c.prompt.Out(), "Rejected: %s\n", msg)
	c.log.Warn("version rejected", zap.String("reason", string(reason)), zap.String("candidate", c.candidate))
}

func (c *Controller) cleanCheck(ctx context.Context) State {
	files, err := c.opts.Recorder.Status(ctx)
	if err != nil {
		warnColor.Fprintf(c.prompt.Out(), "Warning: could not inspect the working tree: %v\n", err)
		c.log.Warn("working tree check failed", zap.Error(err))
	} else if len(files) == 0 {
		return StateCollectChanges
	} else {
		warnColor.Fprintf(c.prompt.Out(), "Working tree has %d uncommitted change(s):\n", len(files))
		for i, f := range files {
			if i == maxListedFiles {
				c.prompt.Printf("  ... and %d more\n", len(files)-maxListedFiles)
				break
			}
			c.prompt.Printf("  %s\n", f)
		}
		c.log.Warn("working tree is dirty", zap.Int("files", len(files)))
	}

	if c.opts.DryRun {
		return StateCollectChanges
	}
	return StateConfirmOverride
}

func (c *Controller) confirmOverride() State {
	if c.opts.AssumeYes {
		c.prompt.Printf("Continuing anyway (--yes)\n")
		return StateCollectChanges
	}

	ok, err := c.prompt.Confirm("Continue anyway?")
	if errors.Is(err, ErrInputClosed) {
		c.prompt.Printf("\n")
		return c.abort(ReasonInputClosed)
	}
	if err != nil {
		return c.fail(err)
	}
	if !ok {
		return c.abort(ReasonDeclined)
	}
	return StateCollectChanges
}

func (c *Controller) collectChanges() State {
	var changes changelog.Changes
	for _, cat := range changelog.Categories() {
		entries, err := c.prompt.CollectList(cat.Title())
		if errors.Is(err, ErrInputClosed) {
			return c.abort(ReasonInputClosed)
		}
		if err != nil {
			return c.fail(err)
		}
		changes = changes.Set(cat, entries)
	}

	c.outcome.Changes = changes
	c.outcome.Date = c.opts.Now().Format(changelog.DateFormat)
	c.log.Info("changes collected",
		zap.Int("added", len(changes.Added)),
		zap.Int("changed", len(changes.Changed)),
		zap.Int("fixed", len(changes.Fixed)))
	return StatePreview
}

func (c *Controller) preview() State {
	out := c.prompt.Out()
	section := changelog.Section{
		Version: c.outcome.NewVersion.String(),
		Date:    c.outcome.Date,
		Changes: c.outcome.Changes,
	}

	c.prompt.Printf("\n")
	if err := changelog.FormatSection(section, out, changelog.FormatOptions{Plain: c.opts.Plain}); err != nil {
		return c.fail(fmt.Errorf("rendering preview: %w", err))
	}

	if !c.opts.DryRun {
		return StateApplyEdits
	}

	c.outcome.DryRun = true
	paths := c.plannedPaths()
	noteColor.Fprintf(out, "\nDry run: %s -> %s, nothing written\n", c.outcome.OldVersion, c.outcome.NewVersion)
	c.prompt.Printf("Would update:\n")
	for _, p := range paths {
		c.prompt.Printf("  %s\n", p)
	}
	c.prompt.Printf("Would run:\n")
	record := git.ReleaseRecord{Version: c.outcome.NewVersion.String(), Paths: paths}
	for _, s := range c.opts.Recorder.Plan(record) {
		c.prompt.Printf("  %s\n", s.Command(c.opts.Recorder.GitCommand()))
	}
	return StateDone
}

func (c *Controller) plannedPaths() []string {
	paths := []string{c.opts.Store.MarkerPath()}
	if c.opts.Store.HasManifest() {
		paths = append(paths, c.opts.Store.ManifestPath())
	}
	return append(paths, c.opts.Changelog.Path())
}

func (c *Controller) applyEdits() State {
	next := c.outcome.NewVersion

	if err := c.opts.Store.Write(next); err != nil {
		return c.fail(err)
	}
	c.updated(c.opts.Store.MarkerPath())

	wrote, err := c.opts.Store.WriteManifest(next)
	switch {
	case errors.Is(err, version.ErrManifestVersionNotFound):
		c.outcome.ManifestSkipped = true
		warnColor.Fprintf(c.prompt.Out(), "Warning: %v; manifest left unchanged\n", err)
		c.log.Warn("manifest skipped", zap.Error(err))
	case err != nil:
		return c.fail(c.partial(err))
	case wrote:
		c.updated(c.opts.Store.ManifestPath())
	default:
		c.log.Info("no manifest to update", zap.String("file", c.opts.Store.ManifestPath()))
	}

	if err := c.opts.Changelog.Append(next.String(), c.outcome.Date, c.outcome.Changes); err != nil {
		return c.fail(c.partial(err))
	}
	c.updated(c.opts.Changelog.Path())
	return StateRecord
}

func (c *Controller) updated(path string) {
	c.outcome.UpdatedFiles = append(c.outcome.UpdatedFiles, path)
	c.log.Info("file updated", zap.String("file", path), zap.String("version", c.outcome.NewVersion.String()))
}

// partial annotates err with the files already rewritten.
func (c *Controller) partial(err error) error {
	if len(c.outcome.UpdatedFiles) == 0 {
		return err
	}
	return fmt.Errorf("%w (already updated: %s)", err, strings.Join(c.outcome.UpdatedFiles, ", "))
}

func (c *Controller) record(ctx context.Context) State {
	result := c.opts.Recorder.CommitTagPush(ctx, git.ReleaseRecord{
		Version: c.outcome.NewVersion.String(),
		Paths:   c.outcome.UpdatedFiles,
	})
	c.outcome.Release = &result

	if err := result.Err(); err != nil {
		return c.fail(err)
	}

	successColor.Fprintf(c.prompt.Out(), "Released %s\n", result.Record.Tag())
	return StateDone
}

func (c *Controller) abort(reason AbortReason) State {
	c.outcome.Reason = reason
	return StateAborted
}

func (c *Controller) fail(err error) State {
	c.outcome.Err = err
	return StateFailed
}
