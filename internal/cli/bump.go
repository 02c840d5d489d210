package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ariel-frischer/relbump/internal/config"
	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/history"
	"github.com/ariel-frischer/relbump/internal/oplog"
	"github.com/ariel-frischer/relbump/internal/progress"
	"github.com/ariel-frischer/relbump/internal/version"
	"github.com/ariel-frischer/relbump/internal/workflow"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runBump(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := checkBumpPrerequisites(cfg); err != nil {
		return err
	}

	if err := ensureStateDirs(cfg); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "creating state directory",
			"Check the state_dir and log_file settings")
	}
	logger, err := oplog.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "opening log file",
			"Check the log_file setting or set log_level: none")
	}
	defer logger.Close()
	git.SetDebugLogger(logger.Sugar().Debugf)
	defer git.SetDebugLogger(nil)

	newVersion, _ := cmd.Flags().GetString("new-version")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	assumeYes, _ := cmd.Flags().GetBool("yes")
	noPush, _ := cmd.Flags().GetBool("no-push")

	caps := terminal(cmd)
	display := progress.NewStepDisplay(cmd.OutOrStdout(), caps, cfg.GitCommand)

	ctrl := workflow.New(workflow.Options{
		Store:       newStore(cfg),
		Changelog:   newChangelog(cfg),
		Recorder:    newRecorder(cfg, noPush, logger.Logger, display),
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Logger:      logger.Logger,
		NewVersion:  newVersion,
		DryRun:      dryRun,
		AssumeYes:   assumeYes || cfg.SkipConfirmations,
		MaxAttempts: cfg.MaxPromptAttempts,
		Plain:       !caps.SupportsColor,
		Now:         env.now,
	})

	started := env.now()
	outcome, _ := ctrl.Run(cmd.Context())
	result := outcomeError(cmd, cfg, outcome, newVersion)

	writer := history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)
	writer.Warnings = cmd.ErrOrStderr()
	writer.LogEntry(historyEntry(outcome, logger.RunID, cfg.GitCommand, started, env.now(), result))

	if result != nil {
		logger.Debug("exit", zap.Int("exit_code", ExitCode(result)))
	}
	return result
}

// checkBumpPrerequisites fails fast on problems that would otherwise only
// surface after the operator has typed release notes.
func checkBumpPrerequisites(cfg *config.Configuration) error {
	if err := cfg.RequireVersionFile(); err != nil {
		return clierrors.VersionFileNotConfigured()
	}
	if _, err := os.Stat(cfg.VersionFile); err != nil {
		return clierrors.VersionFileNotFound(cfg.VersionFile)
	}
	if !git.IsRepository("") {
		wd, _ := os.Getwd()
		return clierrors.NotARepository(wd)
	}
	return requireGit(cfg)
}

// outcomeError turns a workflow Outcome into the command's error, nil on
// success. Aborts by the operator print a note and exit with ExitAborted.
func outcomeError(cmd *cobra.Command, cfg *config.Configuration, outcome workflow.Outcome, newVersion string) error {
	switch outcome.State {
	case workflow.StateDone:
		return nil
	case workflow.StateAborted:
		switch outcome.Reason {
		case workflow.ReasonInvalidVersion:
			if newVersion != "" {
				return clierrors.InvalidVersion(newVersion)
			}
			return clierrors.NewArgumentError("no valid version entered",
				"Versions are three dot-separated non-negative integers, e.g. 1.4.0")
		case workflow.ReasonUnchangedVersion:
			return clierrors.UnchangedVersion(outcome.OldVersion.String())
		}
		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "Aborted: %s; nothing was changed\n", outcome.Reason)
		return NewExitError(ExitAborted)
	}
	return failureError(cfg, outcome)
}

func failureError(cfg *config.Configuration, outcome workflow.Outcome) error {
	err := outcome.Err
	if outcome.Release != nil {
		var completed, remaining []string
		for _, s := range outcome.Release.Completed() {
			completed = append(completed, s.Command(cfg.GitCommand))
		}
		if failed := outcome.Release.Failed(); failed != nil {
			remaining = append(remaining, failed.Command(cfg.GitCommand))
		}
		for _, s := range outcome.Release.Skipped {
			remaining = append(remaining, s.Command(cfg.GitCommand))
		}
		return clierrors.ReleaseStepFailed(err, completed, remaining)
	}

	return classifyError(cfg, err, len(outcome.UpdatedFiles) > 0)
}

// classifyError maps a version, manifest or changelog error to a CLIError.
// edited reports whether any file was already rewritten.
func classifyError(cfg *config.Configuration, err error, edited bool) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		e := clierrors.WrapWithMessage(err, clierrors.Runtime, "release interrupted")
		if edited {
			e.Remediation = []string{"Review the partially edited files with: git diff"}
		}
		return e
	case edited:
		return clierrors.EditFailed(err)
	case errors.Is(err, version.ErrVersionNotFound):
		return clierrors.VersionAssignmentMissing(cfg.VersionFile, cfg.VersionVariable)
	case errors.Is(err, version.ErrAmbiguousManifestVersion):
		return clierrors.AmbiguousManifest(cfg.ManifestFile, cfg.ManifestSection)
	case errors.Is(err, version.ErrInvalidVersion):
		return clierrors.WrapWithMessage(err, clierrors.Prerequisite, "unreadable current version",
			fmt.Sprintf("Set %s in %s to a MAJOR.MINOR.PATCH value", cfg.VersionVariable, cfg.VersionFile))
	case errors.Is(err, os.ErrNotExist):
		return clierrors.VersionFileNotFound(cfg.VersionFile)
	}
	return clierrors.EditFailed(err)
}

// historyEntry summarizes a run for the history file.
func historyEntry(outcome workflow.Outcome, runID, gitCmd string, started, finished time.Time, result error) history.HistoryEntry {
	entry := history.HistoryEntry{
		Timestamp: started,
		RunID:     runID,
		Reason:    string(outcome.Reason),
		Changes:   outcome.Changes.Count(),
		Files:     outcome.UpdatedFiles,
		ExitCode:  ExitCode(result),
		Duration:  finished.Sub(started).Round(time.Millisecond).String(),
	}
	if outcome.OldVersion != version.Zero {
		entry.OldVersion = outcome.OldVersion.String()
	}
	if outcome.NewVersion != version.Zero {
		entry.NewVersion = outcome.NewVersion.String()
	}
	if outcome.Release != nil {
		for _, s := range outcome.Release.Steps {
			entry.Steps = append(entry.Steps, s.Command(gitCmd))
		}
	}

	switch {
	case outcome.State == workflow.StateFailed:
		entry.Status = history.StatusFailed
		if outcome.Err != nil {
			entry.Error = outcome.Err.Error()
		}
	case outcome.State == workflow.StateAborted:
		entry.Status = history.StatusAborted
	case outcome.DryRun:
		entry.Status = history.StatusDryRun
	default:
		entry.Status = history.StatusReleased
	}
	return entry
}
