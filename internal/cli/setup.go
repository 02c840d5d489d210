package cli

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/relbump/internal/changelog"
	"github.com/ariel-frischer/relbump/internal/config"
	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/progress"
	"github.com/ariel-frischer/relbump/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// environment holds the process-level collaborators of a command. Tests
// replace it to avoid running git or depending on the terminal.
type environment struct {
	runner       func(timeout time.Duration) git.CommandRunner
	lookPath     func(file string) (string, error)
	now          func() time.Time
	capabilities func() progress.TerminalCapabilities
}

func defaultEnvironment() environment {
	return environment{
		runner: func(timeout time.Duration) git.CommandRunner {
			return git.ExecRunner{Timeout: timeout}
		},
		lookPath:     exec.LookPath,
		now:          time.Now,
		capabilities: progress.DetectTerminalCapabilities,
	}
}

var env = defaultEnvironment()

// loadConfig loads the layered configuration and applies the persistent
// file flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, clierrors.ConfigInvalid(err)
	}

	overrides := map[string]*string{
		"version-file": &cfg.VersionFile,
		"manifest":     &cfg.ManifestFile,
		"changelog":    &cfg.ChangelogFile,
	}
	for name, field := range overrides {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}
	return cfg, nil
}

// terminal returns the output capabilities, forced plain by --plain.
func terminal(cmd *cobra.Command) progress.TerminalCapabilities {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return progress.PlainCapabilities()
	}
	return env.capabilities()
}

func newStore(cfg *config.Configuration) *version.Store {
	return version.NewStore(version.StoreOptions{
		MarkerPath:      cfg.VersionFile,
		Variable:        cfg.VersionVariable,
		ManifestPath:    cfg.ManifestFile,
		ManifestSection: cfg.ManifestSection,
	})
}

func newChangelog(cfg *config.Configuration) *changelog.Writer {
	return changelog.NewWriter(cfg.ChangelogFile, cfg.ChangelogTitle)
}

func newRecorder(cfg *config.Configuration, noPush bool, logger *zap.Logger, observer git.StepObserver) *git.Recorder {
	return git.NewRecorder(git.RecorderOptions{
		GitCommand: cfg.GitCommand,
		Remote:     cfg.Remote,
		NoPush:     noPush || !cfg.Push,
		Runner:     env.runner(cfg.GitTimeout),
		Logger:     logger,
		Observer:   observer,
	})
}

// requireGit checks that the configured git executable can be found.
func requireGit(cfg *config.Configuration) error {
	if _, err := env.lookPath(cfg.GitCommand); err != nil {
		return clierrors.GitNotFound(cfg.GitCommand)
	}
	return nil
}

// ensureStateDirs creates the state and log directories, each with a
// .gitignore that hides its contents from git status. Existing directories
// and .gitignore files are left alone.
func ensureStateDirs(cfg *config.Configuration) error {
	dirs := []string{cfg.StateDir}
	if cfg.LogFile != "" && cfg.LogLevel != "none" {
		dirs = append(dirs, filepath.Dir(cfg.LogFile))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if _, err := os.Stat(dir); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}
