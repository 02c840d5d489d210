// Package cli implements the relbump command line.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupRelease       = "release"
	GroupInspect       = "inspect"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "relbump",
	Short: "Bump the project version, update the changelog and tag the release",
	Long: `relbump bumps a project's release version interactively.

It reads the current version from the version file, suggests the next patch
version, collects Added/Changed/Fixed notes, then rewrites the version file,
the manifest and CHANGELOG.md before committing, tagging and pushing with git.

Nothing is written until the notes are collected and previewed. When a git
step fails the edited files are kept and the remaining commands are printed.

Source: https://github.com/ariel-frischer/relbump`,
	Example: `  # Interactive bump
  relbump

  # Non-interactive patch release
  relbump --new-version 1.4.1 --yes

  # See what would change without writing anything
  relbump --dry-run

  # Tag locally only
  relbump --no-push

  # Inspect the current version and release history
  relbump current
  relbump history -n 5

  # Check that a release can be made here
  relbump doctor`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBump,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release:"},
		&cobra.Group{ID: GroupInspect, Title: "Inspect:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(),
			"Run '"+cmd.CommandPath()+" --help' for the list of flags")
	})

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Project config file (default .relbump.yml)")
	pf.String("version-file", "", "Source file holding the version assignment")
	pf.String("manifest", "", "Manifest carrying a copy of the version (\"\" disables)")
	pf.String("changelog", "", "Changelog file to update")
	pf.Bool("plain", false, "Plain output without colors or spinners")

	f := rootCmd.Flags()
	f.String("new-version", "", "Release this version instead of prompting")
	f.Bool("dry-run", false, "Show what would change without writing files or running git")
	f.BoolP("yes", "y", false, "Continue without asking when the working tree is dirty")
	f.Bool("no-push", false, "Commit and tag without pushing")
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM. Errors are printed to stderr; the caller maps the returned error
// to an exit code with ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd, err)
	}
	return err
}

// printError writes err to the command's error stream. ExitError carries
// no message; plain errors are shown as runtime errors.
func printError(cmd *cobra.Command, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}
	plain, _ := cmd.PersistentFlags().GetBool("plain")
	if plain {
		cmd.PrintErr(clierrors.FormatErrorPlain(cliErr))
		return
	}
	clierrors.FprintError(cmd.ErrOrStderr(), cliErr)
}
