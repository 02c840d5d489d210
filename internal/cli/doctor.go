package cli

import (
	"fmt"

	"github.com/ariel-frischer/relbump/internal/health"
	"github.com/ariel-frischer/relbump/internal/version"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check that a release can be made from this directory (doc)",
	Long: `Check the prerequisites of a release without modifying anything:

  - the configured git executable is on PATH
  - the working directory is inside a git repository
  - the version file exists and holds a valid version assignment
  - the manifest, when present, has a single version line that matches
  - the changelog is a writable file or can be created

Exits with status 5 when any check fails.`,
	Example: `  relbump doctor
  relbump doctor --version-file src/pkg/__init__.py`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupRelease
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := health.Options{
		GitCommand:    cfg.GitCommand,
		LookPath:      env.lookPath,
		Section:       cfg.ManifestSection,
		ChangelogPath: cfg.ChangelogFile,
	}
	if cfg.VersionFile != "" {
		opts.Store = newStore(cfg)
	}

	report := health.RunHealthChecks(opts)
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		return NewExitError(ExitMissingPrerequisite)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nReady to release; next version would be %s\n", nextVersion(opts.Store))
	return nil
}

func nextVersion(store *version.Store) string {
	current, err := store.Read()
	if err != nil {
		return "unknown"
	}
	return version.SuggestNext(current).String()
}
