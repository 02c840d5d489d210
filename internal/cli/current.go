package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/ariel-frischer/relbump/internal/git"
	"github.com/ariel-frischer/relbump/internal/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:     "current",
	Aliases: []string{"c"},
	Short:   "Show the current version and the suggested next one (c)",
	Long: `Show the version held in the version file, the version declared in the
manifest, the suggested next release and whether the working tree is clean.
Nothing is modified.`,
	Example: `  relbump current
  relbump current --version-file src/pkg/__init__.py`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runCurrent,
}

func init() {
	currentCmd.GroupID = GroupInspect
	rootCmd.AddCommand(currentCmd)
}

func runCurrent(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireVersionFile(); err != nil {
		return clierrors.VersionFileNotConfigured()
	}

	store := newStore(cfg)
	current, err := store.Read()
	if err != nil {
		return classifyError(cfg, err, false)
	}

	out := cmd.OutOrStdout()
	label := color.New(color.FgYellow).SprintFunc()
	warn := color.New(color.FgYellow)

	fmt.Fprintf(out, "%s %s (%s)\n", label("Version:"), current, cfg.VersionFile)

	switch manifest, err := store.ManifestVersion(); {
	case err != nil:
		warn.Fprintf(out, "Warning: %v\n", err)
	case !store.HasManifest():
		fmt.Fprintf(out, "%s none\n", label("Manifest:"))
	case manifest == "":
		fmt.Fprintf(out, "%s %s has no [%s] version\n", label("Manifest:"), cfg.ManifestFile, cfg.ManifestSection)
	default:
		fmt.Fprintf(out, "%s %s (%s [%s])\n", label("Manifest:"), manifest, cfg.ManifestFile, cfg.ManifestSection)
		if manifest != current.String() {
			warn.Fprintf(out, "Warning: manifest version %s differs from %s\n", manifest, current)
		}
	}

	fmt.Fprintf(out, "%s %s\n", label("Next:"), version.SuggestNext(current))

	if !git.IsRepository("") {
		fmt.Fprintf(out, "%s not a git repository\n", label("Working tree:"))
		return nil
	}
	if branch, err := git.CurrentBranch(""); err == nil && branch != "" {
		fmt.Fprintf(out, "%s %s\n", label("Branch:"), branch)
	}
	recorder := newRecorder(cfg, true, nil, nil)
	clean, err := recorder.CheckClean(cmd.Context())
	switch {
	case err != nil:
		fmt.Fprintf(out, "%s unknown (%v)\n", label("Working tree:"), err)
	case clean:
		fmt.Fprintf(out, "%s clean\n", label("Working tree:"))
	default:
		warn.Fprintf(out, "%s uncommitted changes\n", label("Working tree:"))
	}
	return nil
}
