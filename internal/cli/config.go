package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ariel-frischer/relbump/internal/config"
	clierrors "github.com/ariel-frischer/relbump/internal/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create relbump configuration",
	Long: `Inspect and create relbump configuration.

Configuration precedence (highest to lowest):
  1. Command line flags
  2. Environment variables (RELBUMP_*)
  3. Project config (.relbump.yml, or --config)
  4. User config (~/.config/relbump/config.yml)
  5. Built-in defaults`,
}

var configKeysCmd = &cobra.Command{
	Use:          "keys",
	Short:        "List every configuration key with its type",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			typ := schema.Type.String()
			if len(schema.AllowedValues) > 0 {
				typ = strings.Join(schema.AllowedValues, "|")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, typ, schema.Description)
		}
		w.Flush()
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Show the effective configuration and where each value came from",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dim := color.New(color.Faint).SprintFunc()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range config.SortedKeys() {
			value, err := cfg.Value(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%q\t%s\n", key, value, dim(string(cfg.Source(key))))
		}
		return w.Flush()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented .relbump.yml to the current directory",
	Long: `Write a commented .relbump.yml listing every key with its default.
An existing file is left unchanged unless --force is given.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := config.ProjectConfigPath()
		if _, err := os.Stat(path); err == nil && !force {
			return clierrors.NewArgumentError(path+" already exists",
				"Use --force to overwrite it")
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "writing "+path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s; set version_file before your first release.\n", path)
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(configKeysCmd, configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
