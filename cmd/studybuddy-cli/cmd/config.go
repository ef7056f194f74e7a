package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studybuddy/internal/adapters/launcher"
	"studybuddy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration and where each value came from",
	Long: `Print every setting with its value and source: default, config file,
environment variable or flag. Secrets are masked.

Environment variables are named STUDYBUDDY_ followed by the key in upper case
with dots replaced by underscores, for example STUDYBUDDY_EUTILS_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n", cfg.Path)

		values := cfg.Values()
		rows := make([][]string, 0, len(values))
		for _, v := range values {
			source := string(v.Source)
			if v.From != "" {
				source += " (" + v.From + ")"
			}
			rows = append(rows, []string{v.Key, v.Value, source})
		}
		renderTable(out, []column{{title: "Key"}, {title: "Value", maxWidth: 60}, {title: "Source", maxWidth: 50}}, rows)
		return nil
	},
}

// the file subcommands work on broken configs, so they skip loading
func skipConfigLoad(*cobra.Command, []string) error { return nil }

var configPathCmd = &cobra.Command{
	Use:               "path",
	Short:             "Print the config file location",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfigLoad,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.ResolvePath(configPath))
	},
}

var configInitCmd = &cobra.Command{
	Use:               "init",
	Short:             "Write the default config file if none exists",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfigLoad,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", path)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:               "edit",
	Short:             "Open the config file in $EDITOR, creating it first if needed",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfigLoad,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		if err := config.WriteDefault(path); err != nil {
			return err
		}

		editCmd, err := launcher.NewEditor().Command(path)
		if err != nil {
			return err
		}
		if err := editCmd.Run(); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}

		// Validate the edited file.
		loaded, err := config.Load(config.LoadOptions{Path: path})
		if err != nil {
			return err
		}
		return loaded.Validate()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd, configEditCmd)
}
