package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"studybuddy/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the clusters of a run",
	Long: `Search the clusters of the latest run (or --run) by name, subject ID and
record titles.

Results are ranked by relevance using fuzzy matching.

Examples:
  studybuddy-cli search neoplasm
  studybuddy-cli search D0019`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		matches, err := commands.NewSearchClustersCommand(s, runID, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found")
			return nil
		}

		rows := make([][]string, 0, len(matches))
		for _, m := range matches {
			rows = append(rows, []string{
				strconv.Itoa(m.Score),
				m.Cluster.SubjectID,
				m.Cluster.Name,
				strconv.Itoa(m.Cluster.Size()),
			})
		}
		renderTable(cmd.OutOrStdout(), []column{
			{title: "Score", align: alignRight},
			{title: "Subject"},
			{title: "Cluster", maxWidth: 60},
			{title: "Records", align: alignRight},
		}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addRunFlag(searchCmd)
}
