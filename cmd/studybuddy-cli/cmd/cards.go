package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"studybuddy/internal/adapters/claudecli"
	"studybuddy/internal/application/commands"
	"studybuddy/internal/metrics"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Generate flash cards for the clusters of a run",
	Long: `Build one deck per cluster of the latest run (or --run).

Records that already have cards keep them. The remaining records are sent to
the claude CLI, highest impact first, until the per-cluster budget is spent.

Examples:
  studybuddy-cli cards
  studybuddy-cli cards --per-cluster 10 --model sonnet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		generator := claudecli.NewGenerator(
			claudecli.WithModel(cfg.Cards.Model),
			claudecli.WithBinary(cfg.Cards.Command),
		)
		result, err := commands.NewGenerateCardsCommand(s, s, generator, runID, cfg.Cards.PerCluster).Execute(cmd.Context())
		if err != nil {
			return err
		}
		metrics.RecordCards(result.Generated, result.Reused, len(result.Failures))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, result.Message)

		rows := make([][]string, 0, len(result.Sets))
		for _, set := range result.Sets {
			rows = append(rows, []string{set.Title, strconv.Itoa(len(set.Cards))})
		}
		if len(rows) > 0 {
			renderTable(out, []column{{title: "Deck", maxWidth: 60}, {title: "Cards", align: alignRight}}, rows)
		}

		for _, f := range result.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "record %s: %v\n", f.RecordID, f.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardsCmd)
	addRunFlag(cardsCmd)
	cardsCmd.Flags().Int("per-cluster", 20, "cards per cluster")
	cardsCmd.Flags().String("model", "haiku", "model passed to the claude CLI")
}
