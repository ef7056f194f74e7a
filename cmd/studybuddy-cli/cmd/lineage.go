package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studybuddy/internal/application/commands"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <pmid>",
	Short: "Show the MeSH lineage the clustering sees for a record",
	Long: `List a record's major subjects and every tree-number node of its lineage
with the subject that owns it. Excluded branches are left out, as in clustering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		result, err := commands.NewLineageCommand(s, s, args[0], cfg.Clustering.ExcludedBranches).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", result.Record.ID, result.Record.Title)
		for _, subj := range result.Subjects {
			fmt.Fprintf(out, "  %s %s: %s\n", subj.ID, subj.Name, strings.Join(subj.TreeNumbers, ", "))
		}
		for _, id := range result.Missing {
			fmt.Fprintf(out, "  %s: not in vocabulary\n", id)
		}

		if len(result.Nodes) == 0 {
			fmt.Fprintln(out, "No lineage: the record cannot be clustered.")
			return nil
		}
		rows := make([][]string, 0, len(result.Nodes))
		for _, n := range result.Nodes {
			owner := n.Owner
			if owner == "" {
				owner = "-"
			}
			rows = append(rows, []string{strconv.Itoa(n.Depth), n.Node, owner})
		}
		renderTable(out, []column{{title: "Depth", align: alignRight}, {title: "Node"}, {title: "Subject"}}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lineageCmd)
}
