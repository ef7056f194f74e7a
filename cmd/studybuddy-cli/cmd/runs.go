package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"studybuddy/internal/application/commands"
	"studybuddy/internal/domain"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List clustering runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		runs, err := commands.NewListRunsCommand(s).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs yet. Run `studybuddy-cli cluster` first.")
			return nil
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			rows = append(rows, []string{
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				strconv.Itoa(len(r.Clusters)),
				fmt.Sprintf("%d/%d", r.Stats.Clustered, r.Stats.Records),
				fmt.Sprintf("size %d, depth %d", r.MinClusterSize, r.MinLineageDepth),
				strings.Join(r.ExcludedBranches, ","),
			})
		}
		renderTable(cmd.OutOrStdout(), []column{
			{title: "Run"},
			{title: "Created"},
			{title: "Clusters", align: alignRight},
			{title: "Clustered", align: alignRight},
			{title: "Options"},
			{title: "Excluded"},
		}, rows)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [cluster]",
	Short: "Show the clusters of a run, or the records of one cluster",
	Long: `Without arguments, list the clusters of the latest run (or --run).
With a cluster name or subject ID, list its records and the topics they share.

Examples:
  studybuddy-cli show
  studybuddy-cli show "Breast Neoplasms"
  studybuddy-cli show D001943 --run 3f1c...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			run, err := commands.NewShowRunCommand(s, runID).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run %s (%s): %d of %d records clustered\n",
				run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Stats.Clustered, run.Stats.Records)
			printClusters(out, run.Clusters)
			return nil
		}

		result, err := commands.NewShowClusterCommand(s, s, runID, args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		c := result.Cluster
		fmt.Fprintf(out, "%s (%s): %d records\n", c.Name, c.SubjectID, c.Size())
		if len(result.SharedTopics) > 0 {
			fmt.Fprintf(out, "Shared topics: %s\n", strings.Join(result.SharedTopics, "; "))
		}
		printRecords(out, c.Records)
		return nil
	},
}

func printClusters(out io.Writer, clusters []domain.Cluster) {
	if len(clusters) == 0 {
		fmt.Fprintln(out, "No clusters.")
		return
	}
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, []string{c.SubjectID, c.Name, strconv.Itoa(c.Size())})
	}
	renderTable(out, []column{
		{title: "Subject"},
		{title: "Cluster", maxWidth: 60},
		{title: "Records", align: alignRight},
	}, rows)
}

func printRecords(out io.Writer, records []domain.Record) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		year := ""
		if !r.Publication.Date.IsZero() {
			year = strconv.Itoa(r.Publication.Date.Year())
		}
		rows = append(rows, []string{
			r.ID,
			strconv.FormatFloat(r.ImpactScore, 'f', -1, 64),
			year,
			r.Title,
			r.Publication.Journal,
		})
	}
	renderTable(out, []column{
		{title: "PMID"},
		{title: "Impact", align: alignRight},
		{title: "Year"},
		{title: "Title", maxWidth: 70},
		{title: "Journal", maxWidth: 30},
	}, rows)
}

func init() {
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	addRunFlag(showCmd)
}
