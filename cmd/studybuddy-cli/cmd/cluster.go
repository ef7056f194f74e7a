package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studybuddy/internal/application/commands"
	"studybuddy/internal/clustering"
	"studybuddy/internal/logging"
	"studybuddy/internal/metrics"
)

var clusterVerbose bool

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group every cached record into topic clusters",
	Long: `Cluster every cached record by the MeSH lineage of its major topics and
save the result as a new run.

A node becomes a cluster when at least --min-cluster-size records share it.
Records with no such node fall back to their deepest node at least
--min-lineage-depth levels deep.

Examples:
  studybuddy-cli cluster
  studybuddy-cli cluster --min-cluster-size 5 --exclude B,Z`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := commands.NewClusterCommand(s, clusteringOptions(), logging.New("clustering")).Execute(cmd.Context())
		if err != nil {
			return err
		}
		metrics.RecordRun(result.Run, time.Since(start))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (run %s)\n", result.Message, result.Run.ID)
		printClusters(out, result.Run.Clusters)

		if result.Report.HasAnomalies() {
			printReport(cmd, result.Report)
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, r clustering.Report) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"duplicate records", strconv.Itoa(len(r.DuplicateRecords))},
		{"malformed tree numbers", strconv.Itoa(r.MalformedTreeNumbers)},
		{"unknown subjects", strconv.Itoa(len(r.UnknownSubjects))},
		{"unresolved nodes", strconv.Itoa(len(r.Unresolved))},
		{"fallbacks", strconv.Itoa(len(r.Fallbacks))},
		{"reassigned", strconv.Itoa(r.Reassigned)},
		{"unclustered", strconv.Itoa(len(r.Unclustered))},
	}
	fmt.Fprintln(out)
	renderTable(out, []column{{title: "Anomaly"}, {title: "Count", align: alignRight}}, rows)

	if !clusterVerbose {
		return
	}
	if len(r.UnknownSubjects) > 0 {
		fmt.Fprintln(out, "Unknown subjects:")
		for _, ref := range r.UnknownSubjects {
			fmt.Fprintf(out, "  record %s: %s\n", ref.RecordID, ref.SubjectID)
		}
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintln(out, "Unresolved nodes:")
		for _, u := range r.Unresolved {
			fmt.Fprintf(out, "  record %s: %s\n", u.RecordID, u.Node)
		}
	}
	if len(r.Unclustered) > 0 {
		fmt.Fprintf(out, "Unclustered: %s\n", strings.Join(r.Unclustered, ", "))
	}
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().Int("min-cluster-size", clustering.DefaultMinClusterSize, "records a node needs to become a cluster on its own")
	clusterCmd.Flags().Int("min-lineage-depth", clustering.DefaultMinLineageDepth, "minimum node depth when no node is big enough")
	clusterCmd.Flags().StringSlice("exclude", clustering.DefaultExcludedBranches(), "top-level branches left out of clustering")
	clusterCmd.Flags().BoolVarP(&clusterVerbose, "verbose", "v", false, "list every anomaly")
}
