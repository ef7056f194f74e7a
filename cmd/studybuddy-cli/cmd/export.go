package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"studybuddy/internal/adapters/anki"
	"studybuddy/internal/adapters/csvexport"
	"studybuddy/internal/adapters/jsonfile"
	"studybuddy/internal/application/commands"
	"studybuddy/internal/ports"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export decks, records or the vocabulary",
	Long: `Write cached data to a file, or to stdout when --output is "-" or empty.

Examples:
  studybuddy-cli export deck -o decks.txt
  studybuddy-cli export csv "Breast Neoplasms" -o breast.csv
  studybuddy-cli export json -o records.json
  studybuddy-cli export vocab -o mesh.json`,
}

var exportDeckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Export the cards of a run as an Anki import file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		return withOutput(cmd, func(w io.Writer) error {
			result, err := commands.NewExportDeckCommand(s, s, anki.Writer{Prefix: anki.DeckPrefix}, runID).Execute(cmd.Context(), w)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
			return nil
		})
	},
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv [cluster]",
	Short: "Export records as CSV, optionally one cluster of a run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRecords(cmd, args, csvexport.Writer{})
	},
}

var exportJSONCmd = &cobra.Command{
	Use:   "json [cluster]",
	Short: "Export records as JSON, readable by import records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRecords(cmd, args, jsonfile.Writer{})
	},
}

var exportVocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Export the vocabulary as JSON, readable by import vocab",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		vocab, err := s.LoadVocabulary(cmd.Context())
		if err != nil {
			return err
		}
		return withOutput(cmd, func(w io.Writer) error {
			if err := jsonfile.WriteVocabulary(w, vocab.Subjects()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d subjects\n", vocab.Len())
			return nil
		})
	},
}

func exportRecords(cmd *cobra.Command, args []string, writer ports.RecordWriter) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	clusterKey := ""
	if len(args) == 1 {
		clusterKey = args[0]
	}
	return withOutput(cmd, func(w io.Writer) error {
		n, err := commands.NewExportRecordsCommand(s, s, s, writer, runID, clusterKey).Execute(cmd.Context(), w)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records\n", n)
		return nil
	})
}

// withOutput runs write against the --output file, or stdout. A failed write
// removes the partial file.
func withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if exportOutput == "" || exportOutput == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(exportOutput)
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")

	exportCmd.AddCommand(exportDeckCmd, exportCSVCmd, exportJSONCmd, exportVocabCmd)
	addRunFlag(exportDeckCmd)
	addRunFlag(exportCSVCmd)
	addRunFlag(exportJSONCmd)
}
