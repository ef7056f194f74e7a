package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studybuddy/internal/adapters/citation"
	"studybuddy/internal/adapters/jsonfile"
	"studybuddy/internal/adapters/meshxml"
	"studybuddy/internal/application/commands"
	"studybuddy/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import [vocab|records] <file>",
	Short: "Load a vocabulary or records from a file",
	Long: `Load the MeSH vocabulary, or records exported from elsewhere, into the cache.

Examples:
  studybuddy-cli import vocab desc2025.xml
  studybuddy-cli import vocab mesh.json
  studybuddy-cli import records records.json`,
}

var importVocabCmd = &cobra.Command{
	Use:   "vocab <file>",
	Short: "Replace the subject vocabulary (MeSH descriptor XML or JSON)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjects, err := readVocabulary(args[0])
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}

		result, err := commands.NewImportVocabularyCommand(s, subjects).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var importRecordsCmd = &cobra.Command{
	Use:   "records <file>",
	Short: "Add records from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open records: %w", err)
		}
		defer f.Close()

		records, err := jsonfile.ReadRecords(f)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}

		result, err := commands.NewImportRecordsCommand(citation.Scorer{}, s, records).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

// readVocabulary picks the decoder by file extension
func readVocabulary(path string) ([]domain.Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	var subjects []domain.Subject
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xml":
		subjects, err = meshxml.Decode(f)
	case ".json":
		subjects, err = jsonfile.ReadVocabulary(f)
	default:
		return nil, fmt.Errorf("unsupported vocabulary format %q: expected .xml or .json", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return subjects, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importVocabCmd)
	importCmd.AddCommand(importRecordsCmd)
}
