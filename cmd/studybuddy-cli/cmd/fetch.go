package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"studybuddy/internal/adapters/citation"
	"studybuddy/internal/adapters/eutils"
	"studybuddy/internal/application/commands"
	"studybuddy/internal/domain"
	"studybuddy/internal/logging"
)

var (
	fetchJournals []string
	fetchMesh     []string
	fetchFrom     int
	fetchTo       int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Search PubMed and cache the matching records",
	Long: `Search PubMed through E-utilities, score each record by citation count and
store it in the local cache. Records already cached are updated.

Each --mesh value is a group of terms joined with OR; groups are joined with AND.

Examples:
  studybuddy-cli fetch --journal "Vet Surg" --journal "J Small Anim Pract" --from 2020
  studybuddy-cli fetch --mesh veterinary --mesh dogs,cats --from 2015 --to 2024`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := domain.SearchFilter{
			Journals:  fetchJournals,
			StartYear: fetchFrom,
			EndYear:   fetchTo,
		}
		for _, group := range fetchMesh {
			var terms []string
			for _, t := range strings.Split(group, ",") {
				if t = strings.TrimSpace(t); t != "" {
					terms = append(terms, t)
				}
			}
			if len(terms) > 0 {
				filter.MeshTerms = append(filter.MeshTerms, terms)
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}

		// one writer at a time: a second fetch would double the request rate
		lock := flock.New(s.Path() + ".fetch.lock")
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("failed to acquire fetch lock: %w", err)
		}
		if !locked {
			return errors.New("another fetch is already running")
		}
		defer lock.Unlock()

		fetch := commands.NewFetchRecordsCommand(newEUtilsClient(), citation.Scorer{}, s, filter)
		result, err := fetch.Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func newEUtilsClient() *eutils.Client {
	opts := []eutils.Option{
		eutils.WithBaseURL(cfg.EUtils.BaseURL),
		eutils.WithAPIKey(cfg.EUtils.APIKey),
		eutils.WithHTTPClient(&http.Client{Timeout: cfg.EUtils.Timeout}),
		eutils.WithLogger(logging.New("eutils")),
		eutils.WithConcurrency(cfg.EUtils.Concurrency),
		eutils.WithMaxRetries(cfg.EUtils.MaxRetries),
	}
	if cfg.EUtils.RequestsPerSecond > 0 {
		opts = append(opts, eutils.WithRateLimit(rate.Limit(cfg.EUtils.RequestsPerSecond)))
	}
	return eutils.New(opts...)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringArrayVar(&fetchJournals, "journal", nil, "journal title or abbreviation (repeatable)")
	fetchCmd.Flags().StringArrayVar(&fetchMesh, "mesh", nil, "comma-separated MeSH terms matched with OR (repeatable, groups are AND'ed)")
	fetchCmd.Flags().IntVar(&fetchFrom, "from", 0, "first publication year")
	fetchCmd.Flags().IntVar(&fetchTo, "to", 0, "last publication year")
	fetchCmd.Flags().String("api-key", "", "NCBI API key")
}
