package eutils

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// Ensure Client implements RecordSearcher
var _ ports.RecordSearcher = (*Client)(nil)

type esearchResponse struct {
	Result struct {
		Count    string   `json:"count"`
		RetMax   string   `json:"retmax"`
		RetStart string   `json:"retstart"`
		IDs      []string `json:"idlist"`
	} `json:"esearchresult"`
}

type elinkResponse struct {
	LinkSets []struct {
		IDs        []string `json:"ids"`
		LinkSetDBs []struct {
			LinkName string   `json:"linkname"`
			Links    []string `json:"links"`
		} `json:"linksetdbs"`
	} `json:"linksets"`
}

// Search returns every record matching the filter, in esearch order, with
// citing records filled in.
func (c *Client) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Record, error) {
	ids, err := c.SearchIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.log.Info().Int("ids", len(ids)).Str("term", Term(filter)).Msg("esearch finished")
	if len(ids) == 0 {
		return nil, nil
	}

	batches := chunk(ids, pageSize)
	fetched := make([][]domain.Record, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			records, err := c.Fetch(gctx, batch)
			if err != nil {
				return err
			}
			citations, err := c.CitedBy(gctx, batch)
			if err != nil {
				return err
			}
			for j := range records {
				records[j].CitedBy = citations[records[j].ID]
			}
			fetched[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []domain.Record
	for _, batch := range fetched {
		records = append(records, batch...)
	}
	return records, nil
}

// SearchIDs pages through esearch and returns every matching PMID.
func (c *Client) SearchIDs(ctx context.Context, filter domain.SearchFilter) ([]string, error) {
	var ids []string
	for retstart := 0; ; {
		body, err := c.get(ctx, "esearch.fcgi", searchParams(filter, retstart))
		if err != nil {
			return nil, fmt.Errorf("failed to search: %w", err)
		}

		var resp esearchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode esearch response: %w", err)
		}
		ids = append(ids, resp.Result.IDs...)

		count, _ := strconv.Atoi(resp.Result.Count)
		retmax, _ := strconv.Atoi(resp.Result.RetMax)
		if retmax <= 0 {
			retmax = len(resp.Result.IDs)
		}
		retstart += retmax
		if retmax == 0 || retstart >= count {
			return ids, nil
		}
	}
}

// Fetch retrieves the records for a batch of PMIDs.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "xml")
	params.Set("id", strings.Join(ids, ","))

	body, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	records, err := parseArticles(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse efetch response: %w", err)
	}
	return records, nil
}

// CitedBy returns, per PMID, the IDs of the PubMed Central articles citing it.
func (c *Client) CitedBy(ctx context.Context, ids []string) (map[string][]string, error) {
	params := url.Values{}
	params.Set("dbfrom", "pubmed")
	params.Set("linkname", "pubmed_pmc_refs")
	params.Set("retmode", "json")
	// one id parameter per PMID gets one link set per PMID
	for _, id := range ids {
		params.Add("id", id)
	}

	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("failed to link citations: %w", err)
	}

	var resp elinkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode elink response: %w", err)
	}

	citations := make(map[string][]string, len(ids))
	for _, set := range resp.LinkSets {
		if len(set.IDs) == 0 {
			continue
		}
		for _, db := range set.LinkSetDBs {
			if db.LinkName == "pubmed_pmc_refs" {
				citations[set.IDs[0]] = append(citations[set.IDs[0]], db.Links...)
			}
		}
	}
	return citations, nil
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for size < len(ids) {
		ids, out = ids[size:], append(out, ids[:size])
	}
	return append(out, ids)
}
