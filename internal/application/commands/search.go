package commands

import (
	"context"
	"sort"
	"strings"

	"studybuddy/internal/domain"
	"studybuddy/internal/ports"
)

// ClusterMatch is a cluster with its relevance to a query
type ClusterMatch struct {
	Cluster domain.Cluster
	Score   int
}

// SearchClustersCommand searches the clusters of a run with fuzzy matching
type SearchClustersCommand struct {
	runs  ports.RunRepository
	RunID string
	Query string
}

// NewSearchClustersCommand creates a new SearchClustersCommand
func NewSearchClustersCommand(runs ports.RunRepository, runID, query string) *SearchClustersCommand {
	return &SearchClustersCommand{
		runs:  runs,
		RunID: runID,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted matches
func (c *SearchClustersCommand) Execute(ctx context.Context) ([]ClusterMatch, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	run, err := loadRun(ctx, c.runs, c.RunID)
	if err != nil {
		return nil, err
	}

	return RankClusters(run.Clusters, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// characters must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10
		}
		if i == 0 {
			score += 15
		}
		if i > 0 && isWordBoundary(target[i-1]) {
			score += 10
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isWordBoundary(b byte) bool {
	return b == ' ' || b == ',' || b == '.' || b == '-'
}

// RankClusters scores clusters by name, subject ID and record titles. The
// best of the three counts, title matches at half weight. Clusters with no
// match are dropped.
func RankClusters(clusters []domain.Cluster, query string) []ClusterMatch {
	matches := make([]ClusterMatch, 0, len(clusters))

	for _, c := range clusters {
		best := max(FuzzyScore(c.Name, query), FuzzyScore(c.SubjectID, query))
		for _, r := range c.Records {
			best = max(best, FuzzyScore(r.Title, query)/2)
		}
		if best > 0 {
			matches = append(matches, ClusterMatch{Cluster: c, Score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
