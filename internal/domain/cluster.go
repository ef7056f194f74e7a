package domain

import (
	"slices"
	"strings"
	"time"
)

// Cluster is a named, non-empty group of records owned by one subject.
type Cluster struct {
	Name      string // owning subject's display name
	SubjectID string
	Records   []Record
}

// Size returns the number of records in the cluster.
func (c Cluster) Size() int {
	return len(c.Records)
}

// RecordIDs returns the IDs of the cluster's records in order.
func (c Cluster) RecordIDs() []string {
	ids := make([]string, len(c.Records))
	for i, r := range c.Records {
		ids[i] = r.ID
	}
	return ids
}

// RunStats summarizes the anomalies observed while clustering.
type RunStats struct {
	Records              int
	Clustered            int
	DuplicateRecords     int
	MalformedTreeNumbers int
	UnknownSubjects      int
	UnresolvedNodes      int
	Fallbacks            int
	Reassigned           int
	Unclustered          int
}

// Run is a persisted clustering result together with the knobs that produced it.
type Run struct {
	ID               string
	CreatedAt        time.Time
	MinClusterSize   int
	MinLineageDepth  int
	ExcludedBranches []string
	Clusters         []Cluster
	Stats            RunStats
}

// Cluster finds a cluster of the run by subject ID or by case-insensitive name.
func (r *Run) Cluster(key string) (Cluster, bool) {
	for _, c := range r.Clusters {
		if c.SubjectID == key || strings.EqualFold(c.Name, key) {
			return c, true
		}
	}
	return Cluster{}, false
}

// SortClusters orders clusters by size descending, then name, then subject ID.
func SortClusters(clusters []Cluster) {
	slices.SortFunc(clusters, func(a, b Cluster) int {
		if a.Size() != b.Size() {
			return b.Size() - a.Size()
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.SubjectID, b.SubjectID)
	})
}

// SortRunsNewestFirst orders runs by creation time, newest first.
func SortRunsNewestFirst(runs []Run) {
	slices.SortFunc(runs, func(a, b Run) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
