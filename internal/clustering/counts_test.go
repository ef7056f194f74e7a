package clustering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCountTaxonomy_SetSemantics(t *testing.T) {
	entries := []Entry{
		{Record: record("r1"), Lineage: []string{"C04", "C04.588", "C04", "C04.600"}},
		{Record: record("r2"), Lineage: []string{"C04", "C04.588"}},
		{Record: record("r3"), Lineage: []string{"", "C26"}},
	}

	counts := CountTaxonomy(entries)

	expected := map[string]int{"C04": 2, "C04.588": 2, "C04.600": 1, "C26": 1}
	got := make(map[string]int)
	for _, node := range counts.Nodes() {
		got[node] = counts.Count(node)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if counts.Has("") {
		t.Error("empty node must not be counted")
	}
}

func TestCountTaxonomy_MatchesDistinctRecordsPerNode(t *testing.T) {
	e := mustEngine(t, Options{MinClusterSize: 4, MinLineageDepth: 3})
	vocab := fixtureVocab()

	var entries []Entry
	for _, r := range fixtureRecords() {
		entries = append(entries, Entry{Record: r, Lineage: e.Lineage(vocab, r)})
	}
	counts := CountTaxonomy(entries)

	for _, node := range counts.Nodes() {
		distinct := 0
		for _, entry := range entries {
			for _, n := range entry.Lineage {
				if n == node {
					distinct++
					break
				}
			}
		}
		if counts.Count(node) != distinct {
			t.Errorf("Count(%s) = %d, expected %d distinct records", node, counts.Count(node), distinct)
		}
	}
}
