package clustering

import (
	"fmt"
	"testing"

	"studybuddy/internal/domain"
)

func subject(id, name string, treeNumbers ...string) domain.Subject {
	return domain.Subject{ID: id, Name: name, TreeNumbers: treeNumbers}
}

func record(id string, subjectIDs ...string) domain.Record {
	return domain.Record{ID: id, MajorSubjects: subjectIDs}
}

// fakeCounts builds counts with n synthetic record IDs per node.
func fakeCounts(m map[string]int) TaxonomyCounts {
	counts := make(TaxonomyCounts, len(m))
	for node, n := range m {
		ids := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			ids[fmt.Sprintf("%s#%d", node, i)] = struct{}{}
		}
		counts[node] = ids
	}
	return counts
}

// fill adds n filler records to a subject's bucket.
func fill(w *WorkingClusters, subjectID string, n int) {
	for i := 0; i < n; i++ {
		w.Add(subjectID, domain.Record{ID: fmt.Sprintf("%s-filler-%d", subjectID, i)})
	}
}

func fixtureVocab() *domain.Vocabulary {
	return domain.NewVocabulary([]domain.Subject{
		subject("D001", "Neoplasms", "C04"),
		subject("D002", "Neoplasms by Site", "C04.588"),
		subject("D003", "Breast Neoplasms", "C04.588.180", "C17.800.090.500"),
		subject("D004", "Bone Neoplasms", "C04.588.149", "C05.116.231"),
		subject("D005", "Skin Neoplasms", "C04.588.805", "C17.800.882"),
		subject("D006", "Fractures, Bone", "C26.404", "C05.550.150"),
		subject("D007", "Dogs", "B01.050.150.900.649.313.988.400.200.400"),
		subject("D008", "Cats", "B01.050.150.900.649.313.750.250.250"),
		subject("D009", "Surgery, Veterinary", "E04.940", "G02.950"),
		subject("D010", "Anesthesia", "E03.155"),
	})
}

func fixtureRecords() []domain.Record {
	patterns := [][]string{
		{"D003", "D007"},
		{"D004"},
		{"D005", "D008"},
		{"D006", "D009"},
		{"D003", "D004"},
		{"D010"},
		{"D002"},
		{"D001", "D006"},
		{"D007"},
		{},
	}

	records := make([]domain.Record, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, record(fmt.Sprintf("r%02d", i), patterns[i%len(patterns)]...))
	}
	return records
}

func mustEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// summarize reduces clusters to name -> record IDs for comparisons.
func summarize(clusters []domain.Cluster) [][]string {
	out := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, append([]string{c.Name}, c.RecordIDs()...))
	}
	return out
}
