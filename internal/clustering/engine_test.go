package clustering

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"studybuddy/internal/domain"
)

func TestNew_RejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		field string
	}{
		{name: "zero cluster size", opts: Options{MinClusterSize: 0, MinLineageDepth: 3}, field: "MinClusterSize"},
		{name: "negative depth", opts: Options{MinClusterSize: 10, MinLineageDepth: -1}, field: "MinLineageDepth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected ErrInvalidOptions, got %v", err)
			}
			var optErr *OptionError
			if !errors.As(err, &optErr) || optErr.Field != tt.field {
				t.Errorf("expected OptionError on %s, got %v", tt.field, err)
			}
		})
	}

	if _, err := New(DefaultOptions()); err != nil {
		t.Errorf("default options rejected: %v", err)
	}
}

func TestOptions_AreCopied(t *testing.T) {
	opts := Options{MinClusterSize: 4, MinLineageDepth: 2, ExcludedBranches: []string{"B01", "Z01"}}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	opts.ExcludedBranches[0] = "C04"
	got := e.Options()
	got.ExcludedBranches[1] = "C17"

	want := Options{MinClusterSize: 4, MinLineageDepth: 2, ExcludedBranches: []string{"B01", "Z01"}}
	if diff := cmp.Diff(want, e.Options()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SharedAncestorReachesClusterSize(t *testing.T) {
	subjects := []domain.Subject{subject("NEO", "Neoplasms", "C04")}
	var records []domain.Record
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("S%02d", i)
		subjects = append(subjects, subject(id, "Topic "+id, fmt.Sprintf("C04.%d", 100+i)))
		records = append(records, record(fmt.Sprintf("r%02d", i), id))
	}

	e := mustEngine(t, Options{MinClusterSize: 10, MinLineageDepth: 3})
	result := e.Run(domain.NewVocabulary(subjects), records)

	if len(result.Clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d: %v", len(result.Clusters), summarize(result.Clusters))
	}
	c := result.Clusters[0]
	if c.Name != "Neoplasms" || c.Size() != 12 {
		t.Errorf("cluster = %s (%d), expected Neoplasms (12)", c.Name, c.Size())
	}
	if c.Records[0].ID != "r00" || c.Records[11].ID != "r11" {
		t.Errorf("records out of input order: %v", c.RecordIDs())
	}
	if len(result.Report.Fallbacks) != 0 {
		t.Errorf("unexpected fallbacks: %v", result.Report.Fallbacks)
	}
}

func TestRun_DeeperSharedNodeWins(t *testing.T) {
	subjects := []domain.Subject{
		subject("NEO", "Neoplasms", "C04"),
		subject("SITE", "Neoplasms by Site", "C04.588"),
	}
	var records []domain.Record
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("S%02d", i)
		tn := fmt.Sprintf("C04.588.%d", 100+i)
		if i >= 10 {
			tn = fmt.Sprintf("C04.600.%d", i)
		}
		subjects = append(subjects, subject(id, "Topic "+id, tn))
		records = append(records, record(fmt.Sprintf("r%02d", i), id))
	}

	e := mustEngine(t, Options{MinClusterSize: 10, MinLineageDepth: 3})
	result := e.Run(domain.NewVocabulary(subjects), records)

	expected := [][]string{
		{"Neoplasms by Site", "r00", "r01", "r02", "r03", "r04", "r05", "r06", "r07", "r08", "r09"},
		{"Neoplasms", "r10", "r11"},
	}
	if diff := cmp.Diff(expected, summarize(result.Clusters)); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SmallThresholds(t *testing.T) {
	e := mustEngine(t, Options{MinClusterSize: 2, MinLineageDepth: 3, ExcludedBranches: []string{"B01"}})
	records := []domain.Record{
		record("r1", "D003", "D007"),
		record("r2", "D003"),
		record("r3", "D004", "D008"),
		record("r4", "D006x"),
	}
	vocab := domain.NewVocabulary([]domain.Subject{
		subject("D003", "Breast Neoplasms", "C04.588.180"),
		subject("D004", "Bone Neoplasms", "C04.588.149"),
		subject("D002", "Neoplasms by Site", "C04.588"),
		subject("D006x", "Fractures, Bone", "C26.404"),
		subject("D007", "Dogs", "B01.050.150"),
		subject("D008", "Cats", "B01.050.199"),
	})

	result := e.Run(vocab, records)

	expected := [][]string{
		{"Breast Neoplasms", "r1", "r2"},
		{"Fractures, Bone", "r4"},
		{"Neoplasms by Site", "r3"},
	}
	if diff := cmp.Diff(expected, summarize(result.Clusters)); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"r4"}, result.Report.Fallbacks); diff != "" {
		t.Errorf("fallbacks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]UnresolvedNode{{RecordID: "r4", Node: "C26"}}, result.Report.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
	if !result.Report.HasAnomalies() {
		t.Error("expected the fallback to be reported as an anomaly")
	}
}

func TestRun_TiedSelectionsAreDeduplicated(t *testing.T) {
	e := mustEngine(t, Options{MinClusterSize: 2, MinLineageDepth: 3})
	vocab := domain.NewVocabulary([]domain.Subject{
		subject("D003", "Breast Neoplasms", "C04.588.180"),
		subject("D004", "Bone Neoplasms", "C04.588.149"),
	})
	records := []domain.Record{
		record("r1", "D003", "D004"),
		record("r2", "D003"),
		record("r3", "D004"),
		record("r4", "D004"),
	}

	result := e.Run(vocab, records)

	expected := [][]string{
		{"Bone Neoplasms", "r3", "r4"},
		{"Breast Neoplasms", "r1", "r2"},
	}
	if diff := cmp.Diff(expected, summarize(result.Clusters)); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
	if result.Report.Reassigned != 1 {
		t.Errorf("Reassigned = %d, expected 1", result.Report.Reassigned)
	}
}

func TestRun_Invariants(t *testing.T) {
	excluded := []string{"B01"}
	e := mustEngine(t, Options{MinClusterSize: 4, MinLineageDepth: 3, ExcludedBranches: excluded})
	vocab := fixtureVocab()
	records := fixtureRecords()

	result := e.Run(vocab, records)

	if len(result.Clusters) == 0 {
		t.Fatal("expected clusters from the fixture")
	}

	seen := make(map[string]string)
	for _, c := range result.Clusters {
		if c.Size() == 0 {
			t.Errorf("cluster %s is empty", c.Name)
		}
		if c.Name == "Dogs" || c.Name == "Cats" {
			t.Errorf("cluster %s comes from an excluded branch", c.Name)
		}
		for _, r := range c.Records {
			if prev, dup := seen[r.ID]; dup {
				t.Errorf("record %s is in both %s and %s", r.ID, prev, c.Name)
			}
			seen[r.ID] = c.Name
		}
	}

	for _, r := range records {
		for _, node := range e.Lineage(vocab, r) {
			if domain.Branch(node) == "B01" {
				t.Errorf("record %s lineage contains excluded node %s", r.ID, node)
			}
		}
	}

	stats := result.Report.Stats()
	if stats.Clustered != len(seen) {
		t.Errorf("Clustered = %d, expected %d", stats.Clustered, len(seen))
	}
	if stats.Clustered+stats.Unclustered != stats.Records {
		t.Errorf("clustered %d + unclustered %d != records %d", stats.Clustered, stats.Unclustered, stats.Records)
	}
}

func TestRun_Idempotent(t *testing.T) {
	opts := Options{MinClusterSize: 4, MinLineageDepth: 3, ExcludedBranches: []string{"B01"}}
	vocab := fixtureVocab()
	records := fixtureRecords()

	first := mustEngine(t, opts).Run(vocab, records)
	second := mustEngine(t, opts).Run(vocab, records)
	again := mustEngine(t, opts).Run(vocab, records)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("third run differs (-first +third):\n%s", diff)
	}
}

func TestRun_EmptyInputs(t *testing.T) {
	e := mustEngine(t, DefaultOptions())

	t.Run("nothing at all", func(t *testing.T) {
		result := e.Run(nil, nil)
		if len(result.Clusters) != 0 || result.Report.HasAnomalies() {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("vocabulary without records", func(t *testing.T) {
		result := e.Run(fixtureVocab(), nil)
		if len(result.Clusters) != 0 {
			t.Errorf("expected no clusters, got %d", len(result.Clusters))
		}
	})

	t.Run("records without vocabulary", func(t *testing.T) {
		result := e.Run(domain.NewVocabulary(nil), []domain.Record{record("r1", "D1"), record("r2")})
		if len(result.Clusters) != 0 {
			t.Errorf("expected no clusters, got %d", len(result.Clusters))
		}
		if diff := cmp.Diff([]SubjectRef{{RecordID: "r1", SubjectID: "D1"}}, result.Report.UnknownSubjects); diff != "" {
			t.Errorf("unknown subjects mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"r1", "r2"}, result.Report.Unclustered); diff != "" {
			t.Errorf("unclustered mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRun_DuplicateRecordsCountOnce(t *testing.T) {
	e := mustEngine(t, Options{MinClusterSize: 2, MinLineageDepth: 1})
	vocab := domain.NewVocabulary([]domain.Subject{subject("D1", "Topic", "C01")})

	result := e.Run(vocab, []domain.Record{
		{ID: "r1", Title: "first copy", MajorSubjects: []string{"D1"}},
		{ID: "r1", Title: "second copy", MajorSubjects: []string{"D1"}},
	})

	if diff := cmp.Diff([]string{"r1"}, result.Report.DuplicateRecords); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}
	if len(result.Clusters) != 1 || result.Clusters[0].Size() != 1 {
		t.Fatalf("expected one cluster with one record, got %v", summarize(result.Clusters))
	}
	if got := result.Clusters[0].Records[0].Title; got != "first copy" {
		t.Errorf("kept %q, expected the first copy", got)
	}
}

func TestRun_ReportsMalformedTreeNumbers(t *testing.T) {
	e := mustEngine(t, DefaultOptions())
	vocab := domain.NewVocabulary([]domain.Subject{subject("D1", "Broken", "", "C01..2", "C01")})

	result := e.Run(vocab, []domain.Record{record("r1", "D1")})

	if result.Report.MalformedTreeNumbers != 2 {
		t.Errorf("MalformedTreeNumbers = %d, expected 2", result.Report.MalformedTreeNumbers)
	}
}
