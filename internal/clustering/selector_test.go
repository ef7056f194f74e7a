package clustering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelect(t *testing.T) {
	opts := Options{MinClusterSize: 10, MinLineageDepth: 3}

	tests := []struct {
		name     string
		lineage  []string
		counts   map[string]int
		expected []string
		rule     Rule
	}{
		{
			name:     "deepest node reaching the size threshold",
			lineage:  []string{"C04", "C04.588", "C04.588.180"},
			counts:   map[string]int{"C04": 12, "C04.588": 11, "C04.588.180": 3},
			expected: []string{"C04.588"},
			rule:     RuleSize,
		},
		{
			name:     "size ties at the same depth return every node",
			lineage:  []string{"C04", "C04.588", "C04.600"},
			counts:   map[string]int{"C04": 20, "C04.588": 10, "C04.600": 15},
			expected: []string{"C04.600", "C04.588"},
			rule:     RuleSize,
		},
		{
			name:     "size rule wins over a deeper depth-eligible node",
			lineage:  []string{"C04", "C04.588.180"},
			counts:   map[string]int{"C04": 10, "C04.588.180": 9},
			expected: []string{"C04"},
			rule:     RuleSize,
		},
		{
			name:     "most populated deep node",
			lineage:  []string{"C04", "C04.588", "C04.588.180", "C04.588.149"},
			counts:   map[string]int{"C04": 5, "C04.588": 5, "C04.588.180": 4, "C04.588.149": 2},
			expected: []string{"C04.588.180"},
			rule:     RuleDepth,
		},
		{
			name:     "count ties in the deep group return the whole group",
			lineage:  []string{"C04", "C04.588", "C04.588.180", "C04.588.149"},
			counts:   map[string]int{"C04": 5, "C04.588": 5, "C04.588.180": 4, "C04.588.149": 4},
			expected: []string{"C04.588.149", "C04.588.180"},
			rule:     RuleDepth,
		},
		{
			name:     "nodes missing from the counts are ignored",
			lineage:  []string{"X", "X.Y", "X.Y.Z"},
			counts:   map[string]int{"X.Y.Z": 2},
			expected: []string{"X.Y.Z"},
			rule:     RuleDepth,
		},
		{
			name:     "fallback returns the whole lineage once",
			lineage:  []string{"C26", "C26.404", "C26"},
			counts:   map[string]int{"C26": 2, "C26.404": 1},
			expected: []string{"C26", "C26.404"},
			rule:     RuleFallback,
		},
		{
			name:     "empty lineage selects nothing",
			lineage:  nil,
			counts:   map[string]int{"C04": 50},
			expected: nil,
			rule:     RuleNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(opts, fakeCounts(tt.counts))
			got := sel.Select(tt.lineage)

			if got.Rule != tt.rule {
				t.Errorf("Rule = %v, expected %v", got.Rule, tt.rule)
			}
			if diff := cmp.Diff(tt.expected, got.Nodes); diff != "" {
				t.Errorf("Nodes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_IsDeterministic(t *testing.T) {
	sel := NewSelector(Options{MinClusterSize: 3, MinLineageDepth: 2}, fakeCounts(map[string]int{
		"A": 9, "A.B": 4, "A.C": 4, "A.D": 4,
	}))
	lineage := []string{"A", "A.D", "A", "A.B", "A", "A.C"}

	first := sel.Select(lineage)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, sel.Select(lineage)); diff != "" {
			t.Fatalf("selection changed between calls (-first +now):\n%s", diff)
		}
	}
	if diff := cmp.Diff([]string{"A.B", "A.C", "A.D"}, first.Nodes); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}
