package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSharedTopics(t *testing.T) {
	vocab := NewVocabulary([]Subject{
		{ID: "D1", Name: "Neoplasms", TreeNumbers: []string{"C04"}},
		{ID: "D2", Name: "Neoplasms by Site", TreeNumbers: []string{"C04.588"}},
		{ID: "D3", Name: "Breast Neoplasms", TreeNumbers: []string{"C04.588.180"}},
		{ID: "D4", Name: "Bone Neoplasms", TreeNumbers: []string{"C04.588.149"}},
		{ID: "D5", Name: "Dogs", TreeNumbers: []string{"B01.050"}},
	})

	tests := []struct {
		name     string
		records  []Record
		expected []string
	}{
		{
			name: "deepest common ancestor",
			records: []Record{
				{ID: "1", MajorSubjects: []string{"D3", "D5"}},
				{ID: "2", MajorSubjects: []string{"D4", "D5"}},
			},
			expected: []string{"Dogs", "Neoplasms by Site"},
		},
		{
			name:     "single record keeps its own leaves",
			records:  []Record{{ID: "1", MajorSubjects: []string{"D3"}}},
			expected: []string{"Breast Neoplasms"},
		},
		{
			name: "nothing in common",
			records: []Record{
				{ID: "1", MajorSubjects: []string{"D3"}},
				{ID: "2", MajorSubjects: []string{"D5"}},
			},
			expected: nil,
		},
		{
			name:     "no records",
			records:  nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SharedTopics(vocab, tt.records)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("SharedTopics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
