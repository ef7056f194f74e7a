package jsonfile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"studybuddy/internal/domain"
)

func TestRecordsRoundTrip(t *testing.T) {
	records := []domain.Record{
		{
			ID:       "301",
			Title:    "Canine lymphoma",
			Abstract: "Abstract.",
			Authors:  []domain.Author{{LastName: "Rossi", ForeName: "Anna", Initials: "A"}},
			Publication: domain.Publication{
				Journal: "Vet J",
				Volume:  "12",
				Date:    time.Date(2021, 3, 9, 0, 0, 0, 0, time.UTC),
			},
			MajorSubjects: []string{"D008223"},
			CitedBy:       []string{"PMC1"},
		},
		{ID: "302", MajorSubjects: []string{}},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	got, err := ReadRecords(&buf)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordsBadDate(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(`[{"id":"1","publicationDate":"March 2021","majorSubjects":[]}]`))
	if err == nil || !strings.Contains(err.Error(), "invalid publication date") {
		t.Errorf("error = %v, expected invalid publication date", err)
	}
}

func TestReadVocabulary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []domain.Subject
	}{
		{
			name:  "array keeps file order",
			input: `[{"id":"D2","name":"Two","treeNumbers":["C04"]},{"id":"D1","name":"One","treeNumbers":["C04.588","C17"]}]`,
			want: []domain.Subject{
				{ID: "D2", Name: "Two", TreeNumbers: []string{"C04"}},
				{ID: "D1", Name: "One", TreeNumbers: []string{"C04.588", "C17"}},
			},
		},
		{
			name: "descriptor object is sorted by ID",
			input: `
			{
				"D2": {"DescriptorId":"D2","DescriptorName":"Two","TreeNumbers":["C04"]},
				"D1": {"DescriptorName":"One","TreeNumbers":["C17"]}
			}`,
			want: []domain.Subject{
				{ID: "D1", Name: "One", TreeNumbers: []string{"C17"}},
				{ID: "D2", Name: "Two", TreeNumbers: []string{"C04"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadVocabulary(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadVocabulary failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("vocabulary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVocabularyRoundTrip(t *testing.T) {
	subjects := []domain.Subject{{ID: "D1", Name: "One", TreeNumbers: []string{"C04"}}}

	var buf bytes.Buffer
	if err := WriteVocabulary(&buf, subjects); err != nil {
		t.Fatalf("WriteVocabulary failed: %v", err)
	}
	got, err := ReadVocabulary(&buf)
	if err != nil {
		t.Fatalf("ReadVocabulary failed: %v", err)
	}
	if diff := cmp.Diff(subjects, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterMatchesWriteRecords(t *testing.T) {
	records := []domain.Record{{ID: "7", Title: "Only", MajorSubjects: []string{"D1"}}}

	var direct, viaPort bytes.Buffer
	if err := WriteRecords(&direct, records); err != nil {
		t.Fatalf("WriteRecords failed: %v", err)
	}
	if err := (Writer{}).WriteRecords(&viaPort, records, nil); err != nil {
		t.Fatalf("Writer.WriteRecords failed: %v", err)
	}
	if diff := cmp.Diff(direct.String(), viaPort.String()); diff != "" {
		t.Errorf("output mismatch (-direct +writer):\n%s", diff)
	}
}
