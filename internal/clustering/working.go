package clustering

import (
	"slices"

	"studybuddy/internal/domain"
)

// WorkingClusters holds the provisional, possibly overlapping buckets of one
// run, keyed by subject ID. Buckets and placements keep insertion order.
type WorkingClusters struct {
	order      []string
	members    map[string][]domain.Record
	placements map[string][]string
	placed     []string
}

func newWorkingClusters() *WorkingClusters {
	return &WorkingClusters{
		members:    make(map[string][]domain.Record),
		placements: make(map[string][]string),
	}
}

// Add places a record in a subject's bucket. Placing the same record in the
// same bucket twice is a no-op and returns false.
func (w *WorkingClusters) Add(subjectID string, r domain.Record) bool {
	if slices.Contains(w.placements[r.ID], subjectID) {
		return false
	}
	if _, ok := w.members[subjectID]; !ok {
		w.order = append(w.order, subjectID)
	}
	w.members[subjectID] = append(w.members[subjectID], r)

	if _, ok := w.placements[r.ID]; !ok {
		w.placed = append(w.placed, r.ID)
	}
	w.placements[r.ID] = append(w.placements[r.ID], subjectID)
	return true
}

// Remove takes a record out of a subject's bucket.
func (w *WorkingClusters) Remove(subjectID, recordID string) bool {
	records := w.members[subjectID]
	idx := slices.IndexFunc(records, func(r domain.Record) bool { return r.ID == recordID })
	if idx < 0 {
		return false
	}
	w.members[subjectID] = slices.Delete(records, idx, idx+1)
	w.placements[recordID] = slices.DeleteFunc(w.placements[recordID], func(id string) bool { return id == subjectID })
	return true
}

// Population returns the number of records currently in a subject's bucket.
func (w *WorkingClusters) Population(subjectID string) int {
	return len(w.members[subjectID])
}

// SubjectIDs returns bucket keys in creation order.
func (w *WorkingClusters) SubjectIDs() []string {
	return slices.Clone(w.order)
}

// Records returns the records of a subject's bucket.
func (w *WorkingClusters) Records(subjectID string) []domain.Record {
	return w.members[subjectID]
}

// Placements returns the buckets a record currently sits in.
func (w *WorkingClusters) Placements(recordID string) []string {
	return slices.Clone(w.placements[recordID])
}

// PlacedRecords returns the IDs of every record placed at least once, in
// order of first placement.
func (w *WorkingClusters) PlacedRecords() []string {
	return slices.Clone(w.placed)
}
