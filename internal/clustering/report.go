package clustering

import "studybuddy/internal/domain"

// SubjectRef is a record's reference to a subject.
type SubjectRef struct {
	RecordID  string
	SubjectID string
}

// UnresolvedNode is a selected node that no subject owns.
type UnresolvedNode struct {
	RecordID string
	Node     string
}

// Report collects the anomalies of one run. None of them abort clustering.
type Report struct {
	Records              int
	DuplicateRecords     []string
	MalformedTreeNumbers int
	UnknownSubjects      []SubjectRef
	Unresolved           []UnresolvedNode
	Fallbacks            []string
	Reassigned           int
	Unclustered          []string
}

// HasAnomalies reports whether anything other than reassignment happened.
func (r Report) HasAnomalies() bool {
	return len(r.DuplicateRecords) > 0 ||
		r.MalformedTreeNumbers > 0 ||
		len(r.UnknownSubjects) > 0 ||
		len(r.Unresolved) > 0 ||
		len(r.Fallbacks) > 0 ||
		len(r.Unclustered) > 0
}

// Stats flattens the report into counts for storage.
func (r Report) Stats() domain.RunStats {
	return domain.RunStats{
		Records:              r.Records,
		Clustered:            r.Records - len(r.Unclustered),
		DuplicateRecords:     len(r.DuplicateRecords),
		MalformedTreeNumbers: r.MalformedTreeNumbers,
		UnknownSubjects:      len(r.UnknownSubjects),
		UnresolvedNodes:      len(r.Unresolved),
		Fallbacks:            len(r.Fallbacks),
		Reassigned:           r.Reassigned,
		Unclustered:          len(r.Unclustered),
	}
}
