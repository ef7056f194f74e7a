package clustering

import "studybuddy/internal/domain"

// Entry pairs a record with its lineage for the rest of the pipeline.
type Entry struct {
	Record  domain.Record
	Lineage []string
}

// LineageOf expands the tree numbers of a record's major subjects into every
// ancestor node, root first, in subject order. Tree numbers whose branch is
// excluded are dropped whole; malformed ones are skipped. The same node may
// appear more than once when two tree numbers share ancestors.
func LineageOf(subjects []domain.Subject, excluded BranchSet) []string {
	var nodes []string
	for _, s := range subjects {
		for _, tn := range s.TreeNumbers {
			prefixes, err := domain.Prefixes(tn)
			if err != nil {
				continue
			}
			if excluded.Excludes(tn) {
				continue
			}
			nodes = append(nodes, prefixes...)
		}
	}
	return nodes
}

// countMalformed counts vocabulary tree numbers that cannot be split into levels.
func countMalformed(vocab *domain.Vocabulary) int {
	n := 0
	for _, s := range vocab.Subjects() {
		for _, tn := range s.TreeNumbers {
			if _, err := domain.SplitTreeNumber(tn); err != nil {
				n++
			}
		}
	}
	return n
}
