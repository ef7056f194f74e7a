package domain

// SearchFilter narrows a record search.
type SearchFilter struct {
	Journals []string
	// MeshTerms are AND'ed groups of OR'ed terms:
	// [["veterinary"], ["dogs", "cats"]] means veterinary AND (dogs OR cats).
	MeshTerms [][]string
	StartYear int // 0 means unbounded
	EndYear   int // 0 means unbounded
}

// IsEmpty reports whether the filter would match the whole database.
func (f SearchFilter) IsEmpty() bool {
	return len(f.Journals) == 0 && len(f.MeshTerms) == 0 && f.StartYear == 0 && f.EndYear == 0
}
