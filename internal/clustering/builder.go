package clustering

import "studybuddy/internal/domain"

// Build selects nodes for every entry and places the record in the bucket of
// each node's owning subject. Nodes no subject owns are recorded in the report
// and skipped. Fallback selections are recorded and still placed.
func Build(entries []Entry, sel *Selector, vocab *domain.Vocabulary, report *Report) *WorkingClusters {
	w := newWorkingClusters()

	for _, e := range entries {
		selection := sel.Select(e.Lineage)
		if selection.Rule == RuleFallback {
			report.Fallbacks = append(report.Fallbacks, e.Record.ID)
		}

		for _, node := range selection.Nodes {
			owner, ok := vocab.Owner(node)
			if !ok {
				report.Unresolved = append(report.Unresolved, UnresolvedNode{RecordID: e.Record.ID, Node: node})
				continue
			}
			w.Add(owner.ID, e.Record)
		}
	}
	return w
}
