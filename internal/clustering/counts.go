package clustering

import "slices"

// TaxonomyCounts maps each lineage node to the set of record IDs that reach it.
type TaxonomyCounts map[string]map[string]struct{}

// CountTaxonomy aggregates lineages across the whole record set. A record
// contributes at most once to any node, however many of its tree numbers
// pass through it.
func CountTaxonomy(entries []Entry) TaxonomyCounts {
	counts := make(TaxonomyCounts)
	for _, e := range entries {
		for _, node := range e.Lineage {
			if node == "" {
				continue
			}
			ids, ok := counts[node]
			if !ok {
				ids = make(map[string]struct{})
				counts[node] = ids
			}
			ids[e.Record.ID] = struct{}{}
		}
	}
	return counts
}

// Count returns the number of distinct records reaching node.
func (c TaxonomyCounts) Count(node string) int {
	return len(c[node])
}

// Has reports whether any record reaches node.
func (c TaxonomyCounts) Has(node string) bool {
	_, ok := c[node]
	return ok
}

// Nodes returns every counted node in lexical order.
func (c TaxonomyCounts) Nodes() []string {
	nodes := make([]string, 0, len(c))
	for n := range c {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)
	return nodes
}
