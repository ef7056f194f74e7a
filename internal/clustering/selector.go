package clustering

import (
	"slices"
	"strings"

	"studybuddy/internal/domain"
)

// Rule names the branch of the selection policy that produced a Selection.
type Rule int

const (
	// RuleNone means the record had no lineage to select from.
	RuleNone Rule = iota
	// RuleSize picks the deepest nodes that reach MinClusterSize.
	RuleSize
	// RuleDepth picks the most populated nodes at least MinLineageDepth deep.
	RuleDepth
	// RuleFallback returns the whole lineage because no node qualified.
	RuleFallback
)

func (r Rule) String() string {
	switch r {
	case RuleSize:
		return "size"
	case RuleDepth:
		return "depth"
	case RuleFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Selection is the set of nodes that decide a record's cluster membership.
type Selection struct {
	Nodes []string
	Rule  Rule
}

// Selector picks best-fit nodes against one run's taxonomy counts.
type Selector struct {
	opts   Options
	counts TaxonomyCounts
}

// NewSelector binds the selection policy to a run's counts.
func NewSelector(opts Options, counts TaxonomyCounts) *Selector {
	return &Selector{opts: opts, counts: counts}
}

type candidate struct {
	node  string
	count int
	depth int
}

// Select applies the policy, first match wins:
//  1. nodes with count >= MinClusterSize: all of those at the greatest depth;
//  2. nodes with depth >= MinLineageDepth: all of those sharing the highest count;
//  3. otherwise the whole lineage, flagged as RuleFallback.
func (s *Selector) Select(lineage []string) Selection {
	if len(lineage) == 0 {
		return Selection{Rule: RuleNone}
	}

	candidates := s.candidates(lineage)

	var bySize []candidate
	for _, c := range candidates {
		if c.count >= s.opts.MinClusterSize {
			bySize = append(bySize, c)
		}
	}
	if len(bySize) > 0 {
		deepest := 0
		for _, c := range bySize {
			deepest = max(deepest, c.depth)
		}
		return Selection{Nodes: nodesWhere(bySize, func(c candidate) bool { return c.depth == deepest }), Rule: RuleSize}
	}

	var byDepth []candidate
	for _, c := range candidates {
		if c.depth >= s.opts.MinLineageDepth {
			byDepth = append(byDepth, c)
		}
	}
	if len(byDepth) > 0 {
		// candidates are sorted by count, so the first group is the largest
		top := byDepth[0].count
		return Selection{Nodes: nodesWhere(byDepth, func(c candidate) bool { return c.count == top }), Rule: RuleDepth}
	}

	return Selection{Nodes: unique(lineage), Rule: RuleFallback}
}

// candidates returns the distinct lineage nodes present in the counts, sorted
// by count descending, then depth descending, then node.
func (s *Selector) candidates(lineage []string) []candidate {
	seen := make(map[string]struct{}, len(lineage))
	var out []candidate
	for _, node := range lineage {
		if _, dup := seen[node]; dup {
			continue
		}
		seen[node] = struct{}{}
		if !s.counts.Has(node) {
			continue
		}
		out = append(out, candidate{node: node, count: s.counts.Count(node), depth: domain.TreeDepth(node)})
	}

	slices.SortFunc(out, func(a, b candidate) int {
		if a.count != b.count {
			return b.count - a.count
		}
		if a.depth != b.depth {
			return b.depth - a.depth
		}
		return strings.Compare(a.node, b.node)
	})
	return out
}

func nodesWhere(cs []candidate, keep func(candidate) bool) []string {
	var nodes []string
	for _, c := range cs {
		if keep(c) {
			nodes = append(nodes, c.node)
		}
	}
	return nodes
}

func unique(nodes []string) []string {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
