package domain

import "slices"

// SharedTopics names what a group of records has in common: the tree-number
// paths present in every record's lineage, collapsed to the longest paths and
// mapped to subject names. Paths with no owning subject are skipped and each
// name appears once.
func SharedTopics(vocab *Vocabulary, records []Record) []string {
	var shared map[string]struct{}

	for _, r := range records {
		paths := make(map[string]struct{})
		subjects, _ := vocab.Resolve(r.MajorSubjects)
		for _, s := range subjects {
			for _, tn := range s.TreeNumbers {
				prefixes, err := Prefixes(tn)
				if err != nil {
					continue
				}
				for _, p := range prefixes {
					paths[p] = struct{}{}
				}
			}
		}

		if shared == nil {
			shared = paths
			continue
		}
		for p := range shared {
			if _, ok := paths[p]; !ok {
				delete(shared, p)
			}
		}
	}

	collapsed := collapsePaths(shared)

	var names []string
	for _, p := range collapsed {
		owner, ok := vocab.Owner(p)
		if !ok || slices.Contains(names, owner.Name) {
			continue
		}
		names = append(names, owner.Name)
	}
	return names
}

// collapsePaths drops every path that is an ancestor of another path in the
// set and returns the remainder sorted.
func collapsePaths(paths map[string]struct{}) []string {
	var out []string
	for p := range paths {
		covered := false
		for other := range paths {
			if IsAncestor(p, other) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}
