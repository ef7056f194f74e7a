package clustering

import (
	"slices"

	"studybuddy/internal/domain"
)

// Deduplicate leaves every record in exactly one bucket. For a record placed
// in several buckets the kept one is chosen by:
//  1. highest depth score, the deepest tree number of the owning subject;
//  2. buckets holding only this record are dropped unless nothing else is left;
//  3. smallest population;
//  4. lowest subject ID.
//
// Populations are those of the build phase, so the outcome does not depend on
// the order records are visited in.
func Deduplicate(w *WorkingClusters, vocab *domain.Vocabulary, report *Report) {
	populations := make(map[string]int)
	for _, id := range w.SubjectIDs() {
		populations[id] = w.Population(id)
	}

	for _, recordID := range w.PlacedRecords() {
		candidates := w.Placements(recordID)
		if len(candidates) < 2 {
			continue
		}

		keep := bestCandidate(candidates, populations, vocab)
		for _, c := range candidates {
			if c == keep {
				continue
			}
			if w.Remove(c, recordID) {
				report.Reassigned++
			}
		}
	}
}

func bestCandidate(candidates []string, populations map[string]int, vocab *domain.Vocabulary) string {
	scores := make(map[string]int, len(candidates))
	best := 0
	for _, c := range candidates {
		s, _ := vocab.Get(c)
		scores[c] = s.MaxDepth()
		best = max(best, scores[c])
	}
	remaining := slices.DeleteFunc(slices.Clone(candidates), func(c string) bool {
		return scores[c] < best
	})

	crowded := slices.DeleteFunc(slices.Clone(remaining), func(c string) bool {
		return populations[c] == 1
	})
	if len(crowded) > 0 {
		remaining = crowded
	}

	smallest := populations[remaining[0]]
	for _, c := range remaining[1:] {
		smallest = min(smallest, populations[c])
	}
	remaining = slices.DeleteFunc(remaining, func(c string) bool {
		return populations[c] > smallest
	})

	slices.Sort(remaining)
	return remaining[0]
}
