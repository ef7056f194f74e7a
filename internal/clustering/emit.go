package clustering

import (
	"slices"

	"studybuddy/internal/domain"
)

// Emit names the non-empty buckets after their owning subjects. Empty buckets
// are dropped. Clusters are ordered with domain.SortClusters.
func Emit(w *WorkingClusters, vocab *domain.Vocabulary) []domain.Cluster {
	var clusters []domain.Cluster
	for _, id := range w.SubjectIDs() {
		records := w.Records(id)
		if len(records) == 0 {
			continue
		}
		clusters = append(clusters, domain.Cluster{
			Name:      vocab.Name(id),
			SubjectID: id,
			Records:   slices.Clone(records),
		})
	}
	domain.SortClusters(clusters)
	return clusters
}
