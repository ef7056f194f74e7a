package domain

import "slices"

// Subject is a vocabulary entry (a MeSH descriptor) with one or more
// positions in the taxonomy.
type Subject struct {
	ID          string   // e.g., "D009369"
	Name        string   // e.g., "Neoplasms"
	TreeNumbers []string // e.g., ["C04"]
}

// MaxDepth returns the depth of the subject's deepest tree number.
func (s Subject) MaxDepth() int {
	depth := 0
	for _, tn := range s.TreeNumbers {
		depth = max(depth, TreeDepth(tn))
	}
	return depth
}

// Vocabulary is a read-only set of subjects that remembers load order.
// A nil *Vocabulary behaves as an empty vocabulary.
type Vocabulary struct {
	subjects []Subject
	byID     map[string]int
	byTree   map[string]int
}

// NewVocabulary indexes subjects in the order given. When two subjects share
// an ID, or claim the same tree number, the first one loaded wins.
func NewVocabulary(subjects []Subject) *Vocabulary {
	v := &Vocabulary{
		subjects: make([]Subject, 0, len(subjects)),
		byID:     make(map[string]int, len(subjects)),
		byTree:   make(map[string]int),
	}

	for _, s := range subjects {
		if _, ok := v.byID[s.ID]; ok {
			continue
		}
		s.TreeNumbers = slices.Clone(s.TreeNumbers)
		idx := len(v.subjects)
		v.subjects = append(v.subjects, s)
		v.byID[s.ID] = idx

		for _, tn := range s.TreeNumbers {
			if _, taken := v.byTree[tn]; !taken {
				v.byTree[tn] = idx
			}
		}
	}
	return v
}

// Len returns the number of subjects.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.subjects)
}

// Subjects returns a copy of the subjects in load order.
func (v *Vocabulary) Subjects() []Subject {
	if v == nil {
		return nil
	}
	return slices.Clone(v.subjects)
}

// Get looks a subject up by ID.
func (v *Vocabulary) Get(id string) (Subject, bool) {
	if v == nil {
		return Subject{}, false
	}
	idx, ok := v.byID[id]
	if !ok {
		return Subject{}, false
	}
	return v.subjects[idx], true
}

// Owner returns the first subject, by load order, that has node as one of
// its exact tree numbers.
func (v *Vocabulary) Owner(node string) (Subject, bool) {
	if v == nil {
		return Subject{}, false
	}
	idx, ok := v.byTree[node]
	if !ok {
		return Subject{}, false
	}
	return v.subjects[idx], true
}

// Resolve splits subject IDs into the subjects found and the IDs missing from
// the vocabulary, preserving input order.
func (v *Vocabulary) Resolve(ids []string) (found []Subject, missing []string) {
	for _, id := range ids {
		if s, ok := v.Get(id); ok {
			found = append(found, s)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// Name returns the display name for a subject ID, or the ID itself when the
// subject is unknown.
func (v *Vocabulary) Name(id string) string {
	if s, ok := v.Get(id); ok && s.Name != "" {
		return s.Name
	}
	return id
}
