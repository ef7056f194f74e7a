package clustering

import (
	"errors"
	"fmt"

	"studybuddy/internal/domain"
)

const (
	// DefaultMinClusterSize is the record count at which a node is big enough
	// to become a cluster on its own.
	DefaultMinClusterSize = 10

	// DefaultMinLineageDepth is the minimum number of levels a node needs to be
	// considered specific enough when no node is big enough.
	DefaultMinLineageDepth = 3
)

// ErrInvalidOptions is matched by every OptionError.
var ErrInvalidOptions = errors.New("invalid clustering options")

// DefaultExcludedBranches returns the branches left out of clustering by
// default: the MeSH Organisms category, both as a bare letter and as its
// top-level subtrees.
func DefaultExcludedBranches() []string {
	return []string{"B", "B01", "B02", "B03", "B04", "B05"}
}

// Options are the knobs of a clustering run.
type Options struct {
	MinClusterSize   int
	MinLineageDepth  int
	ExcludedBranches []string
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		MinClusterSize:   DefaultMinClusterSize,
		MinLineageDepth:  DefaultMinLineageDepth,
		ExcludedBranches: DefaultExcludedBranches(),
	}
}

// OptionError reports an out-of-range knob.
type OptionError struct {
	Field string
	Value int
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s must be at least 1, got %d", e.Field, e.Value)
}

func (e *OptionError) Is(target error) bool {
	return target == ErrInvalidOptions
}

// Validate checks that both thresholds are at least 1.
func (o Options) Validate() error {
	if o.MinClusterSize < 1 {
		return &OptionError{Field: "MinClusterSize", Value: o.MinClusterSize}
	}
	if o.MinLineageDepth < 1 {
		return &OptionError{Field: "MinLineageDepth", Value: o.MinLineageDepth}
	}
	return nil
}

// BranchSet is a set of excluded top-level tree-number segments.
type BranchSet map[string]struct{}

// NewBranchSet builds a set from branch names, ignoring empty strings.
func NewBranchSet(branches []string) BranchSet {
	set := make(BranchSet, len(branches))
	for _, b := range branches {
		if b != "" {
			set[b] = struct{}{}
		}
	}
	return set
}

// Excludes reports whether the first segment of a tree number is in the set.
func (s BranchSet) Excludes(treeNumber string) bool {
	_, ok := s[domain.Branch(treeNumber)]
	return ok
}
