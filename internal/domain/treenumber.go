package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TreeSeparator separates the levels of a tree number (e.g. "C04.588.443").
const TreeSeparator = "."

// ErrMalformedTreeNumber is returned for tree numbers that cannot be split into levels.
var ErrMalformedTreeNumber = errors.New("malformed tree number")

// SplitTreeNumber returns the levels of a tree number.
// Empty input and empty levels ("C04..588", "C04.") are rejected.
func SplitTreeNumber(treeNumber string) ([]string, error) {
	if treeNumber == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformedTreeNumber)
	}

	segments := strings.Split(treeNumber, TreeSeparator)
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedTreeNumber, treeNumber)
		}
	}
	return segments, nil
}

// TreeDepth returns the number of levels in a node. The empty node has depth 0.
func TreeDepth(node string) int {
	if node == "" {
		return 0
	}
	return strings.Count(node, TreeSeparator) + 1
}

// Branch returns the top level of a tree number (e.g. "C04" for "C04.588").
func Branch(treeNumber string) string {
	branch, _, _ := strings.Cut(treeNumber, TreeSeparator)
	return branch
}

// Prefixes returns every ancestor of a tree number, root first, ending with
// the tree number itself: "A.B.C" -> ["A", "A.B", "A.B.C"].
func Prefixes(treeNumber string) ([]string, error) {
	segments, err := SplitTreeNumber(treeNumber)
	if err != nil {
		return nil, err
	}

	prefixes := make([]string, 0, len(segments))
	for i := range segments {
		prefixes = append(prefixes, strings.Join(segments[:i+1], TreeSeparator))
	}
	return prefixes, nil
}

// IsAncestor reports whether ancestor is a proper ancestor of node.
func IsAncestor(ancestor, node string) bool {
	return ancestor != "" && strings.HasPrefix(node, ancestor+TreeSeparator)
}
