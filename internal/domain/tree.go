package domain

import "fmt"

// NodeKind distinguishes the levels of a cluster tree.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeCluster
	NodeRecord
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "Run"
	case NodeCluster:
		return "Cluster"
	case NodeRecord:
		return "Record"
	default:
		return "Unknown"
	}
}

// TreeNode represents a node in the cluster tree for navigation
type TreeNode struct {
	Kind       NodeKind
	ID         string // run ID, subject ID or PMID
	Name       string
	URL        string // PubMed link, records only
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// BuildClusterTree turns a run into a two-level tree: clusters, then their records.
// The root is expanded and clusters start collapsed.
func BuildClusterTree(run *Run) *TreeNode {
	root := &TreeNode{
		Kind:       NodeRoot,
		ID:         run.ID,
		Name:       fmt.Sprintf("Run %s", run.CreatedAt.Format("2006-01-02 15:04")),
		IsExpanded: true,
	}

	for _, c := range run.Clusters {
		cn := &TreeNode{
			Kind:   NodeCluster,
			ID:     c.SubjectID,
			Name:   fmt.Sprintf("%s (%d)", c.Name, c.Size()),
			Parent: root,
		}
		for _, r := range c.Records {
			cn.Children = append(cn.Children, &TreeNode{
				Kind:   NodeRecord,
				ID:     r.ID,
				Name:   r.Title,
				URL:    r.URL(),
				Parent: cn,
			})
		}
		root.Children = append(root.Children, cn)
	}
	return root
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}
