package correlate

import "sort"

// TreeNode is one process in the hierarchy forest. Children are ordered by
// pid so repeated builds over the same input are deterministic.
type TreeNode struct {
	PID      int
	PPID     int
	Children []*TreeNode
}

// Tree is the process hierarchy derived from pid→parent links.
//
// Roots hold processes whose recorded parent is pid 0 (the init/kthreadd
// boundary). Orphans hold processes whose recorded parent is missing from
// the enumerated set, typically because the parent exited between listing
// pids and reading them; they are reparented into this bucket instead of
// failing the whole build.
type Tree struct {
	Roots   []*TreeNode
	Orphans []*TreeNode

	byPID map[int]*TreeNode
}

// Node returns the node for pid, or nil when pid was not in the input.
func (t *Tree) Node(pid int) *TreeNode { return t.byPID[pid] }

// BuildTree derives a forest from a pid→parent-pid mapping. The input is a
// point-in-time enumeration; missing parents are expected, not an error.
func BuildTree(parents map[int]int) *Tree {
	t := &Tree{byPID: make(map[int]*TreeNode, len(parents))}
	for pid, ppid := range parents {
		t.byPID[pid] = &TreeNode{PID: pid, PPID: ppid}
	}

	for pid, node := range t.byPID {
		switch {
		case node.PPID == 0:
			t.Roots = append(t.Roots, node)
		case t.byPID[node.PPID] != nil && node.PPID != pid:
			parent := t.byPID[node.PPID]
			parent.Children = append(parent.Children, node)
		default:
			t.Orphans = append(t.Orphans, node)
		}
	}

	byPID := func(nodes []*TreeNode) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].PID < nodes[j].PID })
	}
	byPID(t.Roots)
	byPID(t.Orphans)
	for _, node := range t.byPID {
		byPID(node.Children)
	}
	return t
}

// Walk visits every node reachable from the roots and the orphan bucket in
// depth-first pid order, passing the nesting depth.
func (t *Tree) Walk(fn func(node *TreeNode, depth int)) {
	var walk func(*TreeNode, int)
	walk = func(n *TreeNode, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range t.Roots {
		walk(r, 0)
	}
	for _, o := range t.Orphans {
		walk(o, 0)
	}
}
