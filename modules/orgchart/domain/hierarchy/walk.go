package hierarchy

import "errors"

// SkipChildren returned from a Walk callback skips the node's subtree.
var SkipChildren = errors.New("skip children")

// Walk visits the forest depth-first in pre-order. Each node is visited at
// most once, so forests built from cyclic input terminate.
func Walk(forest []*Node, fn func(n *Node, depth int) error) error {
	visited := make(map[*Node]struct{})
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if _, seen := visited[n]; seen {
			return nil
		}
		visited[n] = struct{}{}
		if err := fn(n, depth); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}
		for _, c := range n.Children {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range forest {
		if err := visit(root, 0); err != nil {
			return err
		}
	}
	return nil
}

// Flatten lists the forest in depth-first pre-order with depths.
func Flatten(forest []*Node) []Entry {
	entries := make([]Entry, 0)
	_ = Walk(forest, func(n *Node, depth int) error {
		entries = append(entries, Entry{Depth: depth, Person: n.Person})
		return nil
	})
	return entries
}

// Count returns the number of distinct nodes reachable from forest.
func Count(forest []*Node) int {
	n := 0
	_ = Walk(forest, func(*Node, int) error {
		n++
		return nil
	})
	return n
}
