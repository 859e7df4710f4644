package hierarchy

// BuildForest attaches every person under its manager in two passes: one node
// per person, then each node appended to its manager's children or to the
// roots. Input order is kept for roots and siblings.
//
// A manager id that resolves to nobody in people makes the person a root. With
// duplicate ids the later node owns the id, so children attach to it; both
// nodes still appear. A self reference attaches the node to itself; callers
// that cannot accept that run Validate first.
func BuildForest(people []Person) []*Node {
	nodes := make([]*Node, len(people))
	byID := make(map[string]*Node, len(people))
	for i, p := range people {
		n := &Node{Person: p, Children: []*Node{}}
		nodes[i] = n
		byID[p.ID] = n
	}

	forest := make([]*Node, 0)
	for i, p := range people {
		n := nodes[i]
		if p.ManagerID != nil {
			if parent, ok := byID[*p.ManagerID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		forest = append(forest, n)
	}
	return forest
}
