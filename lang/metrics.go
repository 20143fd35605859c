package lang

// Score returns the depth-weighted group score of the tree rooted at node.
//
// The outermost group has depth 1 and every group contributes its own depth.
// Garbage contributes nothing, so a bare top-level garbage span scores 0.
func Score(node Node) int {
	return score(node, 1)
}

func score(node Node, depth int) int {
	group, ok := node.(*Group)
	if !ok {
		return 0
	}

	total := depth
	for child := range group.All() {
		total += score(child, depth+1)
	}

	return total
}

// GarbageLength returns the number of literal characters across every garbage
// span in the tree rooted at node.
func GarbageLength(node Node) int {
	switch n := node.(type) {
	case *Garbage:
		return n.Len()

	case *Group:
		total := 0
		for child := range n.All() {
			total += GarbageLength(child)
		}

		return total

	default:
		return 0
	}
}

// CountGroups returns the number of groups in the tree rooted at node,
// including node itself.
func CountGroups(node Node) int {
	group, ok := node.(*Group)
	if !ok {
		return 0
	}

	total := 1
	for child := range group.All() {
		total += CountGroups(child)
	}

	return total
}

// CountGarbage returns the number of garbage spans in the tree rooted at node.
func CountGarbage(node Node) int {
	switch n := node.(type) {
	case *Garbage:
		return 1

	case *Group:
		total := 0
		for child := range n.All() {
			total += CountGarbage(child)
		}

		return total

	default:
		return 0
	}
}

// MaxDepth returns the deepest group nesting level in the tree rooted at node.
// A lone group has depth 1; garbage does not add depth.
func MaxDepth(node Node) int {
	group, ok := node.(*Group)
	if !ok {
		return 0
	}

	deepest := 0
	for child := range group.All() {
		deepest = max(deepest, MaxDepth(child))
	}

	return deepest + 1
}

// Stats summarizes a parsed stream.
type Stats struct {
	Score         int `expr:"score"   json:"score"    yaml:"score"`
	GarbageLength int `expr:"garbage" json:"garbage"  yaml:"garbage"`
	Groups        int `expr:"groups"  json:"groups"   yaml:"groups"`
	GarbageSpans  int `expr:"spans"   json:"spans"    yaml:"spans"`
	MaxDepth      int `expr:"depth"   json:"depth"    yaml:"depth"`
}

// Measure computes every metric of the tree rooted at node.
func Measure(node Node) Stats {
	return Stats{
		Score:         Score(node),
		GarbageLength: GarbageLength(node),
		Groups:        CountGroups(node),
		GarbageSpans:  CountGarbage(node),
		MaxDepth:      MaxDepth(node),
	}
}
