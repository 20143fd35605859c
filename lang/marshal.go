package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Group.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToNative(g))
}

// MarshalJSON implements json.Marshaler for Garbage.
func (g *Garbage) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Content())
}

// ToNative converts a node to its native Go representation: a group becomes
// a []any of its converted children and a garbage span becomes its content
// string.
func ToNative(node Node) any {
	switch n := node.(type) {
	case *Garbage:
		return n.Content()

	case *Group:
		result := make([]any, 0, n.Len())
		for child := range n.All() {
			result = append(result, ToNative(child))
		}

		return result

	default:
		return nil
	}
}

// FromNative converts a native Go representation produced by [ToNative] (or
// decoded from JSON or YAML) back into a node. It returns nil if v contains
// anything other than strings and slices, or a string [NewGarbage] rejects.
func FromNative(v any) Node {
	switch val := v.(type) {
	case string:
		garbage, err := NewGarbage(val)
		if err != nil {
			return nil
		}

		return garbage

	case []any:
		children := make([]Node, 0, len(val))

		for _, elem := range val {
			child := FromNative(elem)
			if child == nil {
				return nil
			}

			children = append(children, child)
		}

		return &Group{children: children}

	default:
		return nil
	}
}
