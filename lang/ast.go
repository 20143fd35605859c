package lang

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"
)

// Node is an element of the syntax tree: either a [*Group] or a [*Garbage].
//
// Nodes are immutable once constructed and may be shared freely between
// goroutines.
type Node interface {
	// Type reports which concrete node this is.
	Type() Type

	node()
}

// Type indicates the type of node.
type Type int

const (
	// TypeGroup represents a group delimited by '{' and '}'.
	TypeGroup Type = iota

	// TypeGarbage represents a garbage span delimited by '<' and '>'.
	TypeGarbage
)

// String returns a string representation of the node type.
func (t Type) String() string {
	switch t {
	case TypeGroup:
		return "Group"

	case TypeGarbage:
		return "Garbage"

	default:
		return "Unknown"
	}
}

// Group is an ordered sequence of child nodes in the order they were opened
// in the source text.
type Group struct {
	children []Node
}

// NewGroup returns a group containing the given children in order.
func NewGroup(children ...Node) *Group {
	return &Group{children: slices.Clone(children)}
}

// Type implements [Node].
func (*Group) Type() Type { return TypeGroup }

func (*Group) node() {}

// Len returns the number of children.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}

	return len(g.children)
}

// Child returns the child at index i.
// It panics if i is out of range, like a slice index.
func (g *Group) Child(i int) Node { return g.children[i] }

// All returns an iterator over the children in source order.
func (g *Group) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if g == nil {
			return
		}

		for _, child := range g.children {
			if !yield(child) {
				return
			}
		}
	}
}

// Garbage holds the literal characters of a single garbage span.
// Escape markers, escaped characters and the delimiters are not included.
type Garbage struct {
	content string
}

// NewGarbage returns a garbage node with the given literal content.
//
// A span cannot hold '>' or '!' since the parser consumes both as syntax, so
// content containing either is rejected with [ErrInvalidGarbage].
func NewGarbage(content string) (*Garbage, error) {
	if i := strings.IndexAny(content, "!>"); i >= 0 {
		return nil, ErrInvalidGarbage.With(
			slog.String("content", content),
			slog.Int("offset", i),
		)
	}

	return &Garbage{content: content}, nil
}

// Type implements [Node].
func (*Garbage) Type() Type { return TypeGarbage }

func (*Garbage) node() {}

// Content returns the literal characters of the span.
func (g *Garbage) Content() string {
	if g == nil {
		return ""
	}

	return g.content
}

// Len returns the number of literal characters in the span.
func (g *Garbage) Len() int {
	if g == nil {
		return 0
	}

	return utf8.RuneCountInString(g.content)
}
