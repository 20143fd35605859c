// Package lang parses group streams and measures the resulting syntax tree.
//
// # Grammar
//
// A stream is a single group or garbage span. Informal EBNF:
//
//	Stream   → Group | Garbage
//	Group    → '{' (Group | Garbage | <any other character>)* '}'
//	Garbage  → '<' (Escape | <any character except '>'>)* '>'
//	Escape   → '!' <any character>
//
// Characters inside a group that are not '{', '}' or '<' (typically commas)
// are ignored. Inside garbage nothing is structural: '<', '{' and '}' are
// literal, and '!' escapes the character after it, whatever it is.
//
// # Example
//
//	{{<ab>},{<a!>},{<!!>}}
//
// is a group of two groups, not three. The first holds garbage "ab". In the
// second, "!>" escapes the '>' so the span runs on and holds "a},{<" before
// "!!" escapes a '!' and the next '>' closes it.
//
// # Parsing
//
// [Parse] is a hand-written recursive descent parser with one cursor over the
// input. The first syntax error aborts the parse and is returned as a
// [*ParseError] whose [Kind] identifies the failure:
//
//	node, err := lang.Parse(ctx, "{{},{}}")
//	if errors.Is(err, lang.ErrUnterminatedGroup) { ... }
//
// [ParseString] and [ParseReader] add a content-addressed cache in front of
// [Parse]; trees are immutable, so cached results are shared.
//
// # Metrics
//
//   - [Score]: every group contributes its nesting depth (outermost is 1).
//   - [GarbageLength]: characters inside garbage, excluding escapes.
//   - [CountGroups], [CountGarbage], [MaxDepth] and [Measure] for the rest.
package lang
