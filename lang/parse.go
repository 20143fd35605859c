package lang

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/ardnew/streamscore/log"
)

// Option configures parsing behavior.
type Option func(*options)

// options holds the effective parse configuration.
type options struct {
	logger  log.Logger // zero value discards all trace output
	snippet bool
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSnippet controls whether a [*ParseError] carries the source input so
// that its message includes the offending line with a column marker.
func WithSnippet(enable bool) Option {
	return func(o *options) {
		o.snippet = enable
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Parse parses a stream and returns its top-level node.
//
// The first character selects the construct: '<' begins a [*Garbage] and
// '{' begins a [*Group]. Anything after the end of that construct is ignored.
// On failure the returned node is nil and the error is a [*ParseError].
func Parse(ctx context.Context, input string, opts ...Option) (Node, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(input)))

	p := &parser{
		input: input,
		pos:   0,
		line:  1,
		col:   1,
	}

	node, err := p.parse()
	if err != nil {
		pe := &ParseError{}
		if o.snippet && errors.As(err, &pe) {
			pe.Source = input
		}

		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.String("type", node.Type().String()),
		slog.Int("consumed", p.pos))

	return node, nil
}

// parser holds the cursor state shared by the recursive descent functions.
type parser struct {
	input string
	pos   int
	line  int
	col   int
}

// position returns the location of the next unread character.
func (p *parser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

// next consumes and returns the next character.
// It returns false once the input is exhausted.
func (p *parser) next() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size

	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}

	return r, true
}

// parse dispatches on the first character of the input.
func (p *parser) parse() (Node, error) {
	start := p.position()

	c, ok := p.next()
	if !ok {
		return nil, newParseError(KindEmptyInput, start)
	}

	switch c {
	case '<':
		garbage, err := p.parseGarbage(start)
		if err != nil {
			return nil, err
		}

		return garbage, nil

	case '{':
		group, err := p.parseGroup(start)
		if err != nil {
			return nil, err
		}

		return group, nil

	default:
		err := newParseError(KindUnexpectedLeadingCharacter, start)
		err.Found = c

		return nil, err
	}
}

// parseGroup parses the remainder of a group whose '{' was at open.
func (p *parser) parseGroup(open Position) (*Group, error) {
	var children []Node

	for {
		at := p.position()

		c, ok := p.next()
		if !ok {
			return nil, newParseError(KindUnterminatedGroup, open)
		}

		switch c {
		case '<':
			garbage, err := p.parseGarbage(at)
			if err != nil {
				return nil, err
			}

			children = append(children, garbage)

		case '{':
			group, err := p.parseGroup(at)
			if err != nil {
				return nil, err
			}

			children = append(children, group)

		case '}':
			return &Group{children: children}, nil
		}
	}
}

// parseGarbage parses the remainder of a garbage span whose '<' was at open.
func (p *parser) parseGarbage(open Position) (*Garbage, error) {
	var content []byte

	for {
		at := p.position()

		c, ok := p.next()
		if !ok {
			return nil, newParseError(KindUnterminatedGarbage, open)
		}

		switch c {
		case '!':
			// The escaped character is never inspected.
			if _, ok := p.next(); !ok {
				return nil, newParseError(KindDanglingEscape, at)
			}

		case '>':
			return &Garbage{content: string(content)}, nil

		default:
			content = append(content, p.input[at.Offset:p.pos]...)
		}
	}
}
