package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrEmptyInput                 = NewError("expected non-empty input")
	ErrUnexpectedLeadingCharacter = NewError("expected '<' or '{'")
	ErrUnterminatedGroup          = NewError("unterminated '{'")
	ErrUnterminatedGarbage        = NewError("unterminated '<'")
	ErrDanglingEscape             = NewError("unexpected end of input after '!'")
	ErrReadInput                  = NewError("failed to read input")
	ErrInvalidGarbage             = NewError("garbage content contains '>' or '!'")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same message, so that
// errors derived with [Error.Wrap] or [Error.With] still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Kind classifies a syntax error.
type Kind int

const (
	// KindEmptyInput means the input has no characters.
	KindEmptyInput Kind = iota

	// KindUnexpectedLeadingCharacter means the first character is neither
	// '<' nor '{'.
	KindUnexpectedLeadingCharacter

	// KindUnterminatedGroup means the input ended inside a group.
	KindUnterminatedGroup

	// KindUnterminatedGarbage means the input ended inside a garbage span.
	KindUnterminatedGarbage

	// KindDanglingEscape means the input ended right after an escape marker.
	KindDanglingEscape
)

// String returns a string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"

	case KindUnexpectedLeadingCharacter:
		return "UnexpectedLeadingCharacter"

	case KindUnterminatedGroup:
		return "UnterminatedGroup"

	case KindUnterminatedGarbage:
		return "UnterminatedGarbage"

	case KindDanglingEscape:
		return "DanglingEscape"

	default:
		return "Unknown"
	}
}

// sentinel returns the predefined error matching the kind.
func (k Kind) sentinel() *Error {
	switch k {
	case KindEmptyInput:
		return ErrEmptyInput

	case KindUnexpectedLeadingCharacter:
		return ErrUnexpectedLeadingCharacter

	case KindUnterminatedGroup:
		return ErrUnterminatedGroup

	case KindUnterminatedGarbage:
		return ErrUnterminatedGarbage

	case KindDanglingEscape:
		return ErrDanglingEscape

	default:
		return NewError("syntax error")
	}
}

// Position identifies a location in the source text.
// Line and Column are 1-based; Column counts characters, not bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParseError describes the first syntax violation found in the input.
//
// ParseError unwraps to the sentinel of its [Kind], so callers may test it
// with errors.Is (for example, errors.Is(err, ErrUnterminatedGroup)).
type ParseError struct {
	Kind   Kind
	Pos    Position
	Found  rune   // Offending character (KindUnexpectedLeadingCharacter only)
	Source string // Optional source input used to render a snippet
}

func newParseError(kind Kind, pos Position) *ParseError {
	return &ParseError{Kind: kind, Pos: pos}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Kind.sentinel().Error())

	if e.Kind == KindUnexpectedLeadingCharacter {
		buf.WriteString(", found ")
		buf.WriteString(strconv.QuoteRune(e.Found))
	}

	if e.Kind != KindEmptyInput {
		buf.WriteString(" at line ")
		buf.WriteString(strconv.Itoa(e.Pos.Line))
		buf.WriteString(", column ")
		buf.WriteString(strconv.Itoa(e.Pos.Column))
	}

	if snippet := e.snippet(); snippet != "" {
		buf.WriteString(":\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Unwrap returns the sentinel error for the kind.
func (e *ParseError) Unwrap() error { return e.Kind.sentinel() }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Kind.sentinel().Error()),
		slog.String("kind", e.Kind.String()),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.Int("offset", e.Pos.Offset),
	}

	if e.Kind == KindUnexpectedLeadingCharacter {
		attrs = append(attrs, slog.String("found", string(e.Found)))
	}

	return slog.GroupValue(attrs...)
}

// snippet renders the offending line with a caret under the error column.
// It returns an empty string when no source is attached.
func (e *ParseError) snippet() string {
	if e.Source == "" || e.Pos.Line < 1 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	lineNum := strconv.Itoa(e.Pos.Line)

	src.WriteString("  ")
	src.WriteString(lineNum)
	src.WriteString(" | ")
	src.WriteString(lines[e.Pos.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(lineNum)+5)

	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
