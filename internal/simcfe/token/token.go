// Package token defines the external contracts that the lexer boundary
// (out of scope for this module, per spec.md §1) must satisfy to feed the
// SimC parser: a stream of (type, value) pairs terminated by an end-of-input
// symbol.
package token

import "strings"

// Class identifies the terminal kind of a Token. IDs must uniquely identify
// a terminal within a grammar's terminal set.
type Class interface {
	// ID returns the lower-cased identifier of the class, matched against
	// grammar terminal names.
	ID() string

	// Human returns a human-readable name for the class, used in error
	// messages such as "expected an identifier".
	Human() string

	// Equal returns whether two classes denote the same terminal.
	Equal(o any) bool
}

type simpleClass string

func (c simpleClass) ID() string     { return strings.ToLower(string(c)) }
func (c simpleClass) Human() string  { return string(c) }
func (c simpleClass) Equal(o any) bool {
	other, ok := o.(Class)
	if !ok {
		return false
	}
	return other.ID() == c.ID()
}

// MakeClass returns a Class whose ID is the lower-cased form of s and whose
// Human name is s unmodified.
func MakeClass(s string) Class {
	return simpleClass(s)
}

const (
	// End is the designated end-of-input terminal class, appended by
	// NewSliceStream after the last token of a slice (spec.md §4.6).
	End = simpleClass("$")

	// Undefined marks a token that could not be classified by the lexer.
	Undefined = simpleClass("undefined")
)

// Token is a lexeme read from source text, tagged with the terminal Class it
// was recognized as. Only Class is consulted by the parser; Lexeme is
// preserved for terminal AST leaves (spec.md §6 "Token stream").
type Token interface {
	Class() Class
	Lexeme() string

	// Line is the 1-indexed source line the token appears on, used for
	// diagnostics. Implementations that cannot track position may return 0.
	Line() int

	// LinePos is the 1-indexed column of the token's first character.
	LinePos() int

	String() string
}

// Stream is a finite sequence of Tokens. A conforming lexer implementation is
// expected to terminate the underlying sequence with a Token whose Class is
// End. The driver in package parse does not append one; SliceStream does
// (and returns End once exhausted), so a lexer whose output goes through
// NewSliceStream is free to not include it explicitly.
type Stream interface {
	// Next returns the next Token and advances the stream.
	Next() Token

	// Peek returns the next Token without advancing the stream.
	Peek() Token

	// HasNext reports whether any token remains, INCLUDING a not-yet-returned
	// End token.
	HasNext() bool
}

// simpleToken is a minimal Token implementation sufficient for tests and for
// any boundary adapter that only has raw (type, value) pairs and no richer
// position tracking.
type simpleToken struct {
	class  Class
	lexeme string
	line   int
	pos    int
}

// New constructs a Token from a class and lexeme, with optional position
// info for diagnostics.
func New(class Class, lexeme string, line, linePos int) Token {
	return simpleToken{class: class, lexeme: lexeme, line: line, pos: linePos}
}

func (t simpleToken) Class() Class   { return t.class }
func (t simpleToken) Lexeme() string { return t.lexeme }
func (t simpleToken) Line() int      { return t.line }
func (t simpleToken) LinePos() int   { return t.pos }
func (t simpleToken) String() string {
	return t.class.Human() + " " + "\"" + t.lexeme + "\""
}

// SliceStream adapts a pre-lexed slice of Tokens into a Stream, automatically
// appending a single End token if the slice doesn't already end with one.
// This is the typical shape of a "finite token stream... terminated by a
// designated end-of-input symbol" from spec.md §1.
type SliceStream struct {
	toks []Token
	pos  int
}

// NewSliceStream builds a Stream over toks, appending an End token if needed.
func NewSliceStream(toks []Token) *SliceStream {
	if len(toks) == 0 || !toks[len(toks)-1].Class().Equal(End) {
		toks = append(append([]Token{}, toks...), New(End, "", 0, 0))
	}
	return &SliceStream{toks: toks}
}

func (s *SliceStream) Next() Token {
	if s.pos >= len(s.toks) {
		return New(End, "", 0, 0)
	}
	t := s.toks[s.pos]
	s.pos++
	return t
}

func (s *SliceStream) Peek() Token {
	if s.pos >= len(s.toks) {
		return New(End, "", 0, 0)
	}
	return s.toks[s.pos]
}

func (s *SliceStream) HasNext() bool {
	return s.pos < len(s.toks)
}
