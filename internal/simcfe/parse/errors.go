package parse

import (
	"errors"
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/token"
)

// The retrieved teacher source (internal/ictiobus/parse/lr.go,
// lex/immediate.go) calls into internal/ictiobus/icterrors for all its
// diagnostics, but that package's source was not part of the retrieval
// pack. SyntaxError below fills the same role (category + message + the
// offending token) without importing a dependency this module never
// actually received.

// ErrNotSLR1 is wrapped when constructSLRTable finds a conflict spec.md §4.5
// says disqualifies the grammar from being SLR(1).
var ErrNotSLR1 = errors.New("grammar is not SLR(1)")

// ErrNotLR1 is the LR(1)-table analogue of ErrNotSLR1.
var ErrNotLR1 = errors.New("grammar is not LR(1)")

// ErrSyntax is wrapped by every parse-time syntax error (spec.md §7).
var ErrSyntax = errors.New("syntax error")

// ErrUnknownToken is wrapped when a token's class has no matching declared
// grammar terminal (spec.md §4.6 step 1, §7 "UnknownToken").
var ErrUnknownToken = errors.New("unknown token")

// UnknownTokenError reports a token whose class is not among the grammar's
// declared terminals, found before any table lookup is attempted.
type UnknownTokenError struct {
	Token token.Token
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("line %d, col %d: %q is not a declared terminal", e.Token.Line(), e.Token.LinePos(), e.Token.Class().ID())
}

func (e *UnknownTokenError) Unwrap() error {
	return ErrUnknownToken
}

// NewUnknownTokenError constructs an UnknownTokenError anchored to tok.
func NewUnknownTokenError(tok token.Token) error {
	return &UnknownTokenError{Token: tok}
}

// SyntaxError carries the offending token alongside the message, so a CLI
// caller can render source position without re-parsing the message string.
type SyntaxError struct {
	Msg   string
	Token token.Token
}

func (e *SyntaxError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("syntax error: %s", e.Msg)
	}
	return fmt.Sprintf("syntax error at line %d, col %d: %s", e.Token.Line(), e.Token.LinePos(), e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// NewSyntaxErrorFromToken constructs a SyntaxError anchored to tok.
func NewSyntaxErrorFromToken(msg string, tok token.Token) error {
	return &SyntaxError{Msg: msg, Token: tok}
}

// ConflictError describes a shift/reduce or reduce/reduce conflict found
// during table construction (spec.md §4.5 "Conflict").
type ConflictError struct {
	State   string
	Input   string
	First   LRAction
	Second  LRAction
	Grammar error // one of ErrNotSLR1, ErrNotLR1
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: state %q on input %q: found both %s and %s", e.Grammar, e.State, e.Input, e.First, e.Second)
}

func (e *ConflictError) Unwrap() error {
	return e.Grammar
}
