package sema

import (
	"errors"
	"fmt"
)

// ErrSemantic is wrapped by every semantic-analysis failure (spec.md §7
// "SemanticError"). Every such failure is fatal; the walker never attempts
// recovery or continues past the first one.
var ErrSemantic = errors.New("semantic error")

// SemanticError carries the specific semantic rule violated alongside a
// human-readable message, mirroring spec.md §7's "variant-specific" error
// note: duplicate declaration, undeclared use, type mismatch, arity
// mismatch, return-outside-function, missing main, array index not INT,
// and so on all share this one type, distinguished by Kind.
type SemanticError struct {
	Kind SemanticErrorKind
	Msg  string
}

// SemanticErrorKind enumerates the semantic-rule violations spec.md §7
// names.
type SemanticErrorKind int

const (
	DuplicateDeclaration SemanticErrorKind = iota
	UndeclaredUse
	TypeMismatch
	ArityMismatch
	ReturnOutsideFunction
	MissingMain
	ArrayIndexNotInt
	VoidDeclaration
	InvalidArrayLength
	MissingReturn
)

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSemantic, e.Msg)
}

func (e *SemanticError) Unwrap() error {
	return ErrSemantic
}

func newErr(kind SemanticErrorKind, format string, args ...any) error {
	return &SemanticError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
