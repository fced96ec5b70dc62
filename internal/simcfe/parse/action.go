// Package parse implements the SLR(1) and canonical LR(1) table
// construction of spec.md §4.5 and the shift-reduce driver of §4.6, grounded
// on github.com/dekarrin/tunaq's internal/ictiobus/parse package
// (slr.go/clr1.go/lr.go/lraction.go).
package parse

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
)

// LRActionType enumerates the four actions an LR table cell may hold
// (spec.md §3 "ACTION table").
type LRActionType int

const (
	LRShift LRActionType = iota
	LRReduce
	LRAccept
	LRError
)

func (t LRActionType) String() string {
	switch t {
	case LRShift:
		return "shift"
	case LRReduce:
		return "reduce"
	case LRAccept:
		return "accept"
	default:
		return "error"
	}
}

// LRAction is a single ACTION table cell.
type LRAction struct {
	Type LRActionType

	// State is the target state, used only when Type is LRShift.
	State string

	// Symbol is the nonterminal being reduced to, used only when Type is
	// LRReduce.
	Symbol string

	// Production is the right-hand side reduced over, used only when Type
	// is LRReduce.
	Production grammar.Production
}

func (a LRAction) Equal(o LRAction) bool {
	if a.Type != o.Type {
		return false
	}
	switch a.Type {
	case LRShift:
		return a.State == o.State
	case LRReduce:
		return a.Symbol == o.Symbol && a.Production.Equal(o.Production)
	default:
		return true
	}
}

func (a LRAction) String() string {
	switch a.Type {
	case LRShift:
		return fmt.Sprintf("shift %s", a.State)
	case LRReduce:
		return fmt.Sprintf("reduce %s -> %s", a.Symbol, a.Production.String())
	case LRAccept:
		return "accept"
	default:
		return "error"
	}
}

// isShiftReduceConflict reports whether the two actions form a shift/reduce
// conflict, and if so which of the two is the shift (spec.md §4.5's
// "shift wins" default resolution policy when conflicts are tolerated).
func isShiftReduceConflict(a, b LRAction) (isSR bool, shift LRAction) {
	if a.Type == LRReduce && b.Type == LRShift {
		return true, b
	}
	if b.Type == LRReduce && a.Type == LRShift {
		return true, a
	}
	return false, LRAction{}
}
