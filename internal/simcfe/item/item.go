// Package item implements the LR(0)/LR(1) item model of spec.md §3 and the
// item-set generator of §4.2. It is adapted from
// github.com/dekarrin/tunaq's internal/ictiobus/grammar/item.go, but departs
// from the teacher's single-lookahead LR1Item: per spec.md §4.4 ("items
// sharing the same core merge their lookahead sets") and §5 ("every item is
// interned through a single pool"), LR1Item here carries a lookahead *set*
// and is only ever produced through a Pool so that two items with identical
// core+lookahead content are always the same value.
package item

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/util"
)

// LR0 is an LR(0) item: lhs -> parsed • toParse (spec.md §3).
type LR0 struct {
	NonTerminal string
	Parsed      []string
	ToParse     []string
}

// Complete reports whether the dot has reached the end (ToParse is empty).
func (i LR0) Complete() bool {
	return len(i.ToParse) == 0
}

// Kernel reports whether this item is a kernel item: parsed is non-empty, or
// it is the distinguished start item S' -> • S (NonTerminal having no real
// production makes this ambiguous in isolation; callers that know they hold
// the start item should treat it as kernel regardless).
func (i LR0) Kernel(isStartItem bool) bool {
	return len(i.Parsed) > 0 || isStartItem
}

// NextSymbol returns the symbol immediately after the dot and true, or ""
// and false if the item is complete.
func (i LR0) NextSymbol() (string, bool) {
	if len(i.ToParse) == 0 {
		return "", false
	}
	return i.ToParse[0], true
}

// Advance returns the item with the dot moved one position to the right
// over its next symbol. Panics if the item is complete (callers are
// expected to check NextSymbol first).
func (i LR0) Advance() LR0 {
	if len(i.ToParse) == 0 {
		panic("cannot advance a complete item")
	}
	parsed := make([]string, len(i.Parsed)+1)
	copy(parsed, i.Parsed)
	parsed[len(i.Parsed)] = i.ToParse[0]
	toParse := make([]string, len(i.ToParse)-1)
	copy(toParse, i.ToParse[1:])
	return LR0{NonTerminal: i.NonTerminal, Parsed: parsed, ToParse: toParse}
}

func (i LR0) String() string {
	lhs := i.NonTerminal
	left := strings.Join(i.Parsed, " ")
	right := strings.Join(i.ToParse, " ")
	if left != "" {
		left += " "
	}
	if right != "" {
		right = " " + right
	}
	return fmt.Sprintf("%s -> %s•%s", lhs, left, right)
}

func (i LR0) Equal(o LR0) bool {
	if i.NonTerminal != o.NonTerminal {
		return false
	}
	if len(i.Parsed) != len(o.Parsed) || len(i.ToParse) != len(o.ToParse) {
		return false
	}
	for idx := range i.Parsed {
		if i.Parsed[idx] != o.Parsed[idx] {
			return false
		}
	}
	for idx := range i.ToParse {
		if i.ToParse[idx] != o.ToParse[idx] {
			return false
		}
	}
	return true
}

// Production reconstructs the full right-hand side (Parsed ++ ToParse).
func (i LR0) Production() grammar.Production {
	full := make([]string, 0, len(i.Parsed)+len(i.ToParse))
	full = append(full, i.Parsed...)
	full = append(full, i.ToParse...)
	return grammar.Production(full)
}

// GenerateAll enumerates, for every production A -> X1...Xk of g, the k+1
// LR(0) items (the dot at every position, including before the first symbol
// and after the last), plus the single item N -> • for every epsilon
// producer N. This is the generate_items(G') operation of spec.md §4.2.
func GenerateAll(g grammar.Grammar) []LR0 {
	var items []LR0
	for _, nt := range g.NonTerminals() {
		for _, prod := range g.Rule(nt).Productions {
			if len(prod) == 0 {
				items = append(items, LR0{NonTerminal: nt})
				continue
			}
			for dot := 0; dot <= len(prod); dot++ {
				parsed := make([]string, dot)
				copy(parsed, prod[:dot])
				toParse := make([]string, len(prod)-dot)
				copy(toParse, prod[dot:])
				items = append(items, LR0{NonTerminal: nt, Parsed: parsed, ToParse: toParse})
			}
		}
	}
	return items
}

// StartItem returns S' -> • S for augmented grammar g' (g' must already be
// augmented; its start symbol's sole production is the old start symbol).
func StartItem(gPrime grammar.Grammar) LR0 {
	rule := gPrime.Rule(gPrime.StartSymbol())
	if len(rule.Productions) != 1 {
		panic("augmented grammar's start symbol must have exactly one production")
	}
	return LR0{NonTerminal: gPrime.StartSymbol(), ToParse: []string(rule.Productions[0].Copy())}
}

// EndItem returns S' -> S • for augmented grammar g'.
func EndItem(gPrime grammar.Grammar) LR0 {
	start := StartItem(gPrime)
	return start.Advance()
}

// LR1 is an LR(0) item augmented with a non-empty set of terminal
// lookaheads (spec.md §3 "LR(1) Item"). Two LR1 values with the same Core
// but different Lookahead content are distinct entities. Lookaheads for a
// shared core are only ever merged locally, while one DFA state's closure is
// still being computed; once a state's item set is finalized, hand it to
// Pool so that states landing on byte-for-byte identical items share a
// pointer instead of allocating distinct equal copies.
type LR1 struct {
	Core      LR0
	Lookahead util.StringSet
}

func (i LR1) String() string {
	la := i.Lookahead.Elements()
	sort.Strings(la)
	return fmt.Sprintf("%s , {%s}", i.Core.String(), strings.Join(la, "/"))
}

// Key is the canonical structural identity used by Pool and by DFA-state
// naming: core plus sorted lookahead, so two items with identical content
// always produce the same key regardless of construction order (spec.md §4.4
// "DFA name").
func (i LR1) Key() string {
	return i.String()
}

// CoreKey is the identity ignoring lookahead: the core item's String()
// form.
func (i LR1) CoreKey() string {
	return i.Core.String()
}
