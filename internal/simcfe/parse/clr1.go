package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/simc/internal/simcfe/automaton"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/item"
	"github.com/dekarrin/simc/internal/util"
)

// GenerateCanonicalLR1Table constructs the canonical LR(1) ACTION/GOTO table
// for g (purple dragon book Algorithm 4.56, as in tunaq's
// internal/ictiobus/parse.constructCanonicalLR1ParseTable), built directly
// on top of the item.Pool-interned canonical collection from
// automaton.NewLR1Collection rather than a subset-construction detour.
//
// Unlike the SLR path, conflicts here are always hard errors: spec.md §4.5
// reserves the shift-over-reduce tolerance for the weaker SLR(1)
// construction, since an LR(1) conflict means the grammar is genuinely
// ambiguous with respect to lookahead, not merely SLR-insufficient.
func GenerateCanonicalLR1Table(g grammar.Grammar) (LRParseTable, error) {
	collection, pool, err := automaton.NewLR1Collection(g)
	if err != nil {
		return nil, err
	}

	gPrime := g.Augmented()
	endSym, ok := gPrime.EndTerminal()
	if !ok {
		return nil, fmt.Errorf("%w: grammar has no unique END terminal", grammar.ErrInvalidGrammar)
	}

	table := &clr1Table{
		gPrime:    gPrime,
		gStart:    g.StartSymbol(),
		endSym:    endSym,
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		dfa:       collection,
		pool:      pool,
	}

	for _, stateName := range table.dfa.States().Elements() {
		for _, a := range gPrime.Terminals() {
			if _, err := table.computeAction(stateName, a); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

type clr1Table struct {
	gPrime    grammar.Grammar
	gStart    string
	endSym    string
	gTerms    []string
	gNonTerms []string
	dfa       *automaton.DFA[util.SVSet[*item.LR1]]
	pool      *item.Pool
}

func (t *clr1Table) Initial() string {
	return t.dfa.Start
}

func (t *clr1Table) States() []string {
	return t.dfa.States().Elements()
}

func (t *clr1Table) Goto(state, symbol string) (string, error) {
	next := t.dfa.Next(state, symbol)
	if next == "" {
		return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
	}
	return next, nil
}

func (t *clr1Table) computeAction(state, a string) (LRAction, error) {
	itemSet := t.dfa.GetValue(state)

	var found bool
	var act LRAction

	for _, it := range itemSet {
		A := it.Core.NonTerminal
		sym, hasNext := it.Core.NextSymbol()

		if t.gPrime.IsTerminal(a) && hasNext && sym == a {
			j, err := t.Goto(state, a)
			if err == nil {
				shiftAct := LRAction{Type: LRShift, State: j}
				if found && !shiftAct.Equal(act) {
					return LRAction{}, &ConflictError{State: state, Input: a, First: act, Second: shiftAct, Grammar: ErrNotLR1}
				}
				act = shiftAct
				found = true
			}
		}

		if !hasNext && A != t.gPrime.StartSymbol() && it.Lookahead.Has(a) {
			reduceAct := LRAction{Type: LRReduce, Symbol: A, Production: it.Core.Production()}
			if found && !reduceAct.Equal(act) {
				return LRAction{}, &ConflictError{State: state, Input: a, First: act, Second: reduceAct, Grammar: ErrNotLR1}
			}
			act = reduceAct
			found = true
		}

		if a == t.endSym && A == t.gPrime.StartSymbol() && !hasNext &&
			len(it.Core.Parsed) == 1 && it.Core.Parsed[0] == t.gStart && it.Lookahead.Has(t.endSym) {
			acceptAct := LRAction{Type: LRAccept}
			if found && !acceptAct.Equal(act) {
				return LRAction{}, &ConflictError{State: state, Input: a, First: act, Second: acceptAct, Grammar: ErrNotLR1}
			}
			act = acceptAct
			found = true
		}
	}

	if !found {
		act.Type = LRError
	}
	return act, nil
}

func (t *clr1Table) Action(state, a string) LRAction {
	act, err := t.computeAction(state, a)
	if err != nil {
		panic(err)
	}
	return act
}

func (t *clr1Table) String() string {
	stateNames := t.dfa.States().Elements()
	sort.Strings(stateNames)
	for i := range stateNames {
		if stateNames[i] == t.dfa.Start {
			stateNames[0], stateNames[i] = stateNames[i], stateNames[0]
			break
		}
	}
	stateRefs := map[string]string{}
	for i, n := range stateNames {
		stateRefs[n] = fmt.Sprintf("%d", i)
	}

	data := [][]string{}
	headers := []string{"S", "|"}
	for _, term := range t.gTerms {
		headers = append(headers, "A:"+term)
	}
	headers = append(headers, "|")
	for _, nt := range t.gNonTerms {
		headers = append(headers, "G:"+nt)
	}
	data = append(data, headers)

	for _, s := range stateNames {
		row := []string{stateRefs[s], "|"}
		for _, term := range t.gTerms {
			act := t.Action(s, term)
			cell := ""
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				cell = fmt.Sprintf("r%s -> %s", act.Symbol, act.Production.String())
			case LRShift:
				cell = "s" + stateRefs[act.State]
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range t.gNonTerms {
			cell := ""
			if dest, err := t.Goto(s, nt); err == nil {
				cell = stateRefs[dest]
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.Edit("").InsertTableOpts(0, data, 10, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
}
