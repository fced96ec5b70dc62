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

// GenerateSLRTable constructs the SLR(1) ACTION/GOTO table for g (purple
// dragon book Algorithm 4.46, as in tunaq's
// internal/ictiobus/parse.constructSimpleLRParseTable), using the LR(0)
// canonical collection and FOLLOW sets computed by package grammar.
//
// allowAmbig resolves shift/reduce conflicts in favor of shift, collecting a
// human-readable note into ambigWarns for each one (spec.md §4.5); with
// allowAmbig false, any conflict is a hard error.
func GenerateSLRTable(g grammar.Grammar, allowAmbig bool) (LRParseTable, []string, error) {
	gPrime := g.Augmented()

	analysis, err := grammar.Analyze(gPrime)
	if err != nil {
		return nil, nil, err
	}

	endSym, ok := gPrime.EndTerminal()
	if !ok {
		return nil, nil, fmt.Errorf("%w: grammar has no unique END terminal", grammar.ErrInvalidGrammar)
	}

	lr0 := automaton.NewLR0ViablePrefixNFA(g).ToDFA()

	table := &slrTable{
		gPrime:    gPrime,
		gStart:    g.StartSymbol(),
		endSym:    endSym,
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		dfa:       lr0,
		analysis:  analysis,
		allowAmbig: allowAmbig,
	}

	var ambigWarns []string
	for _, stateName := range table.dfa.States().Elements() {
		for _, a := range gPrime.Terminals() {
			act, warn, err := table.computeAction(stateName, a)
			if err != nil {
				return nil, ambigWarns, err
			}
			if warn != "" {
				ambigWarns = append(ambigWarns, warn)
			}
			_ = act
		}
	}

	return table, ambigWarns, nil
}

type slrTable struct {
	gPrime     grammar.Grammar
	gStart     string
	endSym     string
	gTerms     []string
	gNonTerms  []string
	dfa        *automaton.DFA[util.SVSet[item.LR0]]
	analysis   *grammar.Analysis
	allowAmbig bool
}

func (t *slrTable) Initial() string {
	return t.dfa.Start
}

func (t *slrTable) States() []string {
	return t.dfa.States().Elements()
}

func (t *slrTable) Goto(state, symbol string) (string, error) {
	next := t.dfa.Next(state, symbol)
	if next == "" {
		return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
	}
	return next, nil
}

// computeAction implements step 2 of Algorithm 4.46 for a single
// (state, terminal) cell, returning the resolved action, an ambiguity
// warning message if a tolerated conflict occurred, and an error if an
// intolerable conflict was found.
func (t *slrTable) computeAction(state, a string) (LRAction, string, error) {
	itemSet := t.dfa.GetValue(state)

	var found bool
	var act LRAction
	var warn string

	for _, it := range itemSet {
		A := it.NonTerminal
		sym, hasNext := it.NextSymbol()

		if t.gPrime.IsTerminal(a) && hasNext && sym == a {
			j, err := t.Goto(state, a)
			if err == nil {
				shiftAct := LRAction{Type: LRShift, State: j}
				if found && !shiftAct.Equal(act) {
					if isSR, _ := isShiftReduceConflict(act, shiftAct); isSR && t.allowAmbig {
						warn = (&ConflictError{State: state, Input: a, First: act, Second: shiftAct, Grammar: ErrNotSLR1}).Error()
						act = shiftAct
					} else {
						return LRAction{}, "", &ConflictError{State: state, Input: a, First: act, Second: shiftAct, Grammar: ErrNotSLR1}
					}
				} else {
					act = shiftAct
					found = true
				}
			}
		}

		if !hasNext && A != t.gPrime.StartSymbol() && t.analysis.Follow(A).Has(a) {
			reduceAct := LRAction{Type: LRReduce, Symbol: A, Production: it.Production()}
			if found && !reduceAct.Equal(act) {
				if isSR, _ := isShiftReduceConflict(act, reduceAct); isSR && t.allowAmbig {
					warn = (&ConflictError{State: state, Input: a, First: act, Second: reduceAct, Grammar: ErrNotSLR1}).Error()
					// shift already won; leave act as-is
				} else {
					return LRAction{}, "", &ConflictError{State: state, Input: a, First: act, Second: reduceAct, Grammar: ErrNotSLR1}
				}
			} else {
				act = reduceAct
				found = true
			}
		}

		if a == t.endSym && A == t.gPrime.StartSymbol() && !hasNext && len(it.Parsed) == 1 && it.Parsed[0] == t.gStart {
			acceptAct := LRAction{Type: LRAccept}
			if found && !acceptAct.Equal(act) {
				return LRAction{}, "", &ConflictError{State: state, Input: a, First: act, Second: acceptAct, Grammar: ErrNotSLR1}
			}
			act = acceptAct
			found = true
		}
	}

	if !found {
		act.Type = LRError
	}
	return act, warn, nil
}

func (t *slrTable) Action(state, a string) LRAction {
	act, _, err := t.computeAction(state, a)
	if err != nil {
		panic(err)
	}
	return act
}

func (t *slrTable) String() string {
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

	allTerms := append([]string{}, t.gTerms...)

	data := [][]string{}
	headers := []string{"S", "|"}
	for _, term := range allTerms {
		headers = append(headers, "A:"+term)
	}
	headers = append(headers, "|")
	for _, nt := range t.gNonTerms {
		headers = append(headers, "G:"+nt)
	}
	data = append(data, headers)

	for _, s := range stateNames {
		row := []string{stateRefs[s], "|"}
		for _, term := range allTerms {
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
