package automaton

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/item"
	"github.com/dekarrin/simc/internal/util"
)

// NewLR0ViablePrefixNFA builds the item-set NFA of spec.md §4.3 step 1 for
// the augmented grammar of g: one state per LR(0) item, an epsilon
// transition from every item with the dot before non-terminal X to each of
// X's productions, and a transition on X from the dot-before-X item to its
// advanced form. Ground truth: tunaq's
// internal/ictiobus/automaton.NewLR0ViablePrefixNFA, adapted to use
// grammar.IsNonTerminal instead of an uppercase-name convention to decide
// which symbols get epsilon productions.
func NewLR0ViablePrefixNFA(g grammar.Grammar) *NFA[item.LR0] {
	gPrime := g.Augmented()
	nfa := NewNFA[item.LR0]()

	startItem := item.StartItem(gPrime)
	nfa.Start = startItem.String()

	items := item.GenerateAll(gPrime)
	for _, it := range items {
		nfa.AddState(it.String(), true)
		nfa.SetValue(it.String(), it)
	}

	for _, it := range items {
		sym, ok := it.NextSymbol()
		if !ok {
			continue
		}

		toItem := it.Advance()
		nfa.AddTransition(it.String(), sym, toItem.String())

		if gPrime.IsNonTerminal(sym) {
			for _, gamma := range gPrime.Rule(sym).Productions {
				var prodItem item.LR0
				if len(gamma) == 0 {
					prodItem = item.LR0{NonTerminal: sym}
				} else {
					prodItem = item.LR0{NonTerminal: sym, ToParse: []string(gamma.Copy())}
				}
				nfa.AddTransition(it.String(), epsilon, prodItem.String())
			}
		}
	}

	return nfa
}

// lr1Closure computes the closure of a starting LR(1) item set under the
// standard closure rule (purple dragon book Algorithm 4.42). Items sharing a
// core are merged by growing one shared lookahead set, but only within this
// single call -- i.e. only among items discovered while closing over ONE
// DFA state (spec.md §4.4's "items sharing the same core merge their
// lookahead sets" describes that in-state fixpoint, not a merge across the
// whole canonical collection). Once this state's closure is stable, each
// resulting item is hashed into pool by full core+lookahead identity
// (spec.md §5) so that states which land on byte-for-byte the same item
// share a pointer; two states whose same-cored items carry different
// lookahead sets are left as the distinct items they are -- the
// distinction canonical LR(1) exists to preserve. analysis supplies FIRST
// sets for lookahead propagation (spec.md §4.4 grow_closure).
func lr1Closure(g grammar.Grammar, analysis *grammar.Analysis, pool *item.Pool, start []*item.LR1) util.SVSet[*item.LR1] {
	byCore := map[string]*item.LR1{}
	var order []string

	addLocal := func(core item.LR0, la util.StringSet) (*item.LR1, bool) {
		key := core.String()
		existing, ok := byCore[key]
		if !ok {
			merged := util.NewStringSet()
			merged.AddAll(la)
			entry := &item.LR1{Core: core, Lookahead: merged}
			byCore[key] = entry
			order = append(order, key)
			return entry, true
		}
		before := existing.Lookahead.Len()
		existing.Lookahead.AddAll(la)
		return existing, existing.Lookahead.Len() != before
	}

	var worklist []*item.LR1
	for _, it := range start {
		entry, _ := addLocal(it.Core, it.Lookahead)
		worklist = append(worklist, entry)
	}

	for len(worklist) > 0 {
		it := worklist[0]
		worklist = worklist[1:]

		sym, ok := it.Core.NextSymbol()
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}

		beta := it.Core.ToParse[1:]

		la := util.NewStringSet()
		for _, b := range it.Lookahead.Elements() {
			seq := append(append([]string{}, beta...), b)
			la.AddAll(firstOfSequence(g, analysis, seq))
		}

		for _, gamma := range g.Rule(sym).Productions {
			var core item.LR0
			if len(gamma) == 0 {
				core = item.LR0{NonTerminal: sym}
			} else {
				core = item.LR0{NonTerminal: sym, ToParse: []string(gamma.Copy())}
			}
			merged, grew := addLocal(core, la)
			if grew {
				worklist = append(worklist, merged)
			}
		}
	}

	closure := util.NewSVSet[*item.LR1]()
	for _, key := range order {
		shared, _ := pool.Intern(byCore[key])
		closure.Set(shared.Key(), shared)
	}

	return closure
}

func firstOfSequence(g grammar.Grammar, analysis *grammar.Analysis, seq []string) util.StringSet {
	out := util.NewStringSet()
	for _, sym := range seq {
		if !g.IsNonTerminal(sym) {
			out.Add(sym)
			break
		}
		out.AddAll(analysis.First(sym))
		if !analysis.DerivesEpsilon(sym) {
			break
		}
	}
	return out
}

// canonicalName is the content-derived state name mandated by spec.md §3/§4.4
// "Canonical DFA": sorted concatenation of member item keys, so two closures
// with identical item content always compare equal regardless of discovery
// order.
func canonicalName(items util.SVSet[*item.LR1]) string {
	keys := util.NewStringSet()
	for k := range items {
		keys.Add(k)
	}
	return keys.StringOrdered()
}

// NewLR1Collection builds the canonical LR(1) collection of spec.md §4.4
// directly (no NFA/subset-construction detour): starting from the closure
// of [S' -> •S, $], repeatedly compute GOTO(I, X) for every state I and
// symbol X until no new states or transitions appear. Each state's items are
// finalized by its own lr1Closure call and only then handed to pool, so two
// states that happen to produce the same core with different lookahead sets
// (the case canonical LR(1) exists to distinguish) remain distinct states;
// pool only collapses pointers for items that are identical in full,
// including lookahead (spec.md §5). Ground truth: tunaq's
// internal/ictiobus/automaton.NewLR1ViablePrefixDFA, reworked around
// item.Pool instead of ad hoc per-item lookahead strings and grammar's own
// unexported LR1_CLOSURE.
func NewLR1Collection(g grammar.Grammar) (*DFA[util.SVSet[*item.LR1]], *item.Pool, error) {
	gPrime := g.Augmented()
	pool := item.NewPool()

	analysis, err := grammar.Analyze(gPrime)
	if err != nil {
		return nil, nil, err
	}

	endTerm, ok := gPrime.EndTerminal()
	if !ok {
		return nil, nil, fmt.Errorf("%w: grammar has no unique END terminal", grammar.ErrInvalidGrammar)
	}

	startCore := item.StartItem(gPrime)
	startItem := &item.LR1{Core: startCore, Lookahead: util.StringSetOf([]string{endTerm})}

	startSet := lr1Closure(gPrime, analysis, pool, []*item.LR1{startItem})
	startName := canonicalName(startSet)

	dfa := NewDFA[util.SVSet[*item.LR1]]()
	dfa.Start = startName
	dfa.AddState(startName, true)
	dfa.SetValue(startName, startSet)

	stateByName := map[string]util.SVSet[*item.LR1]{startName: startSet}
	pending := []string{startName}
	seen := util.NewStringSet()
	seen.Add(startName)

	type deferredTransition struct{ from, sym, to string }
	var transitions []deferredTransition

	for len(pending) > 0 {
		curName := pending[0]
		pending = pending[1:]
		curSet := stateByName[curName]

		symbols := util.NewStringSet()
		for _, it := range curSet {
			if sym, ok := it.Core.NextSymbol(); ok {
				symbols.Add(sym)
			}
		}

		for _, sym := range symbols.Elements() {
			var kernel []*item.LR1
			for _, it := range curSet {
				sy, ok := it.Core.NextSymbol()
				if !ok || sy != sym {
					continue
				}
				advanced := &item.LR1{Core: it.Core.Advance(), Lookahead: it.Lookahead}
				kernel = append(kernel, advanced)
			}
			if len(kernel) == 0 {
				continue
			}

			nextSet := lr1Closure(gPrime, analysis, pool, kernel)
			nextName := canonicalName(nextSet)

			if !seen.Has(nextName) {
				seen.Add(nextName)
				stateByName[nextName] = nextSet
				dfa.AddState(nextName, true)
				dfa.SetValue(nextName, nextSet)
				pending = append(pending, nextName)
			}

			transitions = append(transitions, deferredTransition{curName, sym, nextName})
		}
	}

	for _, t := range transitions {
		dfa.AddTransition(t.from, t.sym, t.to)
	}

	return dfa, pool, nil
}
