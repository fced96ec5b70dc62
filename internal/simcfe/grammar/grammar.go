// Package grammar models context-free grammars and provides the FIRST/FOLLOW
// analyzer described in spec.md §3 ("CFG") and §4.1 ("Grammar Analyzer").
//
// The API shape is adapted from github.com/dekarrin/tunaq's
// internal/ictiobus/grammar package (Rule/Production/AddRule/AddTerm/
// Validate) and internal/tunascript/grammar.go (FIRST/FOLLOW fixpoints),
// generalized to carry an explicit epsilon-producer set rather than folding
// epsilon into FIRST itself (spec.md §9: "the spec standardizes on"
// membership in a separate symbols_with_epsilon set).
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/dekarrin/simc/internal/util"
)

// Epsilon is the sentinel empty-production symbol. It never appears as a
// grammar symbol name; a Production containing it denotes that the
// production derives the empty string.
const Epsilon = ""

// Production is an ordered sequence of grammar symbol names (terminals
// lower-case, non-terminals upper-case, by the teacher's own convention --
// see IsTerminal for the authoritative check). A zero-length Production is
// an epsilon production.
type Production []string

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	return strings.Join(p, " ")
}

func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Production) Copy() Production {
	cp := make(Production, len(p))
	copy(cp, p)
	return cp
}

// Rule is all productions for a single non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) HasProduction(p Production) bool {
	for _, existing := range r.Productions {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}

// Grammar is a context-free grammar: start symbol, terminal alphabet (each
// backed by a token.Class so human-readable diagnostics are possible),
// non-terminal alphabet, and production rules. It corresponds to spec.md §3
// "CFG".
type Grammar struct {
	start     string
	terms     map[string]token.Class
	termOrder []string
	nonTerms  map[string]bool
	ntOrder   []string
	rules     map[string]Rule
}

// New returns an empty, unusable Grammar; build one up with AddTerm/AddRule
// and set a start symbol with SetStart.
func New() *Grammar {
	return &Grammar{
		terms:    map[string]token.Class{},
		nonTerms: map[string]bool{},
		rules:    map[string]Rule{},
	}
}

// SetStart sets the grammar's start symbol. It does not need to have been
// declared as a non-terminal yet; Validate checks that invariant.
func (g *Grammar) SetStart(s string) {
	g.start = s
}

func (g Grammar) StartSymbol() string {
	return g.start
}

// AddTerm declares a terminal symbol backed by the given token class. The
// class's End property (matched via class.Equal(token.End)) marks it as the
// designated end-of-input symbol referenced throughout spec.md §3/§4.
func (g *Grammar) AddTerm(name string, class token.Class) {
	if _, ok := g.terms[name]; !ok {
		g.termOrder = append(g.termOrder, name)
	}
	g.terms[name] = class
}

// AddRule adds a single production to the rule for nonterminal. Declares
// nonterminal as a non-terminal if not already known.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if !g.nonTerms[nonterminal] {
		g.nonTerms[nonterminal] = true
		g.ntOrder = append(g.ntOrder, nonterminal)
	}

	r, ok := g.rules[nonterminal]
	if !ok {
		r = Rule{NonTerminal: nonterminal}
	}

	p := Production(production)
	if !r.HasProduction(p) {
		r.Productions = append(r.Productions, p)
	}
	g.rules[nonterminal] = r
}

// Rule returns the production rule for a non-terminal, or a zero-value Rule
// (no productions) if it is not defined.
func (g Grammar) Rule(nonterminal string) Rule {
	return g.rules[nonterminal]
}

// Terminals returns all declared terminal names, in declaration order.
func (g Grammar) Terminals() []string {
	out := make([]string, len(g.termOrder))
	copy(out, g.termOrder)
	return out
}

// NonTerminals returns all declared non-terminal names, in declaration order.
func (g Grammar) NonTerminals() []string {
	out := make([]string, len(g.ntOrder))
	copy(out, g.ntOrder)
	return out
}

// Term returns the token class backing a declared terminal.
func (g Grammar) Term(name string) token.Class {
	return g.terms[name]
}

// IsTerminal is the authoritative terminal/non-terminal test: membership in
// the declared terminal set, not a naming convention.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terms[sym]
	return ok
}

// IsNonTerminal reports whether sym was declared via AddRule.
func (g Grammar) IsNonTerminal(sym string) bool {
	return g.nonTerms[sym]
}

// EndTerminal returns the name of the unique terminal whose class carries
// the END special property, and true if exactly one such terminal exists.
func (g Grammar) EndTerminal() (string, bool) {
	found := ""
	count := 0
	for _, name := range g.termOrder {
		if g.terms[name].Equal(token.End) {
			found = name
			count++
		}
	}
	return found, count == 1
}

// Validate checks the invariants from spec.md §3/§7 InvalidGrammar:
//   - start_symbol is a declared non-terminal
//   - every RHS symbol is declared as a terminal or non-terminal
//   - exactly one terminal carries the END special property
func (g Grammar) Validate() error {
	var errs []string

	if g.start == "" {
		errs = append(errs, "no start symbol set")
	} else if !g.nonTerms[g.start] {
		errs = append(errs, fmt.Sprintf("start symbol %q is not a declared non-terminal", g.start))
	}

	if len(g.ntOrder) == 0 {
		errs = append(errs, "grammar has no non-terminals/rules")
	}

	if _, ok := g.EndTerminal(); !ok {
		errs = append(errs, "grammar must have exactly one terminal marked as the END symbol")
	}

	for _, nt := range g.ntOrder {
		for _, prod := range g.rules[nt].Productions {
			for _, sym := range prod {
				if sym == Epsilon {
					continue
				}
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					errs = append(errs, fmt.Sprintf("production %s -> %s references undeclared symbol %q", nt, prod.String(), sym))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid grammar:\n\t%s", strings.Join(errs, "\n\t"))
	}
	return nil
}

// GenerateUniqueName returns a non-terminal name derived from original that
// is not already in use, appending "'" marks until it is unique. Used by
// Augmented to mint the fresh start symbol (spec.md §4.2).
func (g Grammar) GenerateUniqueName(original string) string {
	name := original
	for g.nonTerms[name] || g.terms[name] != nil {
		name = name + "'"
	}
	return name
}

// Augmented returns G', the grammar augmented with a fresh start symbol S'
// and production S' -> S, per spec.md §4.2. Calling Augmented again on an
// already-augmented grammar is benign: it simply wraps another layer (spec.md
// §8 round-trip note), since there is no flag recording prior augmentation.
func (g Grammar) Augmented() Grammar {
	newStart := g.GenerateUniqueName(g.start + "'")

	ng := Grammar{
		start:    newStart,
		terms:    map[string]token.Class{},
		nonTerms: map[string]bool{},
		rules:    map[string]Rule{},
	}
	for _, t := range g.termOrder {
		ng.AddTerm(t, g.terms[t])
	}
	ng.AddRule(newStart, []string{g.start})
	for _, nt := range g.ntOrder {
		r := g.rules[nt]
		for _, p := range r.Productions {
			ng.AddRule(nt, []string(p.Copy()))
		}
	}
	return ng
}

// Copy returns a deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	ng := Grammar{start: g.start, terms: map[string]token.Class{}, nonTerms: map[string]bool{}, rules: map[string]Rule{}}
	for _, t := range g.termOrder {
		ng.AddTerm(t, g.terms[t])
	}
	for _, nt := range g.ntOrder {
		for _, p := range g.rules[nt].Productions {
			ng.AddRule(nt, []string(p.Copy()))
		}
	}
	return ng
}

func (g Grammar) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Grammar(start=%s){\n", g.start))
	nts := make([]string, len(g.ntOrder))
	copy(nts, g.ntOrder)
	sort.Strings(nts)
	for _, nt := range nts {
		var prodStrs []string
		for _, p := range g.rules[nt].Productions {
			prodStrs = append(prodStrs, p.String())
		}
		sb.WriteString(fmt.Sprintf("\t%s -> %s\n", nt, strings.Join(prodStrs, " | ")))
	}
	sb.WriteString("}")
	return sb.String()
}

// Analysis holds the computed FIRST/FOLLOW sets and epsilon-producer set for
// a grammar, as produced by Analyze. This is the "Grammar Analyzer"
// component of spec.md §2/§4.1, deliberately split out from Grammar itself
// so the fixpoint iteration is a visible, testable unit rather than buried in
// per-symbol lazy methods.
type Analysis struct {
	first  map[string]util.StringSet
	follow map[string]util.StringSet
	eps    util.StringSet
}

// First returns the FIRST set of a grammar symbol (terminal or
// non-terminal). A terminal's FIRST set is always just itself.
func (a *Analysis) First(sym string) util.StringSet {
	if s, ok := a.first[sym]; ok {
		return s
	}
	return util.NewStringSet()
}

// Follow returns the FOLLOW set of a non-terminal. Undefined for terminals.
func (a *Analysis) Follow(nonterm string) util.StringSet {
	if s, ok := a.follow[nonterm]; ok {
		return s
	}
	return util.NewStringSet()
}

// DerivesEpsilon reports whether the non-terminal can derive the empty
// string, per spec.md §4.1's dedicated symbols_with_epsilon set.
func (a *Analysis) DerivesEpsilon(nonterm string) bool {
	return a.eps.Has(nonterm)
}

// firstOfSequence computes FIRST(X1 X2 ... Xk) \ {ε} plus whether the whole
// sequence derives epsilon, per the spec.md §4.1 FIRST algorithm and the
// §4.4 grow_closure lookahead-propagation rule (FIRST(β) with the epsilon
// case folded in).
func (a *Analysis) firstOfSequence(seq []string) (util.StringSet, bool) {
	result := util.NewStringSet()
	for _, sym := range seq {
		if sym == Epsilon {
			return result, true
		}
		symFirst := a.First(sym)
		result.AddAll(symFirst)
		if !a.isEpsilonDeriving(sym) {
			return result, false
		}
	}
	return result, true
}

func (a *Analysis) isEpsilonDeriving(sym string) bool {
	if _, isTerm := a.first[sym]; isTerm && !a.eps.Has(sym) {
		// terminals are never epsilon-deriving; a symbol with a FIRST set
		// containing only itself and no eps membership is a terminal.
	}
	return a.eps.Has(sym)
}

// Analyze computes FIRST for every symbol and FOLLOW for every non-terminal
// of g, implementing the iterative fixpoint algorithms of spec.md §4.1.
// Returns InvalidGrammar if g has no END terminal (FOLLOW cannot seed
// FOLLOW(start) = {END} without one).
func Analyze(g Grammar) (*Analysis, error) {
	endSym, ok := g.EndTerminal()
	if !ok {
		return nil, fmt.Errorf("%w: grammar has no unique END terminal", ErrInvalidGrammar)
	}

	a := &Analysis{
		first:  map[string]util.StringSet{},
		follow: map[string]util.StringSet{},
		eps:    util.NewStringSet(),
	}

	// terminals: FIRST(a) = {a}
	for _, t := range g.Terminals() {
		a.first[t] = util.StringSetOf([]string{t})
	}
	// non-terminals start empty
	for _, nt := range g.NonTerminals() {
		a.first[nt] = util.NewStringSet()
		a.follow[nt] = util.NewStringSet()
	}

	// FIRST fixpoint
	changed := true
	for changed {
		changed = false
		for _, nt := range g.NonTerminals() {
			for _, prod := range g.Rule(nt).Productions {
				if len(prod) == 0 {
					if !a.eps.Has(nt) {
						a.eps.Add(nt)
						changed = true
					}
					continue
				}

				allEps := true
				for _, sym := range prod {
					before := a.first[nt].Len()
					a.first[nt].AddAll(a.First(sym))
					if a.first[nt].Len() != before {
						changed = true
					}
					if !a.isEpsilonDerivingDuringFixpoint(g, sym) {
						allEps = false
						break
					}
				}
				if allEps && !a.eps.Has(nt) {
					a.eps.Add(nt)
					changed = true
				}
			}
		}
	}

	// FOLLOW fixpoint. FOLLOW(start) always contains END.
	a.follow[g.StartSymbol()].Add(endSym)

	changed = true
	for changed {
		changed = false
		for _, nt := range g.NonTerminals() {
			for _, prod := range g.Rule(nt).Productions {
				for i, sym := range prod {
					if !g.IsNonTerminal(sym) {
						continue
					}
					beta := prod[i+1:]
					betaFirst, betaDerivesEps := a.firstOfSequence(beta)

					before := a.follow[sym].Len()
					a.follow[sym].AddAll(betaFirst)
					if betaDerivesEps {
						a.follow[sym].AddAll(a.follow[nt])
					}
					if a.follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return a, nil
}

// isEpsilonDerivingDuringFixpoint mirrors a.eps.Has but is safe to call while
// a.eps is still being populated within the same fixpoint pass: terminals
// never derive epsilon.
func (a *Analysis) isEpsilonDerivingDuringFixpoint(g Grammar, sym string) bool {
	if g.IsTerminal(sym) {
		return false
	}
	return a.eps.Has(sym)
}
