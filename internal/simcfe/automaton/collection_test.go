package automaton

import (
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/item"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/dekarrin/simc/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// distinguishingGrammar is the textbook grammar canonical LR(1) exists to
// handle correctly (purple dragon book §4.7): S' -> S, S -> a E a | b E b |
// a F b | b F a, E -> e, F -> e. The states reached after shifting 'a' then
// 'e' and after shifting 'b' then 'e' each contain an item with core
// [E -> e .] (and
// separately [F -> e .]), but with disjoint lookahead sets (a vs b) -- an
// SLR(1)/LALR(1) construction conflates them, a canonical one must not.
func distinguishingGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("a", token.MakeClass("a"))
	g.AddTerm("b", token.MakeClass("b"))
	g.AddTerm("e", token.MakeClass("e"))
	g.AddTerm("$", token.End)

	g.AddRule("S", []string{"a", "E", "a"})
	g.AddRule("S", []string{"b", "E", "b"})
	g.AddRule("S", []string{"a", "F", "b"})
	g.AddRule("S", []string{"b", "F", "a"})
	g.AddRule("E", []string{"e"})
	g.AddRule("F", []string{"e"})

	g.SetStart("S")
	return *g
}

func Test_NewLR1Collection_keeps_same_core_different_lookahead_distinct(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := distinguishingGrammar()
	dfa, pool, err := NewLR1Collection(g)
	require.NoError(err)
	require.NotNil(pool)

	// Find the state reached after shifting 'a' and the state reached after
	// shifting 'b' from the start state.
	afterA := dfa.Next(dfa.Start, "a")
	afterB := dfa.Next(dfa.Start, "b")
	require.NotEmpty(afterA)
	require.NotEmpty(afterB)
	require.NotEqual(afterA, afterB)

	stateAfterA := dfa.Next(afterA, "e")
	stateAfterB := dfa.Next(afterB, "e")
	require.NotEmpty(stateAfterA)
	require.NotEmpty(stateAfterB)

	// These two states both hold the completed item E -> e ., but must not
	// be the same DFA state and must not carry the same lookahead: one
	// expects only 'a' next, the other only 'b'.
	assert.NotEqual(stateAfterA, stateAfterB)

	setA := dfa.GetValue(stateAfterA)
	setB := dfa.GetValue(stateAfterB)

	findEItem := func(set map[string]*item.LR1) *item.LR1 {
		for _, it := range set {
			if it.Core.NonTerminal == "E" && it.Core.Complete() {
				return it
			}
		}
		return nil
	}

	eItemA := findEItem(setA)
	eItemB := findEItem(setB)
	require.NotNil(eItemA)
	require.NotNil(eItemB)

	assert.True(eItemA.Lookahead.Has("a"))
	assert.False(eItemA.Lookahead.Has("b"))
	assert.True(eItemB.Lookahead.Has("b"))
	assert.False(eItemB.Lookahead.Has("a"))

	// The pool must not have silently unioned these two items' lookaheads
	// into one shared entry just because they share a core.
	assert.NotSame(eItemA, eItemB)
}

func Test_Pool_Intern_keys_by_full_identity_not_core_alone(t *testing.T) {
	assert := assert.New(t)

	pool := item.NewPool()

	core := item.LR0{NonTerminal: "E", ToParse: []string{"e"}}

	aOnly := util.StringSetOf([]string{"a"})
	bOnly := util.StringSetOf([]string{"b"})

	first, isNew := pool.Intern(&item.LR1{Core: core, Lookahead: aOnly})
	assert.True(isNew)
	assert.True(first.Lookahead.Has("a"))
	assert.False(first.Lookahead.Has("b"))

	second, isNew := pool.Intern(&item.LR1{Core: core, Lookahead: bOnly})
	assert.True(isNew)
	assert.NotSame(first, second)
	assert.True(second.Lookahead.Has("b"))
	assert.False(second.Lookahead.Has("a"))

	// Interning the exact same (core, lookahead) pair again returns the
	// existing pointer instead of allocating a new one.
	third, isNew := pool.Intern(&item.LR1{Core: core, Lookahead: aOnly})
	assert.False(isNew)
	assert.Same(first, third)

	assert.Equal(2, pool.Len())
}
