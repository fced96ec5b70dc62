package tablecache

import (
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/parse"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar mirrors parse.exprGrammar: a tiny left-recursive expression
// grammar small enough to hand-verify a round-tripped snapshot against.
func exprGrammar() grammar.Grammar {
	g := grammar.New()
	g.AddTerm("plus", token.MakeClass("plus"))
	g.AddTerm("id", token.MakeClass("id"))
	g.AddTerm("$", token.End)

	g.AddRule("E", []string{"E", "plus", "T"})
	g.AddRule("E", []string{"T"})
	g.AddRule("T", []string{"id"})

	g.SetStart("E")
	return *g
}

func Test_Snapshot_roundtrips_table_semantics(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := exprGrammar()
	table, _, err := parse.GenerateSLRTable(g, false)
	require.NoError(err)

	snap := TakeSnapshot(g, table, "slr1")
	rehydrated := snap.Table()

	assert.Equal(table.Initial(), rehydrated.Initial())
	assert.ElementsMatch(table.States(), rehydrated.States())

	for _, state := range table.States() {
		for _, term := range g.Terminals() {
			assert.Equal(table.Action(state, term), rehydrated.Action(state, term), "state=%s term=%s", state, term)
		}
		for _, sym := range append(append([]string{}, g.NonTerminals()...), g.Terminals()...) {
			wantTarget, wantErr := table.Goto(state, sym)
			gotTarget, gotErr := rehydrated.Goto(state, sym)
			if wantErr != nil {
				assert.Error(gotErr)
			} else {
				require.NoError(gotErr)
				assert.Equal(wantTarget, gotTarget)
			}
		}
	}
}
