package tablecache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store_Get_miss_returns_ErrNotFound(t *testing.T) {
	require := require.New(t)

	s, err := Open(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(err)
	defer s.Close()

	_, err = s.Get(HashGrammar(exprGrammar(), "slr1", false))
	require.ErrorIs(err, ErrNotFound)
}

func Test_Store_Put_then_Get_roundtrips(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := Open(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(err)
	defer s.Close()

	g := exprGrammar()
	table, _, err := parse.GenerateSLRTable(g, false)
	require.NoError(err)

	key := HashGrammar(g, "slr1", false)
	require.NoError(s.Put(key, g, table, "slr1"))

	cached, err := s.Get(key)
	require.NoError(err)
	assert.Equal(table.Initial(), cached.Initial())
	assert.ElementsMatch(table.States(), cached.States())
}

func Test_HashGrammar_stable_and_sensitive_to_productions(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar()
	k1 := HashGrammar(g, "slr1", false)
	k2 := HashGrammar(g, "slr1", false)
	assert.Equal(k1, k2)

	g2 := exprGrammar()
	g2.AddRule("T", []string{"id", "plus", "id"})
	k3 := HashGrammar(g2, "slr1", false)
	assert.NotEqual(k1, k3)

	k4 := HashGrammar(g, "lr1", false)
	assert.NotEqual(k1, k4)
}
