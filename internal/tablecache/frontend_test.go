package tablecache

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/simc/internal/simcfe"
	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprMapping() ast.Mapping {
	m := ast.Mapping{}
	m.Set("E", []string{"E", "plus", "T"}, ast.KindArithExpr)
	m.Set("E", []string{"T"}, ast.KindParenExpr)
	m.Set("T", []string{"id"}, ast.KindVarExpr)
	return m
}

func Test_Store_Frontend_misses_then_hits(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	s, err := Open(filepath.Join(t.TempDir(), "tables.db"))
	require.NoError(err)
	defer s.Close()

	g := exprGrammar()
	mapping := exprMapping()
	opts := simcfe.Options{Algorithm: simcfe.SLR1}

	fe1, hit1, err := s.Frontend(g, mapping, opts)
	require.NoError(err)
	assert.False(hit1)
	require.NotNil(fe1)

	fe2, hit2, err := s.Frontend(g, mapping, opts)
	require.NoError(err)
	assert.True(hit2)
	assert.Equal(fe1.Table.Initial(), fe2.Table.Initial())
}
