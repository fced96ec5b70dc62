package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadMappingDocument(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	doc := strings.NewReader(`
rules:
  - non_terminal: E
    production: [E, plus, T]
    kind: expr_arith
  - non_terminal: E
    production: [T]
    kind: expr_paren
  - non_terminal: T
    production: []
    kind: expr_var
`)

	m, err := LoadMappingDocument(doc)
	require.NoError(err)

	k, err := m.Lookup("E", []string{"E", "plus", "T"})
	require.NoError(err)
	assert.Equal(KindArithExpr, k)

	k, err = m.Lookup("T", nil)
	require.NoError(err)
	assert.Equal(KindVarExpr, k)
}

func Test_LoadMappingDocument_rejects_unknown_kind(t *testing.T) {
	require := require.New(t)

	doc := strings.NewReader(`
rules:
  - non_terminal: E
    production: [T]
    kind: not_a_real_kind
`)

	_, err := LoadMappingDocument(doc)
	require.Error(err)
	require.ErrorIs(err, ErrInvalidMapping)
}
