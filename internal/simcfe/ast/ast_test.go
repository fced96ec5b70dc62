package ast

import (
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/stretchr/testify/assert"
)

func tok(class token.Class, lexeme string) token.Token {
	return token.New(class, lexeme, 1, 1)
}

func Test_Kind_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Kind
		expect string
	}{
		{name: "program", input: KindProgram, expect: "program"},
		{name: "while", input: KindWhileStmt, expect: "while_stmt"},
		{name: "unknown", input: Kind(9999), expect: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.input.String())
		})
	}
}

func Test_KindByName(t *testing.T) {
	k, ok := KindByName("expr_const")
	assert.True(t, ok)
	assert.Equal(t, KindConstExpr, k)

	_, ok = KindByName("not_a_kind")
	assert.False(t, ok)
}

func Test_NewLeaf(t *testing.T) {
	assert := assert.New(t)
	leaf := NewLeaf(tok(token.MakeClass("IDENT"), "x"))

	assert.Equal(KindTerminal, leaf.Kind())
	assert.Empty(leaf.Children())
	assert.Equal("x", Lexeme(leaf))
}

func Test_Lexeme_panics_on_composite(t *testing.T) {
	composite := NewComposite(KindVarDecl, tok(token.MakeClass("IDENT"), "x"), nil)
	assert.Panics(t, func() { Lexeme(composite) })
}

func Test_NewComposite_String(t *testing.T) {
	assert := assert.New(t)

	leafTok := tok(token.MakeClass("IDENT"), "x")
	leaf := NewLeaf(leafTok)
	decl := NewComposite(KindVarDecl, leafTok, []Node{leaf})

	assert.Equal(KindVarDecl, decl.Kind())
	assert.Equal([]Node{leaf}, decl.Children())
	assert.Equal(`var_decl(terminal("x"))`, decl.String())
}

func Test_Child(t *testing.T) {
	assert := assert.New(t)

	leafTok := tok(token.MakeClass("IDENT"), "x")
	leaf := NewLeaf(leafTok)
	decl := NewComposite(KindVarDecl, leafTok, []Node{leaf})

	assert.Equal(leaf, Child(decl, 0))
	assert.Panics(func() { Child(decl, 1) })
}

func Test_Mapping_Lookup(t *testing.T) {
	assert := assert.New(t)

	m := Mapping{}
	m.Set("VAR_DECL", []string{"TYPE", "IDENT", "SEMI"}, KindVarDecl)

	k, err := m.Lookup("VAR_DECL", []string{"TYPE", "IDENT", "SEMI"})
	assert.NoError(err)
	assert.Equal(KindVarDecl, k)

	_, err = m.Lookup("VAR_DECL", []string{"TYPE", "IDENT"})
	assert.ErrorIs(err, ErrSemanticMappingMissing)
}
