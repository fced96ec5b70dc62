package parse

import (
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar builds a tiny left-recursive expression grammar:
//
//	E -> E plus T | T
//	T -> id
//
// small enough to hand-verify the resulting SLR(1) table and AST shape,
// used the way tunaq's own parse package tests exercise toy grammars rather
// than the full SimC grammar document.
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

func exprMapping() ast.Mapping {
	m := ast.Mapping{}
	m.Set("E", []string{"E", "plus", "T"}, ast.KindArithExpr)
	m.Set("E", []string{"T"}, ast.KindParenExpr)
	m.Set("T", []string{"id"}, ast.KindVarExpr)
	return m
}

func idTok(lexeme string) token.Token {
	return token.New(token.MakeClass("id"), lexeme, 1, 1)
}

func plusTok() token.Token {
	return token.New(token.MakeClass("plus"), "+", 1, 1)
}

func Test_GenerateSLRTable_and_Driver_Parse(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := exprGrammar()
	table, warns, err := GenerateSLRTable(g, false)
	require.NoError(err)
	assert.Empty(warns)

	stream := token.NewSliceStream([]token.Token{idTok("a"), plusTok(), idTok("b"), plusTok(), idTok("c")})

	d := &Driver{Table: table, Gram: g, Mapping: exprMapping()}
	root, err := d.Parse(stream)
	require.NoError(err)

	// (a + b) + c, left-associative: outermost node is the rightmost plus.
	assert.Equal(ast.KindArithExpr, root.Kind())
	require.Len(root.Children(), 3)
	assert.Equal(ast.KindArithExpr, root.Children()[0].Kind())
	assert.Equal("c", ast.Lexeme(ast.Child(ast.Child(root, 2), 0)))
}

func Test_Driver_Parse_rejects_bad_input(t *testing.T) {
	require := require.New(t)

	g := exprGrammar()
	table, _, err := GenerateSLRTable(g, false)
	require.NoError(err)

	stream := token.NewSliceStream([]token.Token{plusTok()})

	d := &Driver{Table: table, Gram: g, Mapping: exprMapping()}
	_, err = d.Parse(stream)
	require.Error(err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func Test_Driver_Parse_rejects_undeclared_token_class(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := exprGrammar()
	table, _, err := GenerateSLRTable(g, false)
	require.NoError(err)

	minusTok := token.New(token.MakeClass("minus"), "-", 1, 1)
	stream := token.NewSliceStream([]token.Token{idTok("a"), minusTok})

	d := &Driver{Table: table, Gram: g, Mapping: exprMapping()}
	_, err = d.Parse(stream)
	require.Error(err)
	assert.ErrorIs(err, ErrUnknownToken)

	var unknownErr *UnknownTokenError
	require.ErrorAs(err, &unknownErr)
	assert.Equal("minus", unknownErr.Token.Class().ID())
}

func Test_Driver_Parse_missing_mapping(t *testing.T) {
	require := require.New(t)

	g := exprGrammar()
	table, _, err := GenerateSLRTable(g, false)
	require.NoError(err)

	stream := token.NewSliceStream([]token.Token{idTok("a")})

	d := &Driver{Table: table, Gram: g, Mapping: ast.Mapping{}}
	_, err = d.Parse(stream)
	require.Error(err)
	assert.ErrorIs(t, err, ast.ErrSemanticMappingMissing)
}

func Test_GenerateCanonicalLR1Table_accepts_same_grammar(t *testing.T) {
	require := require.New(t)

	g := exprGrammar()
	table, err := GenerateCanonicalLR1Table(g)
	require.NoError(err)

	stream := token.NewSliceStream([]token.Token{idTok("a"), plusTok(), idTok("b")})
	d := &Driver{Table: table, Gram: g, Mapping: exprMapping()}

	root, err := d.Parse(stream)
	require.NoError(err)
	assert.Equal(t, ast.KindArithExpr, root.Kind())
}
