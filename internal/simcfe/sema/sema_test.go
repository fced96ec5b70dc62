package sema

import (
	"testing"

	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/ir"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(lexeme string) ast.Node {
	return ast.NewLeaf(token.New(token.MakeClass("t"), lexeme, 1, 1))
}

func typeNode(name string) ast.Node {
	return ast.NewComposite(ast.KindType, token.New(token.MakeClass("t"), name, 1, 1), []ast.Node{leaf(name)})
}

func constExpr(lexeme string) ast.Node {
	return ast.NewComposite(ast.KindConstExpr, token.New(token.MakeClass("t"), lexeme, 1, 1), []ast.Node{leaf(lexeme)})
}

func arith(op string, left, right ast.Node) ast.Node {
	return ast.NewComposite(ast.KindArithExpr, left.Source(), []ast.Node{left, leaf(op), right})
}

// buildProgram assembles `INT <funcName>() { RETURN <ret> }` as a program
// AST, matching spec.md §8 scenario 1's minimal program shape.
func buildProgram(funcName string, ret ast.Node) ast.Node {
	nameTok := token.New(token.MakeClass("t"), funcName, 1, 1)
	formals := ast.NewComposite(ast.KindFormalArgList, nameTok, nil)
	bodyDecls := ast.NewComposite(ast.KindDeclList, nameTok, nil)

	retStmt := ast.NewComposite(ast.KindReturnStmt, ret.Source(), []ast.Node{ret})
	bodyStmts := ast.NewComposite(ast.KindStmtList, nameTok, []ast.Node{retStmt})

	fn := ast.NewComposite(ast.KindFuncDecl, nameTok, []ast.Node{
		typeNode("INT"), leaf(funcName), formals, bodyDecls, bodyStmts,
	})
	decls := ast.NewComposite(ast.KindDeclList, nameTok, []ast.Node{fn})
	return ast.NewComposite(ast.KindProgram, nameTok, []ast.Node{decls})
}

func Test_Analyze_minimal_main(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	prog := buildProgram("main", constExpr("0"))
	symbols, scopes, code, err := Analyze(prog)
	require.NoError(err)

	main, ok := symbols.Lookup("main", scopes.Root())
	require.True(ok)
	assert.Equal(Function, main.Kind)
	assert.Equal(Int, main.DataType)
	assert.Empty(main.ArgList)
	assert.Equal(1, main.DirectChildScope)

	assert.NotEmpty(code)
	last := code[len(code)-1]
	assert.Equal(ir.GOTO, last.Op)
	assert.Equal(ir.Register{Kind: ir.RA}, last.Op1)
}

func Test_Analyze_missing_main(t *testing.T) {
	require := require.New(t)

	prog := buildProgram("helper", constExpr("0"))
	_, _, _, err := Analyze(prog)
	require.Error(err)

	var semErr *SemanticError
	require.ErrorAs(err, &semErr)
	assert.Equal(t, MissingMain, semErr.Kind)
}

// buildProgramStmts mirrors buildProgram but takes the function body's
// statement list directly, for tests that need more than a single return.
func buildProgramStmts(funcName string, stmts ...ast.Node) ast.Node {
	nameTok := token.New(token.MakeClass("t"), funcName, 1, 1)
	formals := ast.NewComposite(ast.KindFormalArgList, nameTok, nil)
	bodyDecls := ast.NewComposite(ast.KindDeclList, nameTok, nil)
	bodyStmts := ast.NewComposite(ast.KindStmtList, nameTok, stmts)

	fn := ast.NewComposite(ast.KindFuncDecl, nameTok, []ast.Node{
		typeNode("INT"), leaf(funcName), formals, bodyDecls, bodyStmts,
	})
	decls := ast.NewComposite(ast.KindDeclList, nameTok, []ast.Node{fn})
	return ast.NewComposite(ast.KindProgram, nameTok, []ast.Node{decls})
}

func Test_Analyze_ifelse_disambiguation_kinds_dispatch_like_base_kinds(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cond := constExpr("1")
	matched := ast.NewComposite(ast.KindIfElseMatchedStmt, cond.Source(), []ast.Node{
		constExpr("1"),
		ast.NewComposite(ast.KindStmtList, cond.Source(), nil),
		ast.NewComposite(ast.KindStmtList, cond.Source(), nil),
	})
	unmatched := ast.NewComposite(ast.KindIfElseUnmatchedStmt, cond.Source(), []ast.Node{
		constExpr("1"),
		ast.NewComposite(ast.KindStmtList, cond.Source(), nil),
	})
	ret := ast.NewComposite(ast.KindReturnStmt, cond.Source(), []ast.Node{constExpr("0")})

	prog := buildProgramStmts("main", matched, unmatched, ret)

	_, _, code, err := Analyze(prog)
	require.NoError(err)

	var gotoIfCount int
	for _, ins := range code {
		if ins.Op == ir.GOTO_IF {
			gotoIfCount++
		}
	}
	assert.Equal(2, gotoIfCount, "both disambiguation statements should have generated a conditional branch")
}

func Test_Analyze_precedence_temp_kinds_are_transparent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	wrapped := ast.NewComposite(ast.KindAtomicTempExpr, constExpr("3").Source(), []ast.Node{
		ast.NewComposite(ast.KindMulTempExpr, constExpr("3").Source(), []ast.Node{constExpr("3")}),
	})
	prog := buildProgram("main", wrapped)

	_, _, code, err := Analyze(prog)
	require.NoError(err)

	var sawFoldedConst bool
	for _, ins := range code {
		if ins.Op == ir.ASSIGN {
			if c, ok := ins.Op2.(ir.Const); ok && c.Literal == "3" {
				sawFoldedConst = true
			}
		}
	}
	assert.True(sawFoldedConst, "wrapped constant should pass through both temp kinds unchanged")
}

func Test_Analyze_constant_folding(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// 2 + 3 * 4 == 14, folded entirely at semantic time: no ADD/MUL
	// instruction should appear in the emitted code.
	expr := arith("+", constExpr("2"), arith("*", constExpr("3"), constExpr("4")))
	prog := buildProgram("main", expr)

	_, _, code, err := Analyze(prog)
	require.NoError(err)

	for _, ins := range code {
		assert.NotEqual(ir.ADD, ins.Op, "arithmetic should have folded, not emitted ADD")
		assert.NotEqual(ir.MUL, ins.Op, "arithmetic should have folded, not emitted MUL")
	}

	var sawFoldedConst bool
	for _, ins := range code {
		if ins.Op == ir.ASSIGN {
			if c, ok := ins.Op2.(ir.Const); ok && c.Literal == "14" {
				sawFoldedConst = true
			}
		}
	}
	assert.True(sawFoldedConst, "expected a materialized ASSIGN of the folded constant 14")
}

func Test_SymbolTable_duplicate_rejected(t *testing.T) {
	table := NewSymbolTable()
	require.NoError(t, table.Insert(Entry{Name: "x", Kind: Variable, ScopeID: 0, DataType: Int}))

	err := table.Insert(Entry{Name: "x", Kind: Variable, ScopeID: 0, DataType: Int})
	require.Error(t, err)

	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, DuplicateDeclaration, semErr.Kind)
}

func Test_ScopeTable_forest_invariant(t *testing.T) {
	assert := assert.New(t)

	scopes := NewScopeTable()
	child := scopes.OpenScope()
	assert.Equal(1, child)

	parent, ok := scopes.Parent(child)
	assert.True(ok)
	assert.Equal(0, parent)

	_, ok = scopes.Parent(0)
	assert.False(ok, "root scope must have no parent")

	scopes.CloseScope()
	assert.Equal(0, scopes.Current())
}

func Test_SymbolTable_String_dump(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	require.NoError(t, table.Insert(Entry{Name: "x", Kind: Variable, ScopeID: 0, DataType: Int, MemorySize: 4}))
	require.NoError(t, table.Insert(Entry{Name: "nums", Kind: Array, ScopeID: 0, DataType: Int, MemorySize: 40, ArrayLength: 10}))
	require.NoError(t, table.Insert(Entry{Name: "main", Kind: Function, ScopeID: 0, DataType: Int, ArgList: []string{"argc"}}))

	dump := table.String()
	assert.Contains(dump, "x")
	assert.Contains(dump, "nums")
	assert.Contains(dump, "len=10")
	assert.Contains(dump, "args=(argc)")
}

func Test_ScopeTable_String_dump(t *testing.T) {
	assert := assert.New(t)

	scopes := NewScopeTable()
	child := scopes.OpenScope()
	_ = child
	scopes.CloseScope()

	dump := scopes.String()
	assert.Contains(dump, "scope 0")
	assert.Contains(dump, "scope 1")
}
