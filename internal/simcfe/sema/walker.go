// Package sema implements the semantic engine of spec.md §4.7: a single
// post-order AST walk that fills a SymbolTable and ScopeTable while also
// driving intermediate-code emission through an ir.Environment, since
// spec.md §4.7 ties validation and code generation into the same traversal
// ("each node exposes an intermediate-code list populated after its
// children have theirs").
package sema

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/ir"
)

// Result is what walking a single AST node produces: its inferred type (for
// expressions), whether it folds to a compile-time constant (spec.md §4.7's
// only permitted AST rewrite), the code emitted for it, its result
// register (if it has one), and whether it counts as containing a RETURN
// (used to enforce "at least one RETURN on the direct body" at the
// enclosing FuncDecl): a statement list does if any of its statements does,
// an IF if its body does, an IF-ELSE only if both branches do, and a WHILE
// never does.
type Result struct {
	Type      Type
	Const     bool
	Literal   string
	Code      []ir.Instruction
	Reg       ir.Operand
	HasReturn bool
}

// Walker runs the traversal. Node-shape assumption (documented once here
// since ast.Node carries no typed fields, only a Kind tag and an ordered
// Children() list — see DESIGN.md's ast entry for why): every Kind's
// children are in the exact order its grammar production would attach
// them, e.g. KindArithExpr is always [left, operator-terminal, right].
type Walker struct {
	Symbols *SymbolTable
	Scopes  *ScopeTable
	Env     *ir.Environment

	funcReturnType []Type
}

// NewWalker returns a walker with fresh, empty tables and environment.
func NewWalker() *Walker {
	return &Walker{
		Symbols: NewSymbolTable(),
		Scopes:  NewScopeTable(),
		Env:     ir.NewEnvironment(),
	}
}

// Analyze runs the full semantic pass over root (expected to be a
// KindProgram node) and returns the filled tables plus the final
// intermediate-code listing.
func Analyze(root ast.Node) (*SymbolTable, *ScopeTable, []ir.Instruction, error) {
	w := NewWalker()
	res, err := w.walk(root)
	if err != nil {
		return nil, nil, nil, err
	}
	return w.Symbols, w.Scopes, res.Code, nil
}

func (w *Walker) walk(n ast.Node) (*Result, error) {
	switch n.Kind() {
	case ast.KindProgram:
		return w.walkProgram(n)
	case ast.KindDeclList:
		return w.walkDeclList(n)
	case ast.KindVarDecl:
		return w.walkVarDecl(n)
	case ast.KindArrayDecl:
		return w.walkArrayDecl(n)
	case ast.KindFuncDecl:
		return w.walkFuncDecl(n)
	case ast.KindStmtList:
		return w.walkStmtList(n)
	case ast.KindAssignStmt:
		return w.walkAssignStmt(n)
	case ast.KindArrayAssignStmt:
		return w.walkArrayAssignStmt(n)
	case ast.KindIfStmt:
		return w.walkIfStmt(n)
	case ast.KindIfElseStmt, ast.KindIfElseMatchedStmt, ast.KindIfElseChainStmt:
		return w.walkIfElseStmt(n)
	case ast.KindIfElseUnmatchedStmt:
		// an unmatched-statement production either still carries an else
		// branch (its tail is itself unmatched) or terminates a chain with a
		// bare if; both shapes dispatch on the child count the mapping
		// document actually gave the node.
		if len(n.Children()) == 3 {
			return w.walkIfElseStmt(n)
		}
		return w.walkIfStmt(n)
	case ast.KindWhileStmt:
		return w.walkWhileStmt(n)
	case ast.KindReturnStmt:
		return w.walkReturnStmt(n)
	case ast.KindCompoundStmt:
		return w.walk(ast.Child(n, 0)) // compound statements do not open a scope
	case ast.KindFuncCallStmt:
		return w.walkFuncCallExpr(ast.Child(n, 0))
	case ast.KindConstExpr:
		return w.walkConstExpr(n)
	case ast.KindVarExpr:
		return w.walkVarExpr(n)
	case ast.KindFuncCallExpr:
		return w.walkFuncCallExpr(n)
	case ast.KindArrayIndexExpr:
		return w.walkArrayIndexExpr(n)
	case ast.KindArithExpr:
		return w.walkArithExpr(n)
	case ast.KindParenExpr, ast.KindMulTempExpr, ast.KindAtomicTempExpr:
		return w.walk(ast.Child(n, 0)) // precedence grouping, transparent to semantics
	case ast.KindBoolExpr:
		return w.walkBoolExpr(n)
	default:
		return nil, fmt.Errorf("sema: no walk rule for node kind %s", n.Kind())
	}
}

func (w *Walker) walkProgram(n ast.Node) (*Result, error) {
	res, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}

	main, ok := w.Symbols.Lookup("main", w.Scopes.Root())
	if !ok || main.Kind != Function {
		return nil, newErr(MissingMain, "Main function not found")
	}
	if main.DataType != Int {
		return nil, newErr(MissingMain, "main must return INT")
	}
	if len(main.ArgList) != 0 {
		return nil, newErr(MissingMain, "main must take no arguments")
	}

	return res, nil
}

func (w *Walker) walkDeclList(n ast.Node) (*Result, error) {
	var code []ir.Instruction
	for _, child := range n.Children() {
		res, err := w.walk(child)
		if err != nil {
			return nil, err
		}
		code = append(code, res.Code...)
	}
	return &Result{Code: code}, nil
}

// walkType resolves a KindType node ([terminal type-name]) to a Type.
func (w *Walker) walkType(n ast.Node) (Type, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	t, ok := ParseType(name)
	if !ok {
		return 0, fmt.Errorf("sema: unknown type keyword %q", name)
	}
	return t, nil
}

func (w *Walker) walkVarDecl(n ast.Node) (*Result, error) {
	typ, err := w.walkType(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	name := ast.Lexeme(ast.Child(n, 1))

	if typ == Void {
		return nil, newErr(VoidDeclaration, "variable %q cannot have type VOID", name)
	}

	scope := w.Scopes.Current()
	if err := w.Symbols.Insert(Entry{Name: name, Kind: Variable, ScopeID: scope, DataType: typ, MemorySize: typ.Size()}); err != nil {
		return nil, err
	}

	w.Env.SetVarRegister(scope, name, w.Env.AllocT(scope))
	return &Result{}, nil
}

func (w *Walker) walkArrayDecl(n ast.Node) (*Result, error) {
	typ, err := w.walkType(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	name := ast.Lexeme(ast.Child(n, 1))
	lengthLex := ast.Lexeme(ast.Child(n, 2))

	var length int
	if _, scanErr := fmt.Sscanf(lengthLex, "%d", &length); scanErr != nil || length <= 0 {
		return nil, newErr(InvalidArrayLength, "array %q must have a positive length, got %q", name, lengthLex)
	}

	scope := w.Scopes.Current()
	entry := Entry{Name: name, Kind: Array, ScopeID: scope, DataType: typ, ArrayLength: length, MemorySize: typ.Size() * length}
	if err := w.Symbols.Insert(entry); err != nil {
		return nil, err
	}

	w.Env.SetArrayRegister(scope, name, w.Env.AllocT(scope))
	return &Result{}, nil
}

func (w *Walker) walkFuncDecl(n ast.Node) (*Result, error) {
	returnType, err := w.walkType(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	name := ast.Lexeme(ast.Child(n, 1))
	formals, err := w.walkFormalArgList(ast.Child(n, 2))
	if err != nil {
		return nil, err
	}

	parentScope := w.Scopes.Current()
	argNames := make([]string, len(formals))
	for i, f := range formals {
		argNames[i] = f.Name
	}

	if err := w.Symbols.Insert(Entry{
		Name: name, Kind: Function, ScopeID: parentScope, DataType: returnType,
		ArgList: argNames, DirectChildScope: -1,
	}); err != nil {
		return nil, err
	}

	childScope := w.Scopes.OpenScope()
	w.Symbols.SetDirectChildScope(name, parentScope, childScope)

	for _, f := range formals {
		if _, ok := w.Symbols.Lookup(f.Name, childScope); ok {
			w.Scopes.CloseScope()
			return nil, newErr(DuplicateDeclaration, "formal %q duplicated in function %q", f.Name, name)
		}
		if err := w.Symbols.Insert(Entry{Name: f.Name, Kind: Variable, ScopeID: childScope, DataType: f.Type, MemorySize: f.Type.Size()}); err != nil {
			w.Scopes.CloseScope()
			return nil, err
		}
		w.Env.SetVarRegister(childScope, f.Name, w.Env.AllocT(childScope))
	}

	w.funcReturnType = append(w.funcReturnType, returnType)

	bodyDeclsRes, err := w.walk(ast.Child(n, 3))
	if err != nil {
		w.Scopes.CloseScope()
		return nil, err
	}
	bodyStmtsRes, err := w.walk(ast.Child(n, 4))
	if err != nil {
		w.Scopes.CloseScope()
		return nil, err
	}

	w.funcReturnType = w.funcReturnType[:len(w.funcReturnType)-1]
	w.Scopes.CloseScope()

	if !bodyStmtsRes.HasReturn {
		return nil, newErr(MissingReturn, "function %q has no RETURN statement in its body", name)
	}

	code := w.functionHeader(name, formals, childScope)
	code = append(code, bodyDeclsRes.Code...)
	code = append(code, bodyStmtsRes.Code...)

	return &Result{Code: code, HasReturn: true}, nil
}

// functionHeader builds the copy-Ri-into-Ti header spec.md §4.7 describes,
// labeled with the function's globally unique entry label.
func (w *Walker) functionHeader(name string, formals []formalArg, childScope int) []ir.Instruction {
	var code []ir.Instruction
	for i, f := range formals {
		t, _ := w.Env.VarRegister(childScope, f.Name)
		ins := ir.Instruction{Op: ir.ASSIGN, Op1: t, Op2: ir.Register{Kind: ir.RGeneral, ID: i + 1}}
		if i == 0 {
			ins = ir.Labeled(w.Env.FuncLabel(name), ins)
		}
		code = append(code, ins)
	}
	if len(code) == 0 {
		code = append(code, ir.EmptyLabel(w.Env.FuncLabel(name)))
	}
	return code
}

type formalArg struct {
	Name string
	Type Type
}

func (w *Walker) walkFormalArgList(n ast.Node) ([]formalArg, error) {
	var out []formalArg
	for _, child := range n.Children() {
		typ, err := w.walkType(ast.Child(child, 0))
		if err != nil {
			return nil, err
		}
		name := ast.Lexeme(ast.Child(child, 1))
		out = append(out, formalArg{Name: name, Type: typ})
	}
	return out, nil
}

func (w *Walker) walkStmtList(n ast.Node) (*Result, error) {
	var code []ir.Instruction
	hasReturn := false
	for _, child := range n.Children() {
		res, err := w.walk(child)
		if err != nil {
			return nil, err
		}
		code = append(code, res.Code...)
		hasReturn = hasReturn || res.HasReturn
	}
	return &Result{Code: code, HasReturn: hasReturn}, nil
}

// ensureReg materializes res's result register if it doesn't already have
// one (i.e. res folded to a constant and was never assigned a T-register),
// appending the ASSIGN that does so.
func (w *Walker) ensureReg(scope int, res *Result) (ir.Operand, []ir.Instruction) {
	if res.Reg != nil {
		return res.Reg, nil
	}
	t := w.Env.AllocT(scope)
	return t, []ir.Instruction{{Op: ir.ASSIGN, Op1: t, Op2: ir.Const{Literal: res.Literal}}}
}

func (w *Walker) walkAssignStmt(n ast.Node) (*Result, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	scope := w.Scopes.Current()

	entry, _, ok := w.Symbols.Resolve(w.Scopes, name, scope)
	if !ok || entry.Kind != Variable {
		return nil, newErr(UndeclaredUse, "%q is not a declared variable", name)
	}

	rhs, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}
	if rhs.Type != entry.DataType {
		return nil, newErr(TypeMismatch, "cannot assign %s to variable %q of type %s", rhs.Type, name, entry.DataType)
	}

	destReg, _ := w.Env.VarRegister(entry.ScopeID, name)
	rhsReg, materialize := w.ensureReg(scope, rhs)

	code := append(append([]ir.Instruction{}, rhs.Code...), materialize...)
	code = append(code, ir.Instruction{Op: ir.ASSIGN, Op1: destReg, Op2: rhsReg})
	return &Result{Code: code}, nil
}

func (w *Walker) walkArrayAssignStmt(n ast.Node) (*Result, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	scope := w.Scopes.Current()

	entry, _, ok := w.Symbols.Resolve(w.Scopes, name, scope)
	if !ok || entry.Kind != Array {
		return nil, newErr(UndeclaredUse, "%q is not a declared array", name)
	}

	idx, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}
	if idx.Type != Int {
		return nil, newErr(ArrayIndexNotInt, "index into %q must be INT", name)
	}

	val, err := w.walk(ast.Child(n, 2))
	if err != nil {
		return nil, err
	}
	if val.Type != entry.DataType {
		return nil, newErr(TypeMismatch, "cannot assign %s into array %q of type %s", val.Type, name, entry.DataType)
	}

	baseReg, _ := w.Env.ArrayRegister(entry.ScopeID, name)
	idxReg, idxMat := w.ensureReg(scope, idx)
	valReg, valMat := w.ensureReg(scope, val)
	addrReg := w.Env.AllocT(scope)

	code := append(append([]ir.Instruction{}, idx.Code...), idxMat...)
	code = append(code, val.Code...)
	code = append(code, valMat...)
	code = append(code, ir.Instruction{Op: ir.ADD, Op1: addrReg, Op2: baseReg, Op3: idxReg})
	code = append(code, ir.Instruction{Op: ir.STORE, Op1: addrReg, Op2: valReg})
	return &Result{Code: code}, nil
}

func (w *Walker) walkIfStmt(n ast.Node) (*Result, error) {
	scope := w.Scopes.Current()
	cond, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	if cond.Type != Int {
		return nil, newErr(TypeMismatch, "IF condition must be a boolean/INT expression")
	}
	body, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}

	condReg, condMat := w.ensureReg(scope, cond)
	lTrue := w.Env.NewLabel(scope)
	lEnd := w.Env.NewLabel(scope)

	code := append(append([]ir.Instruction{}, cond.Code...), condMat...)
	code = append(code, ir.Instruction{Op: ir.GOTO_IF, Op1: condReg, Op2: ir.Label{Name: lTrue}})
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: lEnd}})
	code = append(code, ir.EmptyLabel(lTrue))
	code = append(code, body.Code...)
	code = append(code, ir.EmptyLabel(lEnd))

	return &Result{Code: code, HasReturn: body.HasReturn}, nil
}

func (w *Walker) walkIfElseStmt(n ast.Node) (*Result, error) {
	scope := w.Scopes.Current()
	cond, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	if cond.Type != Int {
		return nil, newErr(TypeMismatch, "IF condition must be a boolean/INT expression")
	}
	thenRes, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}
	elseRes, err := w.walk(ast.Child(n, 2))
	if err != nil {
		return nil, err
	}

	condReg, condMat := w.ensureReg(scope, cond)
	lTrue := w.Env.NewLabel(scope)
	lFalse := w.Env.NewLabel(scope)
	lEnd := w.Env.NewLabel(scope)

	code := append(append([]ir.Instruction{}, cond.Code...), condMat...)
	code = append(code, ir.Instruction{Op: ir.GOTO_IF, Op1: condReg, Op2: ir.Label{Name: lTrue}})
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: lFalse}})
	code = append(code, ir.EmptyLabel(lTrue))
	code = append(code, thenRes.Code...)
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: lEnd}})
	code = append(code, ir.EmptyLabel(lFalse))
	code = append(code, elseRes.Code...)
	code = append(code, ir.EmptyLabel(lEnd))

	return &Result{Code: code, HasReturn: thenRes.HasReturn && elseRes.HasReturn}, nil
}

// walkWhileStmt implements the spec.md §9-corrected loop template: the
// source omits the back-edge from the end of the body to L_start, which is
// what makes the condition re-evaluate on every iteration.
func (w *Walker) walkWhileStmt(n ast.Node) (*Result, error) {
	scope := w.Scopes.Current()
	lStart := w.Env.NewLabel(scope)
	lBody := w.Env.NewLabel(scope)
	lEnd := w.Env.NewLabel(scope)

	cond, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	if cond.Type != Int {
		return nil, newErr(TypeMismatch, "WHILE condition must be a boolean/INT expression")
	}
	body, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}

	condReg, condMat := w.ensureReg(scope, cond)
	condEval := append(append([]ir.Instruction{}, cond.Code...), condMat...)

	// L_start labels the first instruction that (re-)evaluates the
	// condition; an empty placeholder carries the label if the condition
	// itself emits no instructions (e.g. a bare variable reference).
	var code []ir.Instruction
	if len(condEval) == 0 {
		code = append(code, ir.EmptyLabel(lStart))
	} else {
		condEval[0] = ir.Labeled(lStart, condEval[0])
		code = append(code, condEval...)
	}
	code = append(code, ir.Instruction{Op: ir.GOTO_IF, Op1: condReg, Op2: ir.Label{Name: lBody}})
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: lEnd}})
	code = append(code, ir.EmptyLabel(lBody))
	code = append(code, body.Code...)
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: lStart}}) // the corrected back-edge
	code = append(code, ir.EmptyLabel(lEnd))

	return &Result{Code: code}, nil
}

func (w *Walker) walkReturnStmt(n ast.Node) (*Result, error) {
	if len(w.funcReturnType) == 0 {
		return nil, newErr(ReturnOutsideFunction, "RETURN outside of any function")
	}
	want := w.funcReturnType[len(w.funcReturnType)-1]
	scope := w.Scopes.Current()

	expr, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	if expr.Type != want {
		return nil, newErr(TypeMismatch, "RETURN expression type %s does not match function return type %s", expr.Type, want)
	}

	reg, mat := w.ensureReg(scope, expr)
	code := append(append([]ir.Instruction{}, expr.Code...), mat...)
	code = append(code, ir.Instruction{Op: ir.ASSIGN, Op1: ir.Register{Kind: ir.RGeneral, ID: 1}, Op2: reg})
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Register{Kind: ir.RA}})

	return &Result{Code: code, HasReturn: true}, nil
}

func (w *Walker) walkConstExpr(n ast.Node) (*Result, error) {
	lit := ast.Lexeme(ast.Child(n, 0))
	typ := Int
	for _, c := range lit {
		if c == '.' {
			typ = Float
			break
		}
	}
	return &Result{Type: typ, Const: true, Literal: lit}, nil
}

func (w *Walker) walkVarExpr(n ast.Node) (*Result, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	scope := w.Scopes.Current()

	entry, _, ok := w.Symbols.Resolve(w.Scopes, name, scope)
	if !ok || entry.Kind != Variable {
		return nil, newErr(UndeclaredUse, "%q is not a declared variable", name)
	}
	reg, _ := w.Env.VarRegister(entry.ScopeID, name)
	return &Result{Type: entry.DataType, Reg: reg}, nil
}

func (w *Walker) walkArrayIndexExpr(n ast.Node) (*Result, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	scope := w.Scopes.Current()

	entry, _, ok := w.Symbols.Resolve(w.Scopes, name, scope)
	if !ok || entry.Kind != Array {
		return nil, newErr(UndeclaredUse, "%q is not a declared array", name)
	}

	idx, err := w.walk(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}
	if idx.Type != Int {
		return nil, newErr(ArrayIndexNotInt, "index into %q must be INT", name)
	}

	baseReg, _ := w.Env.ArrayRegister(entry.ScopeID, name)
	idxReg, idxMat := w.ensureReg(scope, idx)
	dest := w.Env.AllocT(scope)

	code := append(append([]ir.Instruction{}, idx.Code...), idxMat...)
	code = append(code, ir.Instruction{Op: ir.ADD, Op1: dest, Op2: baseReg, Op3: idxReg})
	code = append(code, ir.Instruction{Op: ir.LOAD, Op1: dest, Op2: dest})

	return &Result{Type: entry.DataType, Reg: dest, Code: code}, nil
}

func (w *Walker) walkArithExpr(n ast.Node) (*Result, error) {
	scope := w.Scopes.Current()

	left, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	opLex := ast.Lexeme(ast.Child(n, 1))
	right, err := w.walk(ast.Child(n, 2))
	if err != nil {
		return nil, err
	}

	if left.Type != right.Type {
		return nil, newErr(TypeMismatch, "arithmetic operands have mismatched types %s and %s", left.Type, right.Type)
	}

	if left.Const && right.Const {
		folded, err := foldArith(opLex, left.Type, left.Literal, right.Literal)
		if err != nil {
			return nil, err
		}
		return &Result{Type: left.Type, Const: true, Literal: folded}, nil
	}

	var op ir.Opcode
	switch opLex {
	case "+":
		op = ir.ADD
	case "*":
		op = ir.MUL
	default:
		return nil, fmt.Errorf("sema: unsupported arithmetic operator %q", opLex)
	}

	leftReg, leftMat := w.ensureReg(scope, left)
	rightReg, rightMat := w.ensureReg(scope, right)

	code := append(append([]ir.Instruction{}, left.Code...), leftMat...)
	code = append(code, right.Code...)
	code = append(code, rightMat...)
	code = append(code, ir.Instruction{Op: op, Op1: leftReg, Op2: leftReg, Op3: rightReg})

	return &Result{Type: left.Type, Reg: leftReg, Code: code}, nil
}

func (w *Walker) walkBoolExpr(n ast.Node) (*Result, error) {
	scope := w.Scopes.Current()

	left, err := w.walk(ast.Child(n, 0))
	if err != nil {
		return nil, err
	}
	opLex := ast.Lexeme(ast.Child(n, 1))
	right, err := w.walk(ast.Child(n, 2))
	if err != nil {
		return nil, err
	}

	if left.Type != right.Type {
		return nil, newErr(TypeMismatch, "relational operands have mismatched types %s and %s", left.Type, right.Type)
	}

	var op ir.Opcode
	switch opLex {
	case "<":
		op = ir.IS_SMALLER
	case "==":
		op = ir.IS_EQUAL
	case "<=":
		op = ir.IS_LESS_EQUAL
	default:
		return nil, fmt.Errorf("sema: unsupported relational operator %q", opLex)
	}

	leftReg, leftMat := w.ensureReg(scope, left)
	rightReg, rightMat := w.ensureReg(scope, right)

	code := append(append([]ir.Instruction{}, left.Code...), leftMat...)
	code = append(code, right.Code...)
	code = append(code, rightMat...)
	code = append(code, ir.Instruction{Op: op, Op1: leftReg, Op2: leftReg, Op3: rightReg})

	return &Result{Type: Int, Reg: leftReg, Code: code}, nil
}

func (w *Walker) walkFuncCallExpr(n ast.Node) (*Result, error) {
	name := ast.Lexeme(ast.Child(n, 0))
	scope := w.Scopes.Current()

	entry, ok := w.Symbols.Lookup(name, w.Scopes.Root())
	if !ok || entry.Kind != Function {
		return nil, newErr(UndeclaredUse, "%q is not a declared function", name)
	}

	argResults, err := w.walkRealArgList(ast.Child(n, 1))
	if err != nil {
		return nil, err
	}
	if len(argResults) != len(entry.ArgList) {
		return nil, newErr(ArityMismatch, "function %q expects %d arguments, got %d", name, len(entry.ArgList), len(argResults))
	}

	var code []ir.Instruction
	for i, argRes := range argResults {
		formalName := entry.ArgList[i]
		formalEntry, _ := w.Symbols.Lookup(formalName, entry.DirectChildScope)
		if argRes.Type != formalEntry.DataType {
			return nil, newErr(TypeMismatch, "argument %d to %q has type %s, expected %s", i+1, name, argRes.Type, formalEntry.DataType)
		}
		reg, mat := w.ensureReg(scope, argRes)
		code = append(code, argRes.Code...)
		code = append(code, mat...)
		code = append(code, ir.Instruction{Op: ir.ASSIGN, Op1: ir.Register{Kind: ir.RGeneral, ID: i + 1}, Op2: reg})
	}

	code = append(code, w.Env.SaveScopeState(scope)...)

	lRet := w.Env.NewLabel(scope)
	code = append(code, ir.Instruction{Op: ir.ASSIGN, Op1: ir.Register{Kind: ir.RA}, Op2: ir.Label{Name: lRet}})
	code = append(code, ir.Instruction{Op: ir.GOTO, Op1: ir.Label{Name: w.Env.FuncLabel(name)}})
	code = append(code, ir.EmptyLabel(lRet))
	code = append(code, w.Env.RestoreScopeState(scope)...)

	return &Result{Type: entry.DataType, Reg: ir.Register{Kind: ir.RGeneral, ID: 1}, Code: code}, nil
}

func (w *Walker) walkRealArgList(n ast.Node) ([]*Result, error) {
	var out []*Result
	for _, entryNode := range n.Children() {
		res, err := w.walk(ast.Child(entryNode, 0))
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func foldArith(op string, typ Type, a, b string) (string, error) {
	if typ == Float {
		var fa, fb float64
		_, _ = fmt.Sscanf(a, "%g", &fa)
		_, _ = fmt.Sscanf(b, "%g", &fb)
		switch op {
		case "+":
			return fmt.Sprintf("%g", fa+fb), nil
		case "*":
			return fmt.Sprintf("%g", fa*fb), nil
		}
		return "", fmt.Errorf("sema: unsupported arithmetic operator %q", op)
	}

	var ia, ib int
	_, _ = fmt.Sscanf(a, "%d", &ia)
	_, _ = fmt.Sscanf(b, "%d", &ib)
	switch op {
	case "+":
		return fmt.Sprintf("%d", ia+ib), nil
	case "*":
		return fmt.Sprintf("%d", ia*ib), nil
	}
	return "", fmt.Errorf("sema: unsupported arithmetic operator %q", op)
}
