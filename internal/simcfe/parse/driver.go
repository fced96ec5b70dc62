package parse

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/dekarrin/simc/internal/util"
)

// Driver runs the shift-reduce algorithm of spec.md §4.6 (purple dragon book
// Algorithm 4.44) against a table built by GenerateSLRTable or
// GenerateCanonicalLR1Table, grounded on tunaq's
// internal/ictiobus/parse.lrParser.Parse. Unlike the teacher's driver, which
// only needs to decide accept/reject, this one also performs step 4 of
// spec.md §4.6: every reduction consults Mapping for the node_kind of the
// production being reduced and builds the AST node directly, so there is no
// separate concrete-syntax-tree pass to reconcile with the AST afterward.
type Driver struct {
	Table   LRParseTable
	Gram    grammar.Grammar
	Mapping ast.Mapping

	// Trace, if set, receives a line of diagnostic text for every driver
	// step (spec.md §4.6 "trace hook"); nil disables tracing entirely.
	Trace func(string)
}

func (d *Driver) trace(format string, args ...any) {
	if d.Trace != nil {
		d.Trace(fmt.Sprintf(format, args...))
	}
}

// Parse consumes stream to completion, building and returning the root AST
// node, or a *SyntaxError wrapping ErrSyntax if the input is rejected. Step 1
// of spec.md §4.6 is checked on every token read: one whose class is not a
// declared grammar terminal is rejected with an *UnknownTokenError wrapping
// ErrUnknownToken before any ACTION-table lookup is attempted. An error
// wrapping ast.ErrSemanticMappingMissing is returned if a production reduced has no entry in d.Mapping — this is a
// grammar-authoring defect, not a property of the input program.
func (d *Driver) Parse(stream token.Stream) (ast.Node, error) {
	stateStack := util.Stack[string]{}
	stateStack.Push(d.Table.Initial())

	tokenBuffer := util.Stack[token.Token]{}
	subTreeRoots := util.Stack[ast.Node]{}

	a := stream.Next()
	d.trace("next token: %s", a.String())
	if !d.Gram.IsTerminal(a.Class().ID()) {
		return nil, NewUnknownTokenError(a)
	}

	for {
		s := stateStack.Peek()
		act := d.Table.Action(s, a.Class().ID())
		d.trace("state %s, action %s", s, act.String())

		switch act.Type {
		case LRShift:
			tokenBuffer.Push(a)
			stateStack.Push(act.State)
			a = stream.Next()
			d.trace("next token: %s", a.String())
			if !d.Gram.IsTerminal(a.Class().ID()) {
				return nil, NewUnknownTokenError(a)
			}

		case LRReduce:
			A := act.Symbol
			beta := act.Production

			kind, err := d.Mapping.Lookup(A, beta)
			if err != nil {
				return nil, fmt.Errorf("reducing %s: %w", ast.ProductionKey(A, beta), err)
			}

			children := make([]ast.Node, len(beta))
			for i := len(beta) - 1; i >= 0; i-- {
				sym := beta[i]
				if d.Gram.IsTerminal(sym) {
					children[i] = ast.NewLeaf(tokenBuffer.Pop())
				} else {
					children[i] = subTreeRoots.Pop()
				}
			}
			// An epsilon production (len(beta) == 0) has no child to take a
			// source token from; fall back to the lookahead that triggered
			// the reduction so the node still has a diagnostic anchor.
			leadTok := a
			if len(children) > 0 {
				leadTok = children[0].Source()
			}
			subTreeRoots.Push(ast.NewComposite(kind, leadTok, children))

			for range beta {
				stateStack.Pop()
			}

			t := stateStack.Peek()
			dest, err := d.Table.Goto(t, A)
			if err != nil {
				return nil, NewSyntaxErrorFromToken(fmt.Sprintf("no valid transition on %q", A), a)
			}
			stateStack.Push(dest)

		case LRAccept:
			return subTreeRoots.Pop(), nil

		case LRError:
			return nil, NewSyntaxErrorFromToken(d.expectedMessage(s, a), a)
		}
	}
}

// expectedMessage renders "expected X, Y, or Z" over every terminal that
// would not produce an error action in state s (spec.md §7 error message
// contract).
func (d *Driver) expectedMessage(s string, got token.Token) string {
	var expected []token.Class
	for _, name := range d.Gram.Terminals() {
		class := d.Gram.Term(name)
		if d.Table.Action(s, name).Type != LRError {
			expected = append(expected, class)
		}
	}

	if len(expected) == 0 {
		return fmt.Sprintf("unexpected %s", got.Class().Human())
	}

	msg := fmt.Sprintf("unexpected %s; expected ", got.Class().Human())
	for i, c := range expected {
		if i > 0 {
			if i == len(expected)-1 {
				msg += " or "
			} else {
				msg += ", "
			}
		}
		msg += c.Human()
	}
	return msg
}
