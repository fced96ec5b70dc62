// Package simcfe wires the grammar, item, automaton, parse, ast, sema, and
// ir packages into the single straight-line pipeline spec.md §2 describes:
//
//	CFG -> Analyzer -> Item-Set Generator -> Canonical-Collection Builder ->
//	Parsing-Table Assembler -> Driver/Semantic Engine -> (AST, SymbolTable, IC listing)
//
// Grounded on github.com/dekarrin/tunaq's internal/ictiobus.Frontend[E], the
// teacher's own "complete input-to-intermediate representation compiler
// front-end" object. Unlike Frontend[E], which hides lexing behind an
// internal Lexer interface, this Frontend takes an already-lexed
// token.Stream directly: spec.md §1 puts the lexer out of scope as an
// external collaborator, so there is nothing here for this package to own.
package simcfe

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/ast"
	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/ir"
	"github.com/dekarrin/simc/internal/simcfe/parse"
	"github.com/dekarrin/simc/internal/simcfe/sema"
	"github.com/dekarrin/simc/internal/simcfe/token"
	"github.com/google/uuid"
)

// ParserAlgorithm selects which table-construction path a Frontend's
// table was built with (spec.md §2 components 3/4: the SLR path via
// NFA/subset-construction, or the direct LR(1) path with lookahead
// propagation).
type ParserAlgorithm int

const (
	// SLR1 builds the table via GenerateSLRTable (spec.md §4.3/§4.5).
	SLR1 ParserAlgorithm = iota
	// CanonicalLR1 builds the table via GenerateCanonicalLR1Table (spec.md
	// §4.4/§4.5).
	CanonicalLR1
)

func (a ParserAlgorithm) String() string {
	if a == CanonicalLR1 {
		return "LR(1)"
	}
	return "SLR(1)"
}

// Options configures a Frontend build.
type Options struct {
	// Algorithm selects the table-construction path. Defaults to SLR1.
	Algorithm ParserAlgorithm

	// AllowAmbiguous tolerates shift/reduce conflicts via the
	// shift-over-reduce default policy (spec.md §4.5), but only on the SLR
	// path; it is ignored for CanonicalLR1, where any conflict is always a
	// hard NotLR1 error.
	AllowAmbiguous bool

	// Trace, if set, receives a line of diagnostic text for every driver
	// step (threaded straight through to parse.Driver.Trace).
	Trace func(string)
}

// Frontend is a single compilation's worth of pre-built table plus the
// grammar and node-kind mapping needed to drive it. Build one per grammar
// (it is expensive: a full canonical-collection fixpoint) and reuse it
// across many Compile calls against that same grammar — this is exactly
// the repeated-invocation cost internal/tablecache exists to amortize.
type Frontend struct {
	Grammar grammar.Grammar
	Mapping ast.Mapping
	Table   parse.LRParseTable
	Algo    ParserAlgorithm

	warnings []string
	trace    func(string)
}

// NewFrontend builds the parsing table for g per opts.Algorithm and returns
// a Frontend ready to Compile token streams against it. This is components
// 1-4 of spec.md §2 (Analyzer through Parsing-Table Assembler) run once, up
// front.
func NewFrontend(g grammar.Grammar, mapping ast.Mapping, opts Options) (*Frontend, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	fe := &Frontend{Grammar: g, Mapping: mapping, Algo: opts.Algorithm, trace: opts.Trace}

	switch opts.Algorithm {
	case CanonicalLR1:
		table, err := parse.GenerateCanonicalLR1Table(g)
		if err != nil {
			return nil, fmt.Errorf("build LR(1) table: %w", err)
		}
		fe.Table = table
	default:
		table, warns, err := parse.GenerateSLRTable(g, opts.AllowAmbiguous)
		if err != nil {
			return nil, fmt.Errorf("build SLR(1) table: %w", err)
		}
		fe.Table = table
		fe.warnings = warns
	}

	return fe, nil
}

// NewFrontendFromTable builds a Frontend around a table that was already
// constructed elsewhere -- the integration point internal/tablecache uses to
// hand back a table it rehydrated from its sqlite store instead of paying
// the canonical-collection fixpoint cost again. g is still validated, since
// a cached table is only as trustworthy as the grammar it was built from
// matching the one now in hand.
func NewFrontendFromTable(g grammar.Grammar, mapping ast.Mapping, table parse.LRParseTable, algo ParserAlgorithm, opts Options) (*Frontend, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Frontend{Grammar: g, Mapping: mapping, Table: table, Algo: algo, trace: opts.Trace}, nil
}

// Warnings returns any tolerated-conflict diagnostics collected while
// building the table (only ever non-empty for the SLR path with
// AllowAmbiguous set).
func (fe *Frontend) Warnings() []string {
	return fe.warnings
}

// Result is everything a single compilation produces: the AST root, the
// filled symbol/scope tables, the final intermediate-code listing, and a
// CompileID tagging the run for trace correlation (spec.md §2's domain-stack
// expansion: a UUID minted per compile so the CLI, table cache, and API
// server can all refer to the same run in their own diagnostics).
type Result struct {
	CompileID uuid.UUID
	AST       ast.Node
	Symbols   *sema.SymbolTable
	Scopes    *sema.ScopeTable
	Code      []ir.Instruction
}

// Listing renders Code via ir.FormatListing (spec.md §6 "Intermediate-code
// output").
func (r Result) Listing() string {
	return ir.FormatListing(r.Code)
}

// Compile runs the remainder of spec.md §2's pipeline over stream against
// fe's pre-built table: parse + AST construction (§4.6), then the
// post-order semantic walk that fills the symbol/scope tables and emits
// intermediate code in the same pass (§4.7).
func (fe *Frontend) Compile(stream token.Stream) (*Result, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("mint compile id: %w", err)
	}

	d := &parse.Driver{Table: fe.Table, Gram: fe.Grammar, Mapping: fe.Mapping, Trace: fe.trace}
	root, err := d.Parse(stream)
	if err != nil {
		return nil, err
	}

	symbols, scopes, code, err := sema.Analyze(root)
	if err != nil {
		return nil, err
	}

	return &Result{CompileID: id, AST: root, Symbols: symbols, Scopes: scopes, Code: code}, nil
}
