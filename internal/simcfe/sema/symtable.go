package sema

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// SymbolKind distinguishes the three entry shapes spec.md §3 names.
type SymbolKind int

const (
	Variable SymbolKind = iota
	Array
	Function
)

func (k SymbolKind) String() string {
	switch k {
	case Variable:
		return "Variable"
	case Array:
		return "Array"
	case Function:
		return "Function"
	default:
		return "?"
	}
}

// Entry is one symbol-table record: `(name, kind, scope_id, data_type,
// memory_size)` plus the optional fields spec.md §3 lists per kind.
type Entry struct {
	Name       string
	Kind       SymbolKind
	ScopeID    int
	DataType   Type
	MemorySize int

	// ArrayLength is meaningful only when Kind == Array.
	ArrayLength int

	// ArgList is meaningful only when Kind == Function: the formal
	// parameter names in declaration order.
	ArgList []string

	// DirectChildScope is meaningful only when Kind == Function: the scope
	// id opened for the function's body. -1 means unset.
	DirectChildScope int
}

func entryKey(name string, scope int) string {
	return fmt.Sprintf("%s@%d", name, scope)
}

// SymbolTable is an ordered set of Entry records keyed by (name, scope_id)
// (spec.md §3's uniqueness invariant).
type SymbolTable struct {
	entries []Entry
	byKey   map[string]int // entryKey -> index into entries
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byKey: map[string]int{}}
}

// Insert adds e to the table, failing with a DuplicateDeclaration
// SemanticError if (e.Name, e.ScopeID) is already present.
func (t *SymbolTable) Insert(e Entry) error {
	key := entryKey(e.Name, e.ScopeID)
	if _, ok := t.byKey[key]; ok {
		return newErr(DuplicateDeclaration, "%q already declared in scope %d", e.Name, e.ScopeID)
	}
	t.byKey[key] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

// Lookup finds the entry for (name, scope), without walking to enclosing
// scopes — see Resolve for the scope-chain-aware lookup semantic rules use.
func (t *SymbolTable) Lookup(name string, scope int) (Entry, bool) {
	i, ok := t.byKey[entryKey(name, scope)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// SetDirectChildScope records the scope opened for a Function entry once
// it becomes known (the entry is inserted into the parent scope before the
// child scope id is allocated, see Walker.walkFuncDecl).
func (t *SymbolTable) SetDirectChildScope(name string, scope, child int) {
	i, ok := t.byKey[entryKey(name, scope)]
	if !ok {
		return
	}
	t.entries[i].DirectChildScope = child
}

// Entries returns every entry in insertion order.
func (t *SymbolTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve looks up name starting at scope and walking up the scope chain
// via scopes' parent map, returning the first match and the scope it was
// found in.
func (t *SymbolTable) Resolve(scopes *ScopeTable, name string, scope int) (Entry, int, bool) {
	for {
		if e, ok := t.Lookup(name, scope); ok {
			return e, scope, true
		}
		parent, ok := scopes.Parent(scope)
		if !ok {
			return Entry{}, 0, false
		}
		scope = parent
	}
}

// String renders the table as a fixed-width text listing (SPEC_FULL.md §4
// "scope tree dump / symbol table dump": a Graphviz-free textual stand-in
// for the original's `to_string`-shaped symbol table dump), grounded on
// parse.(*slrTable).String's rosed.InsertTableOpts usage.
func (t *SymbolTable) String() string {
	headers := []string{"name", "kind", "scope", "type", "size", "extra"}
	data := [][]string{headers}

	for _, e := range t.entries {
		extra := ""
		switch e.Kind {
		case Array:
			extra = fmt.Sprintf("len=%d", e.ArrayLength)
		case Function:
			extra = fmt.Sprintf("args=(%s)", strings.Join(e.ArgList, ", "))
		}
		data = append(data, []string{
			e.Name,
			e.Kind.String(),
			fmt.Sprintf("%d", e.ScopeID),
			e.DataType.String(),
			fmt.Sprintf("%d", e.MemorySize),
			extra,
		})
	}

	return rosed.Edit("").InsertTableOpts(0, data, 10, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
}
