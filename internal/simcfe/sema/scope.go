package sema

import (
	"fmt"
	"strings"
)

// ScopeTable is the scope forest of spec.md §3: rooted at scope 0, a
// monotone integer id counter, a parent map, a child map, and a stack of
// currently open scopes. Grounded on npillmayer-gorgo/runtime/symtable.go's
// ScopeTree (Current/PushNewScope/PopScope), reworked from named
// pointer-linked Scope nodes to plain integer ids so the table can be
// handed around by value-ish reference without worrying about a scope's
// lifetime outliving the walker that created it.
type ScopeTable struct {
	nextID   int
	parent   map[int]int
	children map[int][]int
	open     []int
}

// NewScopeTable returns a table with scope 0 already open (the root, per
// spec.md §4.7: declarations at the root scope are visible everywhere the
// language allows global lookup).
func NewScopeTable() *ScopeTable {
	return &ScopeTable{
		parent:   map[int]int{},
		children: map[int][]int{},
		open:     []int{0},
		nextID:   1,
	}
}

// Current returns the innermost currently open scope.
func (s *ScopeTable) Current() int {
	return s.open[len(s.open)-1]
}

// Root returns the forest root, always 0.
func (s *ScopeTable) Root() int { return 0 }

// OpenScope allocates a fresh scope id as a child of Current and pushes it
// onto the open stack.
func (s *ScopeTable) OpenScope() int {
	id := s.nextID
	s.nextID++
	parent := s.Current()
	s.parent[id] = parent
	s.children[parent] = append(s.children[parent], id)
	s.open = append(s.open, id)
	return id
}

// CloseScope pops the innermost open scope. It panics if called with only
// the root scope open — a walker bug, not a SimC program property.
func (s *ScopeTable) CloseScope() {
	if len(s.open) <= 1 {
		panic("sema: CloseScope called with no non-root scope open")
	}
	s.open = s.open[:len(s.open)-1]
}

// Parent returns id's parent scope, and false if id is the root.
func (s *ScopeTable) Parent(id int) (int, bool) {
	if id == 0 {
		return 0, false
	}
	p, ok := s.parent[id]
	return p, ok
}

// Children returns id's direct child scopes, in the order they were opened.
func (s *ScopeTable) Children(id int) []int {
	out := make([]int, len(s.children[id]))
	copy(out, s.children[id])
	return out
}

// String renders the scope forest as an indented textual tree (SPEC_FULL.md
// §4 "scope tree dump"), a plain-text stand-in for the Graphviz
// visualization spec.md's Non-goals exclude.
func (s *ScopeTable) String() string {
	var sb strings.Builder
	var walk func(id, depth int)
	walk = func(id, depth int) {
		fmt.Fprintf(&sb, "%sscope %d\n", strings.Repeat("  ", depth), id)
		for _, child := range s.Children(id) {
			walk(child, depth+1)
		}
	}
	walk(s.Root(), 0)
	return strings.TrimRight(sb.String(), "\n")
}
