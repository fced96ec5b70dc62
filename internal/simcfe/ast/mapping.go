package ast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSemanticMappingMissing is returned by Mapping.Lookup when a grammar
// production has no entry in the node-kind table, spec.md §6's
// "SemanticMappingMissing" condition.
var ErrSemanticMappingMissing = errors.New("no AST node kind mapped for production")

// Mapping is the externally-supplied "(lhs, rhs) -> node_kind" table of
// spec.md §4.6 step 4 and §6: a grammar document pairs every production
// with the AST Kind its reduction should produce. It is keyed by the
// string form of ProductionKey so it can be built directly from a decoded
// grammar document without any Go-side enumeration of productions.
type Mapping map[string]Kind

// ProductionKey renders a production's left- and right-hand sides into the
// key Mapping is indexed by.
func ProductionKey(lhs string, rhs []string) string {
	return lhs + " -> " + strings.Join(rhs, " ")
}

// Lookup finds the node Kind mapped to the production (lhs -> rhs), or
// ErrSemanticMappingMissing if the grammar document omitted it.
func (m Mapping) Lookup(lhs string, rhs []string) (Kind, error) {
	k, ok := m[ProductionKey(lhs, rhs)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSemanticMappingMissing, ProductionKey(lhs, rhs))
	}
	return k, nil
}

// Set records that the production (lhs -> rhs) builds a node of kind k,
// overwriting any prior entry for the same production.
func (m Mapping) Set(lhs string, rhs []string, k Kind) {
	m[ProductionKey(lhs, rhs)] = k
}
