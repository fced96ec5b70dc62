package ast

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrInvalidMapping is wrapped by every production-to-AST mapping document
// failure, mirroring grammar.ErrInvalidGrammar.
var ErrInvalidMapping = errors.New("invalid production-to-AST mapping")

// mappingDoc is the on-disk shape of the "Production-to-AST mapping"
// external contract from spec.md §6: a flat list pairing a production's
// left- and right-hand sides with the node Kind its reduction should
// build. Grounded on grammar.Document/LoadDocument's
// decode-then-Build two-step shape.
type mappingDoc struct {
	Rules []mappingRuleDoc `yaml:"rules"`
}

type mappingRuleDoc struct {
	NonTerminal string   `yaml:"non_terminal"`
	Production  []string `yaml:"production"`
	Kind        string   `yaml:"kind"`
}

// LoadMappingDocument parses a YAML production-to-AST mapping document from
// r and builds a Mapping from it. An empty production entry denotes an
// epsilon production, matching grammar.Document's "ε"/"epsilon" convention.
func LoadMappingDocument(r io.Reader) (Mapping, error) {
	var doc mappingDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMapping, err)
	}

	m := Mapping{}
	for _, rule := range doc.Rules {
		kind, ok := KindByName(rule.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown node kind %q for production %s -> %v", ErrInvalidMapping, rule.Kind, rule.NonTerminal, rule.Production)
		}

		rhs := make([]string, 0, len(rule.Production))
		for _, sym := range rule.Production {
			if sym == "ε" || sym == "epsilon" {
				continue
			}
			rhs = append(rhs, sym)
		}
		m.Set(rule.NonTerminal, rhs, kind)
	}
	return m, nil
}
