package grammar

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/simc/internal/simcfe/token"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of the "Grammar input" external contract
// from spec.md §6: a structured document naming the start symbol, terminal
// and non-terminal alphabets, production rules, and declared
// epsilon-producing non-terminals. The lexer/CLI boundary (out of scope per
// spec.md §1) is expected to feed one of these in; everything downstream of
// grammar.Grammar never touches YAML again.
type Document struct {
	StartSymbol           string              `yaml:"start_symbol"`
	Terminals             []symbolDoc         `yaml:"terminals"`
	NonTerminals          []symbolDoc         `yaml:"non_terminals"`
	ProductionRules        map[string][][]string `yaml:"production_rules"`
	EpsilonProductionSyms []string            `yaml:"epsilon_production_symbols"`
}

type symbolDoc struct {
	Name            string `yaml:"name"`
	SpecialProperty string `yaml:"special_property,omitempty"`
}

// LoadDocument parses a YAML grammar document from r into a Document. It
// performs no grammar-level validation; call Build to turn it into a
// validated Grammar.
func LoadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidGrammar, err)
	}
	return doc, nil
}

// Build turns a loaded Document into a Grammar, performing the §6 checks
// (exactly one terminal with special_property: END) and wiring up a
// token.Class for each declared terminal so parser diagnostics can render
// human-readable names.
func (doc Document) Build() (Grammar, error) {
	g := New()
	g.SetStart(doc.StartSymbol)

	endCount := 0
	for _, t := range doc.Terminals {
		class := token.MakeClass(t.Name)
		if strings.EqualFold(t.SpecialProperty, "END") {
			class = token.End
			endCount++
		}
		g.AddTerm(t.Name, class)
	}
	if endCount != 1 {
		return Grammar{}, fmt.Errorf("%w: exactly one terminal must carry special_property: END (found %d)", ErrInvalidGrammar, endCount)
	}

	for _, nt := range doc.NonTerminals {
		// ensure it's registered even if it has no productions yet; AddRule
		// normally does this lazily, so seed an empty rule.
		if _, ok := g.rules[nt.Name]; !ok {
			g.nonTerms[nt.Name] = true
			g.ntOrder = append(g.ntOrder, nt.Name)
			g.rules[nt.Name] = Rule{NonTerminal: nt.Name}
		}
	}

	for nt, alts := range doc.ProductionRules {
		for _, rhs := range alts {
			prod := make([]string, 0, len(rhs))
			for _, sym := range rhs {
				if sym == "ε" || sym == "epsilon" {
					continue
				}
				prod = append(prod, sym)
			}
			g.AddRule(nt, prod)
		}
	}

	for _, epsSym := range doc.EpsilonProductionSyms {
		if !g.IsNonTerminal(epsSym) {
			return Grammar{}, fmt.Errorf("%w: epsilon_production_symbols entry %q is not a declared non-terminal", ErrInvalidGrammar, epsSym)
		}
		if !g.Rule(epsSym).HasProduction(nil) {
			g.AddRule(epsSym, nil)
		}
	}

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}

	return *g, nil
}
