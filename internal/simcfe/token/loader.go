package token

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTokenStream is wrapped by every token-stream document failure,
// mirroring grammar.ErrInvalidGrammar and ast.ErrInvalidMapping.
var ErrInvalidTokenStream = errors.New("invalid token stream document")

type streamDoc struct {
	Tokens []recordDoc `yaml:"tokens"`
}

type recordDoc struct {
	Type    string `yaml:"type"`
	Value   string `yaml:"value"`
	Line    int    `yaml:"line,omitempty"`
	LinePos int    `yaml:"pos,omitempty"`
}

// LoadStreamDocument parses a YAML "(type, value) records" document (the
// spec.md §6 "Token stream" external contract) from r into a Stream. This
// is the one piece of the lexer boundary this module is willing to own: a
// way to hand the driver a pre-lexed token sequence without writing a
// lexer, not a lexer itself.
func LoadStreamDocument(r io.Reader) (Stream, error) {
	var doc streamDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenStream, err)
	}

	toks := make([]Token, len(doc.Tokens))
	for i, rec := range doc.Tokens {
		if rec.Type == "" {
			return nil, fmt.Errorf("%w: token %d has no type", ErrInvalidTokenStream, i)
		}
		toks[i] = New(MakeClass(rec.Type), rec.Value, rec.Line, rec.LinePos)
	}
	return NewSliceStream(toks), nil
}
