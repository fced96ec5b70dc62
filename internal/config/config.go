// Package config loads the small TOML configuration document spec.md's
// expanded ambient stack (SPEC_FULL.md §1) calls for: parser algorithm
// choice, conflict policy, and the table-cache path. Grounded on
// github.com/dekarrin/tunaq's server.Config (FillDefaults/Validate shape)
// and internal/tqw's use of github.com/BurntSushi/toml as the teacher's own
// TOML-based configuration format.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Algorithm names the table-construction path a Config selects, mirroring
// simcfe.ParserAlgorithm without importing it (config is loaded before the
// pipeline package is wired up, and an int-keyed TOML string enum reads far
// more naturally to a human-edited config file than a Go-side constant
// would).
type Algorithm string

const (
	AlgorithmSLR1 Algorithm = "slr1"
	AlgorithmLR1  Algorithm = "lr1"
)

// ConflictPolicy names a shift/reduce precedence policy. It is validated as
// part of a Config but is not passed on to table construction.
type ConflictPolicy string

const (
	ShiftOverReduce ConflictPolicy = "shift-over-reduce"
	ReduceOverShift ConflictPolicy = "reduce-over-shift"
)

// Config is the top-level TOML document shape for cmd/simcc.
type Config struct {
	// Parser selects the table-construction algorithm. Defaults to "slr1".
	Parser Algorithm `toml:"parser"`

	// Conflicts names a shift/reduce precedence policy. Load, FillDefaults
	// and Validate handle it, but cmd/simcc does not pass it to the
	// pipeline: the SLR path only ever resolves a tolerated conflict as
	// shift-wins (see AllowAmbiguousSLR), and the LR(1) path rejects every
	// conflict.
	Conflicts ConflictPolicy `toml:"conflicts"`

	// AllowAmbiguousSLR enables the SLR(1) path's shift-over-reduce
	// conflict tolerance (spec.md §4.5); false makes any SLR conflict a
	// hard NotSLR1 error.
	AllowAmbiguousSLR bool `toml:"allow_ambiguous_slr"`

	// TableCache is the sqlite file path internal/tablecache uses to
	// persist compiled parsing tables across CLI invocations. Empty
	// disables caching.
	TableCache string `toml:"table_cache"`

	// GrammarFile is the default grammar document path (spec.md §6 "Grammar
	// input") used when cmd/simcc is not given one on the command line.
	GrammarFile string `toml:"grammar_file"`

	// MappingFile is the default production-to-AST mapping document path
	// (spec.md §6 "Production-to-AST mapping").
	MappingFile string `toml:"mapping_file"`
}

// FillDefaults returns a copy of cfg with unset fields set to their
// defaults, mirroring server.Config.FillDefaults's pattern of defaulting a
// whole struct at once rather than scattering `if cfg.X == ""` checks
// through every caller.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.Parser == "" {
		out.Parser = AlgorithmSLR1
	}
	if out.Conflicts == "" {
		out.Conflicts = ShiftOverReduce
	}
	if out.GrammarFile == "" {
		out.GrammarFile = "grammar.yaml"
	}
	if out.MappingFile == "" {
		out.MappingFile = "mapping.yaml"
	}
	return out
}

// Validate checks field values are each individually sensible. It does not
// check that the referenced files exist; that is surfaced naturally when
// cmd/simcc tries to open them.
func (cfg Config) Validate() error {
	switch cfg.Parser {
	case AlgorithmSLR1, AlgorithmLR1:
	default:
		return fmt.Errorf("parser: must be %q or %q, got %q", AlgorithmSLR1, AlgorithmLR1, cfg.Parser)
	}
	switch cfg.Conflicts {
	case ShiftOverReduce, ReduceOverShift:
	default:
		return fmt.Errorf("conflicts: must be %q or %q, got %q", ShiftOverReduce, ReduceOverShift, cfg.Conflicts)
	}
	return nil
}

// Load reads and decodes a TOML config document from path. A missing file
// is not an error: it returns a zero Config so the caller can layer
// FillDefaults over it, matching the CLI convention (cmd/tqi, cmd/tqserver)
// of config files being optional.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
