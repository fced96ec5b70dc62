package tablecache

import (
	"fmt"

	"github.com/dekarrin/simc/internal/simcfe/grammar"
	"github.com/dekarrin/simc/internal/simcfe/parse"
)

// actionCell is one flattened ACTION table entry. Exported fields only --
// rezi.EncBinary/DecBinary work over a struct's exported fields by
// reflection, the same convention tunaq's game.State snapshots rely on.
type actionCell struct {
	State            string
	Symbol           string
	Type             int
	ShiftTo          string
	ReduceSymbol     string
	ReduceProduction []string
}

type gotoCell struct {
	State  string
	Symbol string
	Target string
}

// Snapshot is the serializable form of a parse.LRParseTable: every non-error
// ACTION and GOTO cell for every (state, symbol) pair the construction
// visited, flattened out of whichever private DFA-backed struct built it.
type Snapshot struct {
	Algorithm string
	Initial   string
	States    []string
	Actions   []actionCell
	Gotos     []gotoCell
}

// TakeSnapshot flattens table into a Snapshot ready for rezi encoding. algorithm
// is recorded alongside the table data purely for diagnostics; it plays no
// role in reconstruction.
func TakeSnapshot(g grammar.Grammar, table parse.LRParseTable, algorithm string) Snapshot {
	snap := Snapshot{
		Algorithm: algorithm,
		Initial:   table.Initial(),
		States:    table.States(),
	}

	terms := g.Terminals()
	symbols := append(append([]string{}, g.NonTerminals()...), terms...)

	for _, state := range snap.States {
		for _, term := range terms {
			action := table.Action(state, term)
			if action.Type == parse.LRError {
				continue
			}
			snap.Actions = append(snap.Actions, actionCell{
				State:            state,
				Symbol:           term,
				Type:             int(action.Type),
				ShiftTo:          action.State,
				ReduceSymbol:     action.Symbol,
				ReduceProduction: []string(action.Production),
			})
		}
		for _, sym := range symbols {
			if target, err := table.Goto(state, sym); err == nil {
				snap.Gotos = append(snap.Gotos, gotoCell{State: state, Symbol: sym, Target: target})
			}
		}
	}

	return snap
}

// rehydratedTable is a parse.LRParseTable reconstructed from a Snapshot. It
// never recomputes anything: every cell is a flat map lookup, so time spent
// reading a snapshot back is proportional to the table's size rather than to
// the grammar's canonical-collection fixpoint.
type rehydratedTable struct {
	initial string
	states  []string
	actions map[string]parse.LRAction
	gotos   map[string]string
}

func keyFor(state, symbol string) string {
	return state + "\x00" + symbol
}

// Table reconstructs a queryable parse.LRParseTable from the snapshot.
func (s Snapshot) Table() parse.LRParseTable {
	t := &rehydratedTable{
		initial: s.Initial,
		states:  append([]string{}, s.States...),
		actions: make(map[string]parse.LRAction, len(s.Actions)),
		gotos:   make(map[string]string, len(s.Gotos)),
	}
	for _, c := range s.Actions {
		t.actions[keyFor(c.State, c.Symbol)] = parse.LRAction{
			Type:       parse.LRActionType(c.Type),
			State:      c.ShiftTo,
			Symbol:     c.ReduceSymbol,
			Production: grammar.Production(c.ReduceProduction),
		}
	}
	for _, c := range s.Gotos {
		t.gotos[keyFor(c.State, c.Symbol)] = c.Target
	}
	return t
}

func (t *rehydratedTable) Initial() string {
	return t.initial
}

func (t *rehydratedTable) States() []string {
	return append([]string{}, t.states...)
}

func (t *rehydratedTable) Action(state, symbol string) parse.LRAction {
	if a, ok := t.actions[keyFor(state, symbol)]; ok {
		return a
	}
	return parse.LRAction{Type: parse.LRError}
}

func (t *rehydratedTable) Goto(state, symbol string) (string, error) {
	if target, ok := t.gotos[keyFor(state, symbol)]; ok {
		return target, nil
	}
	return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
}

func (t *rehydratedTable) String() string {
	return fmt.Sprintf("rehydratedTable(%d states)", len(t.states))
}
