package parse

// LRParseTable is the ACTION/GOTO table interface shared by the SLR(1) and
// canonical LR(1) constructions (spec.md §3 "Parse table"), grounded on
// tunaq's internal/ictiobus/parse.LRParseTable.
type LRParseTable interface {
	// Initial returns the DFA start state name.
	Initial() string

	// Action looks up the ACTION table cell for (state, terminal).
	Action(state, symbol string) LRAction

	// Goto looks up the GOTO table cell for (state, symbol).
	Goto(state, symbol string) (string, error)

	// States returns every DFA state name backing the table, in no
	// particular order. Used by internal/tablecache to flatten a table
	// into a serializable snapshot without needing to know which
	// construction produced it.
	States() []string

	// String renders the table for diagnostics (spec.md §6 table dump).
	String() string
}
