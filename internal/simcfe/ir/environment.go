package ir

import "fmt"

// Environment is the logical-environment simulator of spec.md §4.7: it owns
// every register/label/address allocation decision so that the semantic
// walker (package sema) only ever asks "give me a register for X" or "give
// me a fresh label" without tracking bookkeeping itself. Grounded on
// npillmayer-gorgo/runtime.go's frame/stack simulation, reshaped around
// SimC's T/R/RA register files instead of MetaPost's token-list runtime
// stack.
type Environment struct {
	tCounter map[int]int // per-scope T-register counter
	liveT    map[int][]Register // per-scope allocation order, for save/restore

	varRegs   map[int]map[string]Operand // scope -> variable name -> register
	arrayRegs map[int]map[string]Operand // scope -> array name -> base-address register

	funcLabels map[string]string // function name -> globally unique label

	labelCounter map[int]int // per-scope temp-label counter

	stackHWM int
	dataHWM  int
}

// NewEnvironment returns a fresh, empty simulator. A new one must be built
// per compilation (spec.md §5: "instances must be created fresh per run").
func NewEnvironment() *Environment {
	return &Environment{
		tCounter:     map[int]int{},
		liveT:        map[int][]Register{},
		varRegs:      map[int]map[string]Operand{},
		arrayRegs:    map[int]map[string]Operand{},
		funcLabels:   map[string]string{},
		labelCounter: map[int]int{},
	}
}

// AllocT allocates a fresh T-register in scope and records it as live for a
// subsequent SaveScopeState/RestoreScopeState pair.
func (e *Environment) AllocT(scope int) Register {
	id := e.tCounter[scope] + 1
	e.tCounter[scope] = id
	r := Register{Kind: TGeneral, ID: id}
	e.liveT[scope] = append(e.liveT[scope], r)
	return r
}

// SetVarRegister records the register holding variable name's value in
// scope. Called once, at the variable's declaration.
func (e *Environment) SetVarRegister(scope int, name string, r Operand) {
	if e.varRegs[scope] == nil {
		e.varRegs[scope] = map[string]Operand{}
	}
	e.varRegs[scope][name] = r
}

// VarRegister looks up the register holding name's value in scope.
func (e *Environment) VarRegister(scope int, name string) (Operand, bool) {
	r, ok := e.varRegs[scope][name]
	return r, ok
}

// SetArrayRegister records the base-address register for array name in
// scope, at its declaration.
func (e *Environment) SetArrayRegister(scope int, name string, r Operand) {
	if e.arrayRegs[scope] == nil {
		e.arrayRegs[scope] = map[string]Operand{}
	}
	e.arrayRegs[scope][name] = r
}

// ArrayRegister looks up the base-address register for array name in scope.
func (e *Environment) ArrayRegister(scope int, name string) (Operand, bool) {
	r, ok := e.arrayRegs[scope][name]
	return r, ok
}

// FuncLabel returns the globally unique label for a declared function,
// allocating one the first time it is asked for.
func (e *Environment) FuncLabel(name string) string {
	if l, ok := e.funcLabels[name]; ok {
		return l
	}
	l := fmt.Sprintf("L_func_%s", name)
	e.funcLabels[name] = l
	return l
}

// NewLabel allocates a fresh temporary label in scope, shaped "L{scope}_{n}"
// per spec.md §4.7.
func (e *Environment) NewLabel(scope int) string {
	n := e.labelCounter[scope] + 1
	e.labelCounter[scope] = n
	return fmt.Sprintf("L%d_%d", scope, n)
}

// AllocStack reserves size logical units on the stack segment, advancing the
// stack high-water mark, and returns the address of the reserved region's
// start.
func (e *Environment) AllocStack(size int) Address {
	addr := Address{Segment: STACK, Offset: e.stackHWM}
	e.stackHWM += size
	return addr
}

// AllocData reserves size logical units on the data segment, mirroring
// AllocStack.
func (e *Environment) AllocData(size int) Address {
	addr := Address{Segment: DATA, Offset: e.dataHWM}
	e.dataHWM += size
	return addr
}

// SaveScopeState emits the STORE sequence of every T-register live in scope
// plus RA, onto the logical stack, per spec.md §4.7's
// "save_scope_state(scope)" protocol. Used immediately before a function
// call so the callee is free to clobber T-registers.
func (e *Environment) SaveScopeState(scope int) []Instruction {
	var code []Instruction
	for _, r := range e.liveT[scope] {
		addr := e.AllocStack(1)
		code = append(code, Instruction{Op: STORE, Op1: addr, Op2: r})
	}
	addr := e.AllocStack(1)
	code = append(code, Instruction{Op: STORE, Op1: addr, Op2: Register{Kind: RA}})
	return code
}

// RestoreScopeState emits the mirror LOAD sequence of SaveScopeState, in
// reverse (LIFO) order, as its corresponding caller-side restore.
func (e *Environment) RestoreScopeState(scope int) []Instruction {
	total := len(e.liveT[scope]) + 1
	code := make([]Instruction, 0, total)

	code = append(code, Instruction{Op: LOAD, Op1: Register{Kind: RA}, Op2: Address{Segment: STACK, Offset: e.stackHWM - 1}})
	for i := len(e.liveT[scope]) - 1; i >= 0; i-- {
		r := e.liveT[scope][i]
		code = append(code, Instruction{Op: LOAD, Op1: r, Op2: Address{Segment: STACK, Offset: e.stackHWM - total + i}})
	}
	e.stackHWM -= total
	return code
}
