package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Instruction_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Instruction
		expect string
	}{
		{
			name:   "assign constant, no label",
			input:  Instruction{Op: ASSIGN, Op1: Register{Kind: TGeneral, ID: 1}, Op2: Const{Literal: "14"}},
			expect: "ASSIGN T1 14 - label: -",
		},
		{
			name:   "empty label",
			input:  EmptyLabel("L0_1"),
			expect: "EMPTY - - - label: L0_1",
		},
		{
			name:   "goto_if",
			input:  Instruction{Op: GOTO_IF, Op1: Register{Kind: TGeneral, ID: 2}, Op2: Label{Name: "L0_1"}},
			expect: "GOTO_IF T2 L0_1 - label: -",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.input.String())
		})
	}
}

func Test_FormatListing(t *testing.T) {
	code := []Instruction{
		{Op: ASSIGN, Op1: Register{Kind: TGeneral, ID: 1}, Op2: Const{Literal: "14"}},
		EmptyLabel("L0_1"),
	}
	expect := "0. ASSIGN T1 14 - label: -\n1. EMPTY - - - label: L0_1\n"
	assert.Equal(t, expect, FormatListing(code))
}

func Test_Environment_AllocT_distinct(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment()

	r1 := env.AllocT(0)
	r2 := env.AllocT(0)
	assert.NotEqual(r1, r2)
	assert.Equal(Register{Kind: TGeneral, ID: 1}, r1)
	assert.Equal(Register{Kind: TGeneral, ID: 2}, r2)
}

func Test_Environment_VarRegister(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment()

	r := env.AllocT(0)
	env.SetVarRegister(0, "x", r)

	got, ok := env.VarRegister(0, "x")
	assert.True(ok)
	assert.Equal(r, got)

	_, ok = env.VarRegister(1, "x")
	assert.False(ok)
}

func Test_Environment_FuncLabel_stable(t *testing.T) {
	env := NewEnvironment()
	a := env.FuncLabel("main")
	b := env.FuncLabel("main")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, env.FuncLabel("helper"))
}

func Test_Environment_NewLabel_increments_per_scope(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment()

	assert.Equal("L0_1", env.NewLabel(0))
	assert.Equal("L0_2", env.NewLabel(0))
	assert.Equal("L1_1", env.NewLabel(1))
}

func Test_Environment_SaveRestoreScopeState(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment()

	env.AllocT(0)
	env.AllocT(0)

	saveCode := env.SaveScopeState(0)
	assert.Len(saveCode, 3) // 2 T-registers + RA
	for _, ins := range saveCode {
		assert.Equal(STORE, ins.Op)
	}

	restoreCode := env.RestoreScopeState(0)
	assert.Len(restoreCode, 3)
	for _, ins := range restoreCode {
		assert.Equal(LOAD, ins.Op)
	}
	assert.Equal(Register{Kind: RA}, restoreCode[0].Op1)
}
