package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit13-12/bakc/internal/tac"
)

func TestFoldConstants(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ASSIGN, Result: "t0", Arg1: "2"},
		{Op: tac.ASSIGN, Result: "t1", Arg1: "3"},
		{Op: tac.ADD, Result: "t2", Arg1: "t0", Arg2: "t1"},
	}
	// t0/t1 are ASSIGN-from-literal, not literal operands themselves, so
	// only an instruction whose *operands* are literals folds here.
	direct := []tac.Instruction{
		{Op: tac.ADD, Result: "t0", Arg1: "2", Arg2: "3"},
	}
	out := FoldConstants(direct)
	require.Len(t, out, 1)
	assert.Equal(t, tac.ASSIGN, out[0].Op)
	assert.Equal(t, "5", out[0].Arg1)

	_ = instrs
}

func TestFoldConstantsNeverFoldsDivisionByZero(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.DIV, Result: "t0", Arg1: "4", Arg2: "0"},
	}
	out := FoldConstants(instrs)
	require.Len(t, out, 1)
	assert.Equal(t, tac.DIV, out[0].Op, "division by a literal zero must survive to be emitted as an idiv")
}

func TestEliminateCommonSubexpressions(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ADD, Result: "t0", Arg1: "x", Arg2: "y"},
		{Op: tac.ADD, Result: "t1", Arg1: "x", Arg2: "y"},
	}
	out := EliminateCommonSubexpressions(instrs)
	require.Len(t, out, 2)
	assert.Equal(t, tac.ASSIGN, out[1].Op)
	assert.Equal(t, "t0", out[1].Arg1)
}

func TestEliminateCommonSubexpressionsInvalidatedByReassignment(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ADD, Result: "t0", Arg1: "x", Arg2: "y"},
		{Op: tac.ASSIGN, Result: "x", Arg1: "99"},
		{Op: tac.ADD, Result: "t1", Arg1: "x", Arg2: "y"},
	}
	out := EliminateCommonSubexpressions(instrs)
	require.Len(t, out, 3)
	assert.Equal(t, tac.ADD, out[2].Op, "recomputation after x changed must not be folded into a stale reuse")
}

func TestEliminateCommonSubexpressionsInvalidatedByCall(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ADD, Result: "t0", Arg1: "x", Arg2: "y"},
		{Op: tac.CALL, Arg1: "show", Arg2: "t0"},
		{Op: tac.ADD, Result: "t1", Arg1: "x", Arg2: "y"},
	}
	out := EliminateCommonSubexpressions(instrs)
	require.Len(t, out, 3)
	assert.Equal(t, tac.CALL, out[1].Op, "CALL side effects must survive untouched")
	assert.Equal(t, tac.ADD, out[2].Op)
}

func TestReduceStrengthMultiplyByTwo(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.MUL, Result: "t0", Arg1: "x", Arg2: "2"},
	}
	out := ReduceStrength(instrs)
	require.Len(t, out, 1)
	assert.Equal(t, tac.ADD, out[0].Op)
	assert.Equal(t, "x", out[0].Arg1)
	assert.Equal(t, "x", out[0].Arg2)
}

func TestReduceStrengthMultiplyByTwoLiteralFirst(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.MUL, Result: "t0", Arg1: "2", Arg2: "x"},
	}
	out := ReduceStrength(instrs)
	require.Len(t, out, 1)
	assert.Equal(t, tac.ADD, out[0].Op)
	assert.Equal(t, "x", out[0].Arg1)
	assert.Equal(t, "x", out[0].Arg2)
}

func TestEliminateDeadCodeRemovesUnusedTemp(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ASSIGN, Result: "t0", Arg1: "5"},
		{Op: tac.ASSIGN, Result: "x", Arg1: "1"},
	}
	out := EliminateDeadCode(instrs)
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].Result)
}

func TestEliminateDeadCodeNeverRemovesNamedVariables(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ASSIGN, Result: "x", Arg1: "1"},
	}
	out := EliminateDeadCode(instrs)
	assert.Len(t, out, 1)
}

// Every pass run twice must equal running it once (spec.md §8 "Pipeline
// idempotence").
func TestPassesAreIdempotent(t *testing.T) {
	instrs := []tac.Instruction{
		{Op: tac.ASSIGN, Result: "t0", Arg1: "2"},
		{Op: tac.ADD, Result: "t1", Arg1: "4", Arg2: "3"},
		{Op: tac.MUL, Result: "t2", Arg1: "x", Arg2: "2"},
		{Op: tac.ADD, Result: "t3", Arg1: "x", Arg2: "y"},
		{Op: tac.ADD, Result: "t4", Arg1: "x", Arg2: "y"},
	}

	for _, pass := range []func([]tac.Instruction) []tac.Instruction{
		FoldConstants, EliminateCommonSubexpressions, ReduceStrength, EliminateDeadCode,
	} {
		once := pass(instrs)
		twice := pass(once)
		assert.Equal(t, once, twice)
	}
}
