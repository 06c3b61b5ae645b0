package tac

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit13-12/bakc/internal/lexer"
	"github.com/Harshit13-12/bakc/internal/parser"
)

func lower(t *testing.T, src string) []Instruction {
	t.Helper()
	prog, err := parser.ParseProgram(lexer.New(src))
	require.NoError(t, err)
	return Lower(prog)
}

func TestLowerHelloWorld(t *testing.T) {
	instrs := lower(t, `show("hi");`)

	require.Len(t, instrs, 2)
	assert.Equal(t, ASSIGN, instrs[0].Op)
	assert.Equal(t, `"hi"`, instrs[0].Arg1)
	assert.Equal(t, CALL, instrs[1].Op)
	assert.Equal(t, "show", instrs[1].Arg1)
	assert.Equal(t, instrs[0].Result, instrs[1].Arg2)
}

func TestLowerArithmeticPrecedence(t *testing.T) {
	instrs := lower(t, `num x = 2 + 3 * 4; show(x);`)

	var mulIdx, addIdx int = -1, -1
	for i, instr := range instrs {
		if instr.Op == MUL {
			mulIdx = i
		}
		if instr.Op == ADD {
			addIdx = i
		}
	}
	require.NotEqual(t, -1, mulIdx)
	require.NotEqual(t, -1, addIdx)
	assert.Less(t, mulIdx, addIdx, "the multiply must be computed before the add consumes it")
}

// Every temp/label name emitted for one compilation is pairwise distinct
// (spec.md §8 "Freshness").
func TestFreshness(t *testing.T) {
	instrs := lower(t, `repeat (num i = 0; i < 3; i = i + 1) { show(i); }`)

	seenTemps := map[string]bool{}
	seenLabels := map[string]bool{}
	for _, instr := range instrs {
		// A temp is defined (as a Result) once; later reads are not reuse.
		if operand := instr.Result; strings.HasPrefix(operand, "t") && len(operand) > 1 && isDigits(operand[1:]) {
			assert.False(t, seenTemps[operand], "temp %s reused", operand)
			seenTemps[operand] = true
		}
		if instr.Op == LABEL {
			assert.False(t, seenLabels[instr.Result], "label %s reused", instr.Result)
			seenLabels[instr.Result] = true
		}
	}
}

// Every goto/if-goto target has a matching label in the same TAC list
// (spec.md §8 "Label closure").
func TestLabelClosure(t *testing.T) {
	instrs := lower(t, `when (a > 3) { show("big"); } otherwise { show("small"); }`)

	labels := map[string]bool{}
	for _, instr := range instrs {
		if instr.Op == LABEL {
			labels[instr.Result] = true
		}
	}
	for _, instr := range instrs {
		if instr.Op == GOTO || instr.Op == IF {
			assert.True(t, labels[instr.Result], "no matching label for target %s", instr.Result)
		}
	}
}

func TestForLoopEmissionOrder(t *testing.T) {
	instrs := lower(t, `repeat (num i = 0; i < 3; i = i + 1) { show(i); }`)

	var ops []Op
	for _, instr := range instrs {
		ops = append(ops, instr.Op)
	}

	// init (ASSIGN, ASSIGN), Lstart, cond (ASSIGN,ASSIGN,LESS), IF, GOTO,
	// Lbody, body (ASSIGN,CALL), increment (ASSIGN,ASSIGN,ADD,ASSIGN), GOTO, Lend.
	assert.Contains(t, ops, LABEL)
	assert.Contains(t, ops, IF)
	assert.Contains(t, ops, GOTO)
	assert.Contains(t, ops, LESS)
	assert.Contains(t, ops, CALL)

	// The first LABEL must come before the first IF (Lstart precedes the
	// condition check), and the loop must GOTO back to it.
	firstLabel := indexOf(ops, LABEL)
	firstIf := indexOf(ops, IF)
	assert.Less(t, firstLabel, firstIf)

	lastGoto := -1
	for i, op := range ops {
		if op == GOTO {
			lastGoto = i
		}
	}
	require.NotEqual(t, -1, lastGoto)
	assert.Equal(t, instrs[firstLabel].Result, instrs[lastGoto].Result)
}

func indexOf(ops []Op, want Op) int {
	for i, op := range ops {
		if op == want {
			return i
		}
	}
	return -1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
