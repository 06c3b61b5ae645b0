package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit13-12/bakc/internal/ast"
	"github.com/Harshit13-12/bakc/internal/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := ParseProgram(lexer.New(src))
	require.NoError(t, err)
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, `num x = 2 + 3 * 4;`)
	require.Len(t, prog.Statements, 1)

	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok, "expected a VarDecl, got %T", prog.Statements[0])
	assert.Equal(t, ast.Num, decl.TypeName)
	assert.Equal(t, "x", decl.Name)

	bin, ok := decl.Initializer.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)

	// Multiplicative binds tighter: the right side of '+' is "3 * 4" as a
	// single BinaryOp, not ((2+3) then *4).
	rhs, ok := bin.Right.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestComparisonBindsBelowAdditive(t *testing.T) {
	// "a < b + c" parses as "a < (b + c)" per the redesigned precedence
	// (spec.md §9 note 5 / SPEC_FULL.md §5.5), not "(a<b) + c".
	prog := parse(t, `when (a < b + c) { show(a); }`)
	ifNode, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)

	cmp, ok := ifNode.Condition.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpLt, cmp.Op)

	rhs, ok := cmp.Right.(*ast.BinaryOp)
	require.True(t, ok, "expected the right side of '<' to be 'b + c'")
	assert.Equal(t, ast.OpAdd, rhs.Op)
}

func TestUnaryMinusVsSubtraction(t *testing.T) {
	// "a - 3" is subtraction of two operands.
	prog := parse(t, `x = a - 3;`)
	assign := prog.Statements[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpSub, bin.Op)
	_, ok = bin.Left.(*ast.Identifier)
	assert.True(t, ok)

	// A leading "-3" in an unambiguous position is a negative literal.
	prog = parse(t, `x = -3;`)
	assign = prog.Statements[0].(*ast.Assign)
	num, ok := assign.Value.(*ast.Number)
	require.True(t, ok)
	assert.EqualValues(t, -3, num.Value)
}

func TestIfElse(t *testing.T) {
	prog := parse(t, `when (a > 3) { show("big"); } otherwise { show("small"); }`)
	ifNode := prog.Statements[0].(*ast.If)
	require.NotNil(t, ifNode.Then)
	require.NotNil(t, ifNode.Else)
	assert.Len(t, ifNode.Then.Statements, 1)
	assert.Len(t, ifNode.Else.Statements, 1)
}

func TestForLoop(t *testing.T) {
	prog := parse(t, `repeat (num i = 0; i < 3; i = i + 1) { show(i); }`)
	forNode := prog.Statements[0].(*ast.For)
	assert.Equal(t, "i", forNode.Init.Name)
	assert.Equal(t, "i", forNode.Increment.Name)
	assert.Len(t, forNode.Body.Statements, 1)
}

func TestShowStringCall(t *testing.T) {
	prog := parse(t, `show("hi");`)
	call := prog.Statements[0].(*ast.FunctionCall)
	assert.Equal(t, "show", call.Name)
	require.Len(t, call.Args, 1)
	str, ok := call.Args[0].(*ast.String)
	require.True(t, ok)
	assert.Equal(t, "hi", str.Value)
}

func TestBareIdentifierStatementIsADescriptiveError(t *testing.T) {
	_, err := ParseProgram(lexer.New(`x;`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestBogusPrograms(t *testing.T) {
	tests := []string{
		`num x = ;`,
		`when (a { show(a); }`,
		`num x = 1`, // missing semicolon
		`repeat (num i = 0 i < 3; i = i + 1) { }`,
	}
	for _, src := range tests {
		_, err := ParseProgram(lexer.New(src))
		assert.Error(t, err, "expected a parse error for %q", src)
	}
}
