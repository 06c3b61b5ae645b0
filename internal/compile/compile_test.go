package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileHelloWorld(t *testing.T) {
	c := New(`show("hi");`)
	asm, err := c.Compile()
	require.NoError(t, err)
	assert.Contains(t, asm, "call show_str")
	assert.Empty(t, c.Diagnostics)
}

func TestCompileRedeclarationDiagnostic(t *testing.T) {
	c := New(`num x = 1; num x = 2;`)
	_, err := c.Compile()
	require.Error(t, err)
	require.Len(t, c.Diagnostics, 1)
}

func TestCompileSyntaxErrorAbortsBeforeSemantics(t *testing.T) {
	c := New(`num = 1;`)
	_, err := c.Compile()
	require.Error(t, err)
	assert.Empty(t, c.Diagnostics, "a parse failure must never reach semantic analysis")
}

func TestCompileWithOptimizer(t *testing.T) {
	c := New(`num x = 2 + 3; show(x);`)
	c.SetOptimize(true)
	asm, err := c.Compile()
	require.NoError(t, err)
	assert.Contains(t, asm, "call show_num")
}

func TestCompileReusableAcrossIndependentSources(t *testing.T) {
	first := New(`num x = 1; show(x);`)
	_, err := first.Compile()
	require.NoError(t, err)

	second := New(`num y = 2; show(y);`)
	asm, err := second.Compile()
	require.NoError(t, err)
	assert.Contains(t, asm, "y: dq 0")
}
