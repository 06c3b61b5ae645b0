package tac

import (
	"fmt"

	"github.com/Harshit13-12/bakc/internal/ast"
)

// LoweringContext owns the two monotonic counters (temps, labels) for a
// single compilation. Modeling them as context fields rather than package
// globals removes the cross-file contamination footgun the reference
// implementation has (spec.md §9, §5): a fresh LoweringContext starts both
// counters at zero, so resetting between independent compilations is
// simply constructing a new one.
type LoweringContext struct {
	tempCounter  int
	labelCounter int
	Instructions []Instruction
}

// NewLoweringContext returns a context with both counters reset to zero.
func NewLoweringContext() *LoweringContext {
	return &LoweringContext{}
}

func (c *LoweringContext) newTemp() string {
	t := fmt.Sprintf("t%d", c.tempCounter)
	c.tempCounter++
	return t
}

func (c *LoweringContext) newLabel() string {
	l := fmt.Sprintf("L%d", c.labelCounter)
	c.labelCounter++
	return l
}

func (c *LoweringContext) emit(instr Instruction) {
	c.Instructions = append(c.Instructions, instr)
}

// Lower converts prog into a flat TAC instruction list (spec.md §4.4).
func Lower(prog *ast.Program) []Instruction {
	ctx := NewLoweringContext()
	for _, stmt := range prog.Statements {
		ctx.lowerStatement(stmt)
	}
	return ctx.Instructions
}

func (c *LoweringContext) lowerStatement(n ast.Node) {
	switch stmt := n.(type) {
	case *ast.VarDecl:
		if stmt.Initializer == nil {
			return
		}
		result := c.lowerExpr(stmt.Initializer)
		c.emit(Instruction{Op: ASSIGN, Result: stmt.Name, Arg1: result, Line: stmt.Position.Line})

	case *ast.Assign:
		result := c.lowerExpr(stmt.Value)
		c.emit(Instruction{Op: ASSIGN, Result: stmt.Name, Arg1: result, Line: stmt.Position.Line})

	case *ast.FunctionCall:
		c.lowerCallStatement(stmt)

	case *ast.Block:
		for _, s := range stmt.Statements {
			c.lowerStatement(s)
		}

	case *ast.If:
		c.lowerIf(stmt)

	case *ast.For:
		c.lowerFor(stmt)
	}
}

func (c *LoweringContext) lowerCallStatement(call *ast.FunctionCall) {
	var arg string
	if len(call.Args) > 0 {
		arg = c.lowerExpr(call.Args[0])
	}
	c.emit(Instruction{Op: CALL, Arg1: call.Name, Arg2: arg, Line: call.Position.Line})
}

// lowerIf lowers `when (cond) thenBody (otherwise elseBody)?` per spec.md
// §4.4: condition first, then a true/false branch pair merging at Lend.
func (c *LoweringContext) lowerIf(ifNode *ast.If) {
	cond := c.lowerExpr(ifNode.Condition)

	ltrue := c.newLabel()
	lfalse := c.newLabel()
	lend := c.newLabel()

	c.emit(Instruction{Op: IF, Result: ltrue, Arg1: cond, Line: ifNode.Position.Line})
	c.emit(Instruction{Op: GOTO, Result: lfalse, Line: ifNode.Position.Line})
	c.emit(Instruction{Op: LABEL, Result: ltrue, Line: ifNode.Position.Line})

	c.lowerStatement(ifNode.Then)

	c.emit(Instruction{Op: GOTO, Result: lend, Line: ifNode.Position.Line})
	c.emit(Instruction{Op: LABEL, Result: lfalse, Line: ifNode.Position.Line})

	if ifNode.Else != nil {
		c.lowerStatement(ifNode.Else)
	}

	c.emit(Instruction{Op: LABEL, Result: lend, Line: ifNode.Position.Line})
}

// lowerFor lowers `repeat (init; cond; inc) body` per spec.md §4.4.
func (c *LoweringContext) lowerFor(forNode *ast.For) {
	c.lowerStatement(forNode.Init)

	lstart := c.newLabel()
	lbody := c.newLabel()
	lend := c.newLabel()

	c.emit(Instruction{Op: LABEL, Result: lstart, Line: forNode.Position.Line})

	cond := c.lowerExpr(forNode.Condition)
	c.emit(Instruction{Op: IF, Result: lbody, Arg1: cond, Line: forNode.Position.Line})
	c.emit(Instruction{Op: GOTO, Result: lend, Line: forNode.Position.Line})
	c.emit(Instruction{Op: LABEL, Result: lbody, Line: forNode.Position.Line})

	c.lowerStatement(forNode.Body)
	c.lowerStatement(forNode.Increment)

	c.emit(Instruction{Op: GOTO, Result: lstart, Line: forNode.Position.Line})
	c.emit(Instruction{Op: LABEL, Result: lend, Line: forNode.Position.Line})
}

// lowerExpr lowers an expression into a fresh temporary and returns its
// name, recursing left-then-right for binary operators (spec.md §4.4).
func (c *LoweringContext) lowerExpr(n ast.Node) string {
	switch expr := n.(type) {
	case *ast.Number:
		t := c.newTemp()
		c.emit(Instruction{Op: ASSIGN, Result: t, Arg1: fmt.Sprintf("%d", expr.Value), Line: expr.Position.Line})
		return t

	case *ast.String:
		t := c.newTemp()
		c.emit(Instruction{Op: ASSIGN, Result: t, Arg1: fmt.Sprintf("%q", expr.Value), Line: expr.Position.Line})
		return t

	case *ast.Identifier:
		t := c.newTemp()
		c.emit(Instruction{Op: ASSIGN, Result: t, Arg1: expr.Name, Line: expr.Position.Line})
		return t

	case *ast.BinaryOp:
		left := c.lowerExpr(expr.Left)
		right := c.lowerExpr(expr.Right)
		op, _ := BinOpToTAC(string(expr.Op))
		t := c.newTemp()
		c.emit(Instruction{Op: op, Result: t, Arg1: left, Arg2: right, Line: expr.Position.Line})
		return t

	case *ast.FunctionCall:
		var arg string
		if len(expr.Args) > 0 {
			arg = c.lowerExpr(expr.Args[0])
		}
		t := c.newTemp()
		c.emit(Instruction{Op: CALL, Result: t, Arg1: expr.Name, Arg2: arg, Line: expr.Position.Line})
		return t

	default:
		return ""
	}
}
