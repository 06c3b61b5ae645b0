// Package sema implements the scoped semantic analyzer: symbol resolution,
// use-before-init tracking and type checking (spec.md §4.3).
//
// Traversal is post-order for expressions (children's types are computed
// first) and pre-order for blocks (the scope is entered before its
// children are visited). All diagnostics are accumulated in a Diagnostics
// list; analysis "succeeds" iff that list ends up empty (spec.md §4.3,
// §7).
package sema

import (
	"fmt"

	"github.com/Harshit13-12/bakc/internal/ast"
	"github.com/Harshit13-12/bakc/internal/symtable"
)

// ErrorKind enumerates the semantic diagnostic kinds. A sixth kind,
// ErrDivisionByZero, is added beyond the reference's five per spec.md §9
// note 3 / SPEC_FULL.md §5.3, rather than overloading ErrInvalidOperation.
type ErrorKind string

const (
	ErrUndefinedVariable     ErrorKind = "ERROR_UNDEFINED_VARIABLE"
	ErrUninitializedVariable ErrorKind = "ERROR_UNINITIALIZED_VARIABLE"
	ErrDuplicateVariable     ErrorKind = "ERROR_DUPLICATE_VARIABLE"
	ErrTypeMismatch          ErrorKind = "ERROR_TYPE_MISMATCH"
	ErrInvalidOperation      ErrorKind = "ERROR_INVALID_OPERATION"
	ErrDivisionByZero        ErrorKind = "ERROR_DIVISION_BY_ZERO"
	ErrUnsupportedBuiltin    ErrorKind = "ERROR_UNSUPPORTED_BUILTIN"
)

// Diagnostic is one reported semantic error.
type Diagnostic struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at %d:%d", d.Kind, d.Message, d.Line, d.Column)
}

// Analyzer walks a *ast.Program, resolving names and checking types.
type Analyzer struct {
	table       *symtable.SymbolTable
	Diagnostics []Diagnostic

	// Types records the resolved type of every expression Node the
	// analyzer visited, keyed by pointer identity. Lowering does not take
	// it as input; codegen tracks string-valued operands on its own.
	Types map[ast.Node]ast.DataType
}

// New returns an Analyzer ready to run over a single program.
func New() *Analyzer {
	return &Analyzer{table: symtable.New(), Types: make(map[ast.Node]ast.DataType)}
}

// Analyze runs the analyzer over prog. It always returns, even when
// diagnostics were recorded; callers check len(a.Diagnostics) == 0 for
// success, matching spec.md §4.3's batch-reporting model.
func (a *Analyzer) Analyze(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) report(kind ErrorKind, pos ast.Position, format string, args ...interface{}) {
	a.Diagnostics = append(a.Diagnostics, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
	})
}

func (a *Analyzer) analyzeStatement(n ast.Node) {
	switch stmt := n.(type) {
	case *ast.VarDecl:
		a.analyzeVarDecl(stmt)

	case *ast.Assign:
		a.analyzeAssign(stmt)

	case *ast.FunctionCall:
		a.analyzeExpr(stmt)

	case *ast.If:
		a.analyzeIf(stmt)

	case *ast.For:
		a.analyzeFor(stmt)

	case *ast.Block:
		a.analyzeBlockScoped(stmt)
	}
}

func (a *Analyzer) analyzeVarDecl(decl *ast.VarDecl) {
	sym := &symtable.Symbol{
		Name:     decl.Name,
		Kind:     symtable.KindVariable,
		DataType: symtable.DataType(decl.TypeName),
	}

	if !a.table.Declare(sym) {
		a.report(ErrDuplicateVariable, decl.Position, "variable %q is already declared in this scope", decl.Name)
		// Still analyze the initializer for further diagnostics, but
		// don't re-bind: the existing symbol stays authoritative.
		if decl.Initializer != nil {
			a.analyzeExpr(decl.Initializer)
		}
		return
	}

	if decl.Initializer == nil {
		return
	}

	initType := a.analyzeExpr(decl.Initializer)
	a.checkDivisionByZeroInInitializer(decl.Initializer)

	// A function-call initializer defers checking (spec.md §4.3) — our
	// only builtins are `show` (void) and `ask` (str), both accepted here
	// without a type match requirement against the declared type.
	if call, ok := decl.Initializer.(*ast.FunctionCall); ok {
		_ = call
		symtable.MarkInitialized(sym)
		return
	}

	if initType != "" && initType != ast.DataType(decl.TypeName) {
		a.report(ErrTypeMismatch, decl.Position,
			"cannot initialize %q (%s) with a value of type %s", decl.Name, decl.TypeName, initType)
		return
	}

	symtable.MarkInitialized(sym)
}

func (a *Analyzer) analyzeAssign(assign *ast.Assign) {
	sym, ok := a.table.Lookup(assign.Name)
	if !ok {
		a.report(ErrUndefinedVariable, assign.Position, "assignment to undeclared variable %q", assign.Name)
		a.analyzeExpr(assign.Value)
		return
	}

	valueType := a.analyzeExpr(assign.Value)
	a.checkDivisionByZeroInInitializer(assign.Value)

	if valueType != "" && valueType != ast.DataType(sym.DataType) {
		a.report(ErrTypeMismatch, assign.Position,
			"cannot assign a value of type %s to %q (%s)", valueType, assign.Name, sym.DataType)
		return
	}

	symtable.MarkInitialized(sym)
}

func (a *Analyzer) analyzeIf(ifNode *ast.If) {
	condType := a.analyzeExpr(ifNode.Condition)
	if condType != "" && condType != ast.Num {
		a.report(ErrTypeMismatch, ifNode.Position, "the condition of 'when' must be num, got %s", condType)
	}

	a.analyzeBlockScoped(ifNode.Then)
	if ifNode.Else != nil {
		a.analyzeBlockScoped(ifNode.Else)
	}
}

func (a *Analyzer) analyzeFor(forNode *ast.For) {
	// The init binds in the loop's own scope (spec.md §4.3).
	a.table.EnterScope()
	defer a.table.ExitScope()

	a.analyzeVarDecl(forNode.Init)

	condType := a.analyzeExpr(forNode.Condition)
	if condType != "" && condType != ast.Num {
		a.report(ErrTypeMismatch, forNode.Position, "the condition of 'repeat' must be num, got %s", condType)
	}

	a.analyzeAssign(forNode.Increment)

	// The body is its own nested scope, distinct from the init's scope,
	// so a body-local redeclaration of the loop variable is accepted as
	// shadowing rather than rejected as a same-scope duplicate.
	a.analyzeBlockScoped(forNode.Body)
}

// analyzeBlockScoped enters a new scope before visiting a block's children
// (pre-order per spec.md §4.3) and always exits it again, even if nothing
// inside type-checks.
func (a *Analyzer) analyzeBlockScoped(block *ast.Block) {
	a.table.EnterScope()
	defer a.table.ExitScope()

	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt)
	}
}

// analyzeExpr computes (and records in a.Types) the type of an expression,
// post-order: children are always visited before checking the parent.
func (a *Analyzer) analyzeExpr(n ast.Node) ast.DataType {
	var result ast.DataType

	switch expr := n.(type) {
	case *ast.Number:
		result = ast.Num

	case *ast.String:
		result = ast.Str

	case *ast.Identifier:
		sym, ok := a.table.Lookup(expr.Name)
		if !ok {
			a.report(ErrUndefinedVariable, expr.Position, "use of undeclared variable %q", expr.Name)
			return ""
		}
		if !sym.IsInitialized {
			a.report(ErrUninitializedVariable, expr.Position, "variable %q is used before being initialized", expr.Name)
			// Non-fatal: analysis continues with the declared type.
		}
		result = ast.DataType(sym.DataType)

	case *ast.BinaryOp:
		left := a.analyzeExpr(expr.Left)
		right := a.analyzeExpr(expr.Right)
		result = a.analyzeBinaryOp(expr, left, right)

	case *ast.FunctionCall:
		result = a.analyzeCall(expr)

	default:
		result = ""
	}

	if result != "" {
		a.Types[n] = result
	}
	return result
}

func (a *Analyzer) analyzeBinaryOp(expr *ast.BinaryOp, left, right ast.DataType) ast.DataType {
	switch expr.Op {
	case ast.OpLt, ast.OpGt:
		if left != "" && right != "" && left != right {
			a.report(ErrTypeMismatch, expr.Position, "cannot compare %s with %s", left, right)
			return ""
		}
		return ast.Num

	default: // arithmetic: + - * /
		if (left != "" && left != ast.Num) || (right != "" && right != ast.Num) {
			a.report(ErrInvalidOperation, expr.Position, "arithmetic requires num operands, got %s and %s", left, right)
			return ""
		}
		return ast.Num
	}
}

// checkDivisionByZeroInInitializer walks the expression, at any depth, for
// a division whose literal RHS is zero (spec.md §4.3's "division literal-zero
// in RHS" rule), reported as ErrDivisionByZero (spec.md §9 note 3).
func (a *Analyzer) checkDivisionByZeroInInitializer(n ast.Node) {
	bin, ok := n.(*ast.BinaryOp)
	if !ok {
		return
	}
	if bin.Op == ast.OpDiv {
		if num, ok := bin.Right.(*ast.Number); ok && num.Value == 0 {
			a.report(ErrDivisionByZero, bin.Position, "division by the literal zero")
		}
	}
	a.checkDivisionByZeroInInitializer(bin.Left)
	a.checkDivisionByZeroInInitializer(bin.Right)
}

// analyzeCall is the SPEC_FULL.md §3 resolution of spec.md §9 note 6:
// `ask` has no runtime entry point in the out-of-scope runtime collaborator,
// so it is rejected here rather than silently codegen'd into a call to a
// nonexistent extern.
func (a *Analyzer) analyzeCall(call *ast.FunctionCall) ast.DataType {
	for _, arg := range call.Args {
		a.analyzeExpr(arg)
	}

	switch call.Name {
	case "show":
		return ast.Void
	case "ask":
		a.report(ErrUnsupportedBuiltin, call.Position,
			"'ask' has no implementation in the runtime this compiler targets")
		return ast.Str
	default:
		a.report(ErrUndefinedVariable, call.Position, "call to undefined function %q", call.Name)
		return ""
	}
}
