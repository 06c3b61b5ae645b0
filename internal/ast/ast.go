// Package ast defines the abstract syntax tree produced by the parser.
//
// A Node owns its children exclusively, the way the teacher's internal
// instruction list owns its operand values: destroying a Node destroys its
// subtree. Every Node tracks the source Position it was parsed from, which
// flows through semantic analysis and TAC lowering for diagnostics.
package ast

import "github.com/Harshit13-12/bakc/internal/token"

// Position is a 1-based (line, column) pair, matching token.Token.
type Position struct {
	Line   int
	Column int
}

// BinOp identifies a binary operator.
type BinOp string

// The operators the source language supports (spec.md §3).
const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
	OpLt  BinOp = "<"
	OpGt  BinOp = ">"
)

// BinOpFromToken maps a lexical operator token to a BinOp.
func BinOpFromToken(kind token.Kind) (BinOp, bool) {
	switch kind {
	case token.PLUS:
		return OpAdd, true
	case token.MINUS:
		return OpSub, true
	case token.STAR:
		return OpMul, true
	case token.SLASH:
		return OpDiv, true
	case token.LT:
		return OpLt, true
	case token.GT:
		return OpGt, true
	default:
		return "", false
	}
}

// DataType is a Bakscript value type.
type DataType string

// The two declarable types, plus Void for statements/builtins with no value.
const (
	Num  DataType = "num"
	Str  DataType = "str"
	Void DataType = "void"
)

// Node is implemented by every AST variant.
type Node interface {
	Pos() Position
	node()
}

// Number is an integer literal (spec.md §3 — signed 64-bit).
type Number struct {
	Value    int64
	Position Position
}

// String is a string literal, already stripped of its surrounding quotes.
type String struct {
	Value    string
	Position Position
}

// Identifier is a bare name in an expression position.
type Identifier struct {
	Name     string
	Position Position
}

// BinaryOp is `left <op> right`.
type BinaryOp struct {
	Op       BinOp
	Left     Node
	Right    Node
	Position Position
}

// FunctionCall is `name(args...)` — used for both user calls and the two
// built-ins, show and ask.
type FunctionCall struct {
	Name     string
	Args     []Node
	Position Position
}

// VarDecl is `num|str name (= initializer)? ;`.
type VarDecl struct {
	TypeName    DataType
	Name        string
	Initializer Node // nil if absent
	Position    Position
}

// Assign is a plain `name = expr` (not a declaration).
type Assign struct {
	Name     string
	Value    Node
	Position Position
}

// Block is an ordered sequence of statements delimited by `{ }`.
type Block struct {
	Statements []Node
	Position   Position
}

// If is `when (cond) thenBody (otherwise elseBody)?`.
type If struct {
	Condition Node
	Then      *Block
	Else      *Block // nil if there is no otherwise clause
	Position  Position
}

// For is `repeat (init cond; inc) body`.
type For struct {
	Init      *VarDecl
	Condition Node
	Increment *Assign
	Body      *Block
	Position  Position
}

// Program is the root node: an ordered sequence of top-level statements.
type Program struct {
	Statements []Node
	Position   Position
}

func (n *Number) Pos() Position       { return n.Position }
func (n *String) Pos() Position       { return n.Position }
func (n *Identifier) Pos() Position   { return n.Position }
func (n *BinaryOp) Pos() Position     { return n.Position }
func (n *FunctionCall) Pos() Position { return n.Position }
func (n *VarDecl) Pos() Position      { return n.Position }
func (n *Assign) Pos() Position       { return n.Position }
func (n *Block) Pos() Position        { return n.Position }
func (n *If) Pos() Position           { return n.Position }
func (n *For) Pos() Position          { return n.Position }
func (n *Program) Pos() Position      { return n.Position }

func (n *Number) node()       {}
func (n *String) node()       {}
func (n *Identifier) node()   {}
func (n *BinaryOp) node()     {}
func (n *FunctionCall) node() {}
func (n *VarDecl) node()      {}
func (n *Assign) node()       {}
func (n *Block) node()        {}
func (n *If) node()           {}
func (n *For) node()          {}
func (n *Program) node()      {}
