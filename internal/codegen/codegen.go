// Package codegen turns a TAC instruction list into x86-64 assembly text
// targeting the Windows x64 calling convention (spec.md §4.5).
//
// Emission is two passes over the same instruction list. The first walks
// every instruction once to discover the `.data` section: every
// non-literal, non-label operand becomes an `dq 0` cell, and every
// string-literal ASSIGN gets its own `string_<k>` label. The second walks
// the list again and emits one or more lines of `.text` per instruction,
// using internal/stack's register pool and internal/instructions'
// mnemonic-line builder.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Harshit13-12/bakc/internal/instructions"
	"github.com/Harshit13-12/bakc/internal/stack"
	"github.com/Harshit13-12/bakc/internal/tac"
)

// Generator walks a TAC list and produces assembly text.
type Generator struct {
	instrs []tac.Instruction

	// dataVars is every non-literal, non-label operand that needs a
	// `name: dq 0` cell in .data. dataOrder preserves first-seen order.
	dataVars  map[string]bool
	dataOrder []string

	// stringLabels maps a string literal's lexeme to the `.data` label
	// that holds its bytes, assigned in discovery order.
	stringLabels map[string]string

	// stringOrder preserves the discovery order of stringLabels, since
	// map iteration order is not deterministic and the emitted .data
	// section should be stable across runs of the same program.
	stringOrder []string

	// stringValued records which variables and temporaries currently
	// hold a string, so `show` can dispatch to show_str instead of
	// show_num (spec.md §4.5, "show argument dispatch").
	stringValued map[string]bool

	// inlineStrings collects ad-hoc `temp_string_<k>` labels synthesized
	// for a quoted literal passed directly to show().
	inlineStrings []inlineString

	// debug annotates each emitted instruction block with a "; source
	// line N" comment, mirroring the line annotations the original
	// implementation's debug build emits ahead of codegen blocks.
	debug bool

	strCounter int
	lastLine   int
}

type inlineString struct {
	label string
	value string
}

// New returns a Generator ready to emit instrs.
func New(instrs []tac.Instruction) *Generator {
	return &Generator{
		instrs:       instrs,
		dataVars:     make(map[string]bool),
		stringLabels: make(map[string]string),
		stringValued: make(map[string]bool),
	}
}

// SetDebug enables per-instruction "; source line N" comments in the
// emitted .text section.
func (g *Generator) SetDebug(val bool) {
	g.debug = val
}

// Generate runs both passes and returns the complete assembly text,
// including the `default rel` prologue (spec.md §4.5).
func Generate(instrs []tac.Instruction) (string, error) {
	return GenerateDebug(instrs, false)
}

// GenerateDebug is Generate with control over source-line annotations.
func GenerateDebug(instrs []tac.Instruction, debug bool) (string, error) {
	g := New(instrs)
	g.SetDebug(debug)
	g.discoverData()

	body, err := g.emitText()
	if err != nil {
		return "", errors.Wrap(err, "codegen")
	}

	var out strings.Builder
	out.WriteString("default rel\n\n")
	out.WriteString(g.emitDataSection())
	out.WriteString(body)
	return out.String(), nil
}

func isLabelOperand(s string) bool {
	if s == "" || s[0] != 'L' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 1
}

func isIntegerLiteral(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isStringLiteral reports whether s is a TAC string-literal operand: a
// Go-quoted form, since internal/tac lowers *ast.String with fmt.Sprintf("%q", ...).
func isStringLiteral(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

func unquote(s string) string {
	v, err := strconv.Unquote(s)
	if err != nil {
		return strings.Trim(s, `"`)
	}
	return v
}

func isOperandVar(s string) bool {
	if s == "" {
		return false
	}
	if isLabelOperand(s) || isIntegerLiteral(s) || isStringLiteral(s) {
		return false
	}
	return true
}

// discoverData is pass 1 (spec.md §4.5): collect every variable/temporary
// operand that needs a `.data` cell, and assign a `.data` label to every
// string-literal ASSIGN.
func (g *Generator) discoverData() {
	for _, instr := range g.instrs {
		if instr.Op == tac.ASSIGN && isStringLiteral(instr.Arg1) {
			if _, ok := g.stringLabels[instr.Arg1]; !ok {
				g.stringLabels[instr.Arg1] = fmt.Sprintf("string_%d", g.strCounter)
				g.strCounter++
				g.stringOrder = append(g.stringOrder, instr.Arg1)
			}
		}

		for _, operand := range []string{instr.Result, instr.Arg1, instr.Arg2} {
			if instr.Op == tac.LABEL || instr.Op == tac.GOTO || instr.Op == tac.IF {
				// Result on these ops is a label, not a data operand.
				continue
			}
			if isOperandVar(operand) && !g.dataVars[operand] {
				g.dataVars[operand] = true
				g.dataOrder = append(g.dataOrder, operand)
			}
		}
	}
}

func (g *Generator) emitDataSection() string {
	var out strings.Builder
	out.WriteString("section .data\n")

	for _, lit := range g.stringOrder {
		label := g.stringLabels[lit]
		out.WriteString(fmt.Sprintf("%s: db %q, 0\n", label, unquote(lit)))
	}
	for _, is := range g.inlineStrings {
		out.WriteString(fmt.Sprintf("%s: db %q, 0\n", is.label, is.value))
	}
	for _, name := range g.dataOrder {
		out.WriteString(fmt.Sprintf("%s: dq 0\n", name))
	}

	out.WriteString("\n")
	return out.String()
}

func (g *Generator) newInlineString(value string) string {
	label := fmt.Sprintf("temp_string_%d", len(g.inlineStrings))
	g.inlineStrings = append(g.inlineStrings, inlineString{label: label, value: value})
	return label
}

// emitText is pass 2 (spec.md §4.5).
func (g *Generator) emitText() (string, error) {
	var out strings.Builder
	out.WriteString("section .text\n")
	out.WriteString("global _start\n")
	out.WriteString("extern show_num\n")
	out.WriteString("extern show_str\n")
	out.WriteString("extern process_exit\n")
	out.WriteString(instructions.Label("_start").String() + "\n")

	pool := stack.New()

	for _, instr := range g.instrs {
		if err := g.emitInstruction(&out, pool, instr); err != nil {
			return "", err
		}
	}

	out.WriteString(instructions.New("mov", "rcx", "0").String() + "\n")
	out.WriteString(instructions.New("call", "process_exit").String() + "\n")

	return out.String(), nil
}

func (g *Generator) emitInstruction(out *strings.Builder, pool *stack.Pool, instr tac.Instruction) error {
	line := func(i instructions.Instruction) {
		out.WriteString(i.String() + "\n")
	}

	if g.debug && instr.Line != 0 && instr.Line != g.lastLine {
		out.WriteString(fmt.Sprintf("        ; source line %d\n", instr.Line))
		g.lastLine = instr.Line
	}

	switch instr.Op {
	case tac.LABEL:
		line(instructions.Label(instr.Result))

	case tac.GOTO:
		line(instructions.New("jmp", instr.Result))

	case tac.IF:
		reg, err := g.acquire(pool)
		if err != nil {
			return err
		}
		defer pool.Release(reg)
		line(instructions.New("mov", reg, "["+instr.Arg1+"]"))
		line(instructions.New("cmp", reg, "0"))
		line(instructions.New("jne", instr.Result))

	case tac.ASSIGN:
		return g.emitAssign(out, pool, instr)

	case tac.CALL:
		return g.emitCall(out, pool, instr)

	default:
		return g.emitBinary(out, pool, instr)
	}
	return nil
}

// acquire pulls one scratch register from pool, failing loudly if the
// codegen invariant that every prior instruction releases what it
// acquires has somehow been violated.
func (g *Generator) acquire(pool *stack.Pool) (string, error) {
	reg, err := pool.Acquire()
	if err != nil {
		return "", errors.Wrap(err, "codegen: out of scratch registers")
	}
	return reg, nil
}

func (g *Generator) emitAssign(out *strings.Builder, pool *stack.Pool, instr tac.Instruction) error {
	line := func(i instructions.Instruction) { out.WriteString(i.String() + "\n") }

	reg, err := g.acquire(pool)
	if err != nil {
		return err
	}
	defer pool.Release(reg)

	switch {
	case isStringLiteral(instr.Arg1):
		label := g.stringLabels[instr.Arg1]
		line(instructions.New("lea", reg, "[rel "+label+"]"))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
		g.stringValued[instr.Result] = true

	case isIntegerLiteral(instr.Arg1):
		line(instructions.New("mov", reg, instr.Arg1))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
		delete(g.stringValued, instr.Result)

	default:
		line(instructions.New("mov", reg, "["+instr.Arg1+"]"))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
		if g.stringValued[instr.Arg1] {
			g.stringValued[instr.Result] = true
		} else {
			delete(g.stringValued, instr.Result)
		}
	}
	return nil
}

var compareSetCC = map[tac.Op]string{
	tac.LESS:    "setl",
	tac.GREATER: "setg",
}

// emitBinary emits arithmetic and comparison TAC ops. DIV acquires a
// second register for cqo/idiv's hard-wired rax:rdx dividend/remainder
// pair; every other op needs only one.
func (g *Generator) emitBinary(out *strings.Builder, pool *stack.Pool, instr tac.Instruction) error {
	line := func(i instructions.Instruction) { out.WriteString(i.String() + "\n") }

	left := operandRef(instr.Arg1)
	right := operandRef(instr.Arg2)

	reg, err := g.acquire(pool)
	if err != nil {
		return err
	}
	defer pool.Release(reg)

	switch instr.Op {
	case tac.ADD:
		line(instructions.New("mov", reg, left))
		line(instructions.New("add", reg, right))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
	case tac.SUB:
		line(instructions.New("mov", reg, left))
		line(instructions.New("sub", reg, right))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
	case tac.MUL:
		line(instructions.New("mov", reg, left))
		line(instructions.New("imul", reg, right))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
	case tac.DIV:
		// cqo/idiv hard-wire the dividend and remainder to rax and rdx;
		// acquiring both from the pool here reserves that pair for the
		// duration of the division instead of trusting it implicitly.
		rem, err := g.acquire(pool)
		if err != nil {
			return err
		}
		defer pool.Release(rem)
		line(instructions.New("mov", reg, left))
		line(instructions.New("cqo"))
		line(instructions.New("idiv", "qword "+right))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
	case tac.NEG:
		line(instructions.New("mov", reg, left))
		line(instructions.New("neg", reg))
		line(instructions.New("mov", "["+instr.Result+"]", reg))
	default:
		if setcc, ok := compareSetCC[instr.Op]; ok {
			line(instructions.New("mov", reg, left))
			line(instructions.New("cmp", reg, right))
			line(instructions.New(setcc, "al"))
			line(instructions.New("movzx", reg, "al"))
			line(instructions.New("mov", "["+instr.Result+"]", reg))
		}
	}
	return nil
}

// operandRef renders an Arg operand as the x86-64 syntax that reads its
// current value: `[name]` for a variable/temporary, the literal text for
// an integer literal.
func operandRef(operand string) string {
	if isIntegerLiteral(operand) {
		return operand
	}
	return "[" + operand + "]"
}

// emitCall lowers a TAC CALL. show dispatches per spec.md §4.5's three
// rules; any other callee name is a codegen-time invariant violation,
// since semantic analysis rejects every other built-in (ask included).
func (g *Generator) emitCall(out *strings.Builder, pool *stack.Pool, instr tac.Instruction) error {
	line := func(i instructions.Instruction) { out.WriteString(i.String() + "\n") }

	if instr.Arg1 != "show" {
		return errors.Errorf("codegen: unsupported call target %q", instr.Arg1)
	}

	arg := instr.Arg2

	switch {
	case isStringLiteral(arg):
		label := g.newInlineString(unquote(arg))
		line(instructions.New("lea", "rcx", "[rel "+label+"]"))
		line(instructions.New("call", "show_str"))

	case isIntegerLiteral(arg):
		line(instructions.New("mov", "rcx", arg))
		line(instructions.New("call", "show_num"))

	default:
		line(instructions.New("mov", "rcx", "["+arg+"]"))
		if g.stringValued[arg] {
			line(instructions.New("call", "show_str"))
		} else {
			line(instructions.New("call", "show_num"))
		}
	}

	return nil
}
