// Package instructions models a single emitted x86-64 assembly-language
// line.
//
// The teacher used this package to hold a byte-tagged RPN operation plus
// its literal operand. Codegen here targets real x86-64 text directly
// (spec.md §4.5), so the type becomes a mnemonic-plus-operands line that
// internal/codegen assembles into the emitted .text section — one value
// per instruction, same as before, just generalized from a fixed
// one-character opcode set to arbitrary mnemonics.
package instructions

import "strings"

// Instruction is one assembly-language line: a mnemonic, its comma-joined
// operands, and an optional trailing comment.
type Instruction struct {
	Mnemonic string
	Operands []string
	Comment  string
}

// New builds an Instruction from a mnemonic and its operands.
func New(mnemonic string, operands ...string) Instruction {
	return Instruction{Mnemonic: mnemonic, Operands: operands}
}

// WithComment attaches a trailing comment and returns the updated value.
func (i Instruction) WithComment(comment string) Instruction {
	i.Comment = comment
	return i
}

// Label returns a bare label line ("name:"), with no operands.
func Label(name string) Instruction {
	return Instruction{Mnemonic: name + ":"}
}

// String renders the instruction as one line of assembly text, indented to
// match the rest of the emitted .text section.
func (i Instruction) String() string {
	if strings.HasSuffix(i.Mnemonic, ":") {
		return i.Mnemonic
	}

	line := "        " + i.Mnemonic
	if len(i.Operands) > 0 {
		line += " " + strings.Join(i.Operands, ",")
	}
	if i.Comment != "" {
		line += "  ; " + i.Comment
	}
	return line
}
