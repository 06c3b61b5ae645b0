// Package compiler contains the core of the compiler: the orchestration
// that drives source text through every stage of the pipeline.
//
// In brief we go through a five-step process:
//
//  1. Lex the source into a token stream.
//
//  2. Parse the token stream into an AST.
//
//  3. Run the semantic analyzer over the AST, collecting diagnostics.
//
//  4. Lower the AST into a flat list of three-address-code instructions.
//
//  5. Optionally run the optimizer over the TAC, then generate assembly.
//
// Each stage owns its own state; nothing here is process-wide, so a
// Compiler may be reused for independent source files without leaking
// temp/label counters or diagnostics between them.
package compiler

import (
	"github.com/pkg/errors"

	"github.com/Harshit13-12/bakc/internal/bakclog"
	"github.com/Harshit13-12/bakc/internal/codegen"
	"github.com/Harshit13-12/bakc/internal/lexer"
	"github.com/Harshit13-12/bakc/internal/optimizer"
	"github.com/Harshit13-12/bakc/internal/parser"
	"github.com/Harshit13-12/bakc/internal/sema"
	"github.com/Harshit13-12/bakc/internal/tac"
)

// Compiler holds our object-state.
type Compiler struct {
	// debug holds a flag to decide if debugging "stuff" is generated
	// in the output assembly.
	debug bool

	// optimize enables the optional TAC-to-TAC filter between lowering
	// and code generation.
	optimize bool

	// source holds the program text we're compiling.
	source string

	// Diagnostics accumulates every semantic error found during the
	// most recent Compile call.
	Diagnostics []sema.Diagnostic
}

// New creates a new compiler, given the source text in the constructor.
func New(input string) *Compiler {
	return &Compiler{source: input}
}

// SetDebug changes the debug-flag for our output; when set, codegen
// annotates the emitted assembly with source-line comments and the size of
// the generated text is logged.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// SetOptimize enables or disables the optional optimizer pass.
func (c *Compiler) SetOptimize(val bool) {
	c.optimize = val
}

// Compile converts the source program into x86-64 assembly text. A
// syntax error aborts immediately (spec.md §7: "parser errors are
// first-fail"); semantic errors are collected into c.Diagnostics and
// compilation halts before TAC emission iff any were recorded.
func (c *Compiler) Compile() (string, error) {
	log := bakclog.Stage("compile")

	prog, err := parser.ParseProgram(lexer.New(c.source))
	if err != nil {
		return "", errors.Wrap(err, "parse error")
	}
	log.Debug().Msg("parse complete")

	analyzer := sema.New()
	analyzer.Analyze(prog)
	c.Diagnostics = analyzer.Diagnostics
	if len(c.Diagnostics) > 0 {
		return "", errors.Errorf("%d semantic error(s), first: %s", len(c.Diagnostics), c.Diagnostics[0].String())
	}
	log.Debug().Msg("semantic analysis complete")

	instrs := tac.Lower(prog)
	log.Debug().Int("instructions", len(instrs)).Msg("lowering complete")

	if c.optimize {
		instrs = optimizer.Run(instrs)
		log.Debug().Int("instructions", len(instrs)).Msg("optimization complete")
	}

	asm, err := codegen.GenerateDebug(instrs, c.debug)
	if err != nil {
		return "", errors.Wrap(err, "codegen error")
	}
	if c.debug {
		log.Debug().Int("bytes", len(asm)).Msg("codegen complete")
	}

	return asm, nil
}
