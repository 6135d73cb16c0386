package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"clox/compiler"
	"clox/scanner"
	"clox/token"
	"clox/value"
	"clox/vm"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// replCmd is the interactive read-eval-print loop. It upgrades the
// teacher's bufio.Scanner-based cmd_repl_compiled.go to real line editing
// and history via readline (a dependency the teacher's go.mod already
// declared but never imported), and recompiles the accumulated buffer
// each time isInputReady reports a complete statement.
type replCmd struct{}

func (*replCmd) Name() string           { return "repl" }
func (*replCmd) Synopsis() string       { return "start an interactive read-eval-print loop" }
func (*replCmd) Usage() string          { return "repl:\n  Start the interactive clox REPL.\n" }
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New(">>> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start readline: %v\n", err)
		return exitIOError
	}
	defer rl.Close()

	heap := vm.NewState()
	machine := vm.New(heap)

	var buffer strings.Builder
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			rl.SetPrompt(">>> ")
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)

		source := []byte(buffer.String())
		if !isInputReady(source) {
			rl.SetPrompt("... ")
			continue
		}
		rl.SetPrompt(">>> ")

		chunk := value.NewChunk()
		if compiler.Compile(source, chunk, heap) {
			if runErr := machine.Run(chunk); runErr != nil {
				fmt.Fprintln(os.Stderr, runErr)
			}
		}
		buffer.Reset()
	}
}

// isInputReady reports whether source looks like a complete statement:
// braces balance, and the last non-EOF token isn't one that still
// expects an operand or a following block (so `if (x > 5) {` waits for
// more input instead of being compiled as-is). Adapted from the
// teacher's isInputReady/lastNonEOF REPL helpers, retargeted from
// nilan's token.TokenType onto clox's token.Kind.
func isInputReady(source []byte) bool {
	toks := scanAll(source)

	braceBalance := 0
	for _, tok := range toks {
		switch tok.Kind {
		case token.LEFT_BRACE:
			braceBalance++
		case token.RIGHT_BRACE:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(toks)
	if last == nil {
		return true
	}

	switch last.Kind {
	case token.EQUAL, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.BANG, token.EQUAL_EQUAL, token.BANG_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.COMMA, token.LEFT_PAREN, token.LEFT_BRACE,
		token.IF, token.ELSE, token.WHILE, token.FOR, token.FUN,
		token.RETURN, token.VAR, token.AND, token.OR, token.PRINT:
		return false
	}
	return true
}

// scanAll runs the pull-based scanner to completion, purely for the
// REPL's own "is this a complete statement yet" heuristic — the
// compiler itself never buffers tokens this way.
func scanAll(source []byte) []token.Token {
	s := scanner.New(source)
	var toks []token.Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func lastNonEOF(toks []token.Token) *token.Token {
	for i := len(toks) - 1; i >= 0; i-- {
		if toks[i].Kind != token.EOF {
			return &toks[i]
		}
	}
	return nil
}
