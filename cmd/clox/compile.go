package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"clox/compiler"
	"clox/value"
	"clox/vm"

	"github.com/google/subcommands"
)

// compileCmd compiles a source file and dumps its disassembly and
// constant pool, adapted from the teacher's cmd_emit_bytecode.go
// ("emit") subcommand.
type compileCmd struct{}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile a source file and print its disassembly" }
func (*compileCmd) Usage() string {
	return "compile <path>:\n  Compile a clox source file and print its disassembled bytecode.\n"
}
func (*compileCmd) SetFlags(*flag.FlagSet) {}

func (*compileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: clox compile <path>")
		return exitUsage
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return exitIOError
	}

	heap := vm.NewState()
	chunk := value.NewChunk()
	if !compiler.Compile(source, chunk, heap) {
		return exitCompileError
	}

	fmt.Print(chunk.Disassemble(args[0]))
	fmt.Println("== constants ==")
	for i, c := range chunk.Constants {
		fmt.Printf("%4d '%s'\n", i, c)
	}
	return subcommands.ExitSuccess
}
