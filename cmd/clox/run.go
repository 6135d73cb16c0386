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

// runCmd compiles and executes a source file in one shot, adapted from
// the teacher's cmd_run_compiled.go.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and run a clox source file" }
func (*runCmd) Usage() string {
	return "run <path>:\n  Compile and execute a clox source file.\n"
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (*runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: clox run <path>")
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

	machine := vm.New(heap)
	if runErr := machine.Run(chunk); runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return exitRuntimeError
	}

	return subcommands.ExitSuccess
}
