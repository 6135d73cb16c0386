// Command clox is the thin CLI shell around the compiler/vm CORE: a
// repl, run, and compile subcommand, none of which belong to the CORE's
// own scope (§6.4) but which make the module runnable end to end.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

// Exit codes per the CLI contract: 0 success, 64 usage, 65 compile
// error, 70 runtime error, 74 I/O error.
const (
	exitUsage        subcommands.ExitStatus = 64
	exitCompileError subcommands.ExitStatus = 65
	exitRuntimeError subcommands.ExitStatus = 70
	exitIOError      subcommands.ExitStatus = 74
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&compileCmd{}, "")

	flag.Parse()

	// No subcommand named: fall straight into the REPL, the way the
	// original clox binary with no arguments does.
	if flag.NArg() == 0 {
		os.Exit(int((&replCmd{}).Execute(context.Background(), flag.CommandLine)))
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
