// Package cli wires the scanner/parser/resolver/interpreter and the
// compiler/vm paths into a cobra command tree, extended with debug
// subcommands for inspecting each pipeline stage.
package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lox/internal/compiler"
	"lox/internal/interpreter"
	"lox/internal/parser"
	"lox/internal/report"
	"lox/internal/resolver"
	"lox/internal/scanner"
	"lox/internal/vm"
)

// Exit codes, in order of how the CLI discovers them.
const (
	ExitOK           = 0
	ExitUsageError   = 64
	ExitCompileError = 65
	ExitRuntimeError = 70
)

var useVM bool

// Execute builds and runs the root command, returning the process
// exit code (it never calls os.Exit itself, so tests can call it
// directly).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsageError
	}
	return lastExitCode
}

// lastExitCode lets subcommands communicate a precise exit code back
// through Execute without every RunE needing to call os.Exit directly
// (which would make them untestable).
var lastExitCode int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lox [script]",
		Short:         "A tree-walking interpreter and bytecode VM for Lox",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				lastExitCode = runREPL(useVM)
				return nil
			}
			lastExitCode = runFile(args[0], useVM)
			return nil
		},
	}
	cmd.PersistentFlags().BoolVar(&useVM, "vm", false, "execute with the bytecode VM instead of the tree-walker")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newREPLCmd())
	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newASTCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a Lox script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lastExitCode = runFile(args[0], useVM)
			return nil
		},
	}
	return cmd
}

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Lox session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lastExitCode = runREPL(useVM)
			return nil
		},
	}
}

func readScript(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func runFile(path string, vmMode bool) int {
	src, err := readScript(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsageError
	}

	r := report.New()
	if vmMode {
		runVMSource(src, r)
	} else {
		runTreeWalker(src, r)
	}

	switch {
	case r.HadError:
		return ExitCompileError
	case r.HadRuntimeError:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

func runTreeWalker(src []byte, r *report.Reporter) {
	toks := scanner.New(src, r).Scan()
	program := parser.New(toks, r).Parse()
	if r.HadError {
		return
	}

	res := resolver.New(r)
	res.Resolve(program)
	if r.HadError {
		return
	}

	it := interpreter.New(r)
	it.UseLocals(res.Locals)
	it.Interpret(program)
}

func runVMSource(src []byte, r *report.Reporter) {
	c, ok := compiler.Compile(src, r)
	if !ok {
		return
	}
	vm.New(c, r).Run()
}

// runREPL is the interactive loop: prompt "> ", compile+evaluate each
// line, print errors, stop on EOF or exit/quit. Each line gets a fresh
// Reporter so one mistake doesn't poison the session.
func runREPL(vmMode bool) int {
	banner := color.New(color.FgCyan).SprintFunc()
	fmt.Println(banner("lox repl — Ctrl-D or 'exit' to quit"))

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			fmt.Println()
			return ExitOK
		}
		line := in.Text()
		if line == "exit" || line == "quit" {
			return ExitOK
		}
		if line == "" {
			continue
		}

		r := report.New()
		if vmMode {
			runVMSource([]byte(line), r)
		} else {
			runTreeWalker([]byte(line), r)
		}
	}
}
