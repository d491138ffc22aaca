// Package golden cross-checks the tree-walker and the bytecode VM
// against each other on the statement subset they both implement
// (var/print/expression declarations): the two backends are meant to
// agree on every script confined to that subset, and this package runs
// both and diffs the observed output.
package golden

import (
	"bytes"
	"io"
	"os"

	"lox/internal/compiler"
	"lox/internal/interpreter"
	"lox/internal/parser"
	"lox/internal/report"
	"lox/internal/resolver"
	"lox/internal/scanner"
	"lox/internal/vm"
)

// Case is one script to run through both backends.
type Case struct {
	Name   string
	Source string
}

// Result captures one backend's observable behavior for a run.
type Result struct {
	Stdout   string
	HadError bool
}

// RunTreeWalker executes src through the scanner/parser/resolver/interpreter path.
func RunTreeWalker(src string) Result {
	return capture(func(r *report.Reporter) {
		toks := scanner.New([]byte(src), r).Scan()
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
	})
}

// RunVM executes src through the single-pass compiler and VM.
func RunVM(src string) Result {
	return capture(func(r *report.Reporter) {
		c, ok := compiler.Compile([]byte(src), r)
		if !ok {
			return
		}
		vm.New(c, r).Run()
	})
}

func capture(run func(r *report.Reporter)) Result {
	stdout := os.Stdout
	rd, wr, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	os.Stdout = wr

	r := report.New()
	run(r)

	wr.Close()
	os.Stdout = stdout

	var buf bytes.Buffer
	io.Copy(&buf, rd)

	return Result{Stdout: buf.String(), HadError: r.HadError || r.HadRuntimeError}
}

// Report is one Case's comparison outcome.
type Report struct {
	Case     Case
	Expected Result
	Actual   Result
	Agree    bool
}

// CompareAll runs every case through both backends and reports whether
// they agree (tree-walker is treated as the reference implementation).
func CompareAll(cases []Case) []Report {
	reports := make([]Report, len(cases))
	for i, c := range cases {
		expected := RunTreeWalker(c.Source)
		actual := RunVM(c.Source)
		reports[i] = Report{
			Case:     c,
			Expected: expected,
			Actual:   actual,
			Agree:    expected.Stdout == actual.Stdout && expected.HadError == actual.HadError,
		}
	}
	return reports
}
