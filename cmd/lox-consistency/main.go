// lox-consistency runs a fixed battery of scripts through both the
// tree-walker and the bytecode VM and reports where they disagree,
// in the pass/fail list format the project's test tooling has always
// used.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"lox/internal/golden"
)

const width = 80

var divider = strings.Repeat("-", width)

var cases = []golden.Case{
	{Name: "arithmetic", Source: `print 1 + 2 * 3;`},
	{Name: "string_concat", Source: `var a = "foo"; print a + "bar";`},
	{Name: "reassignment", Source: `var a = 1; a = a + 1; print a;`},
	{Name: "comparisons", Source: `print 1 < 2; print 2 <= 2; print 3 > 4;`},
	{Name: "equality", Source: `print 1 == 1; print 1 != 2; print "a" == "a";`},
	{Name: "type_error", Source: `print "a" - 1;`},
	{Name: "undefined_global", Source: `print nope;`},
}

func main() {
	failed := false
	for _, r := range golden.CompareAll(cases) {
		spacing := strings.Repeat(" ", width-len("  [passed] ")-len(r.Case.Name))
		if r.Agree {
			fmt.Printf("  [%s] %s%s\n", color.GreenString("passed"), r.Case.Name, spacing)
			continue
		}

		failed = true
		fmt.Println(divider)
		fmt.Printf("  [%s] %s%s\n", color.RedString("failed"), r.Case.Name, spacing)
		fmt.Printf("tree-walker stdout: %q\n", r.Expected.Stdout)
		fmt.Printf("vm stdout:          %q\n", r.Actual.Stdout)
		fmt.Println(divider)
	}

	if failed {
		os.Exit(1)
	}
}
