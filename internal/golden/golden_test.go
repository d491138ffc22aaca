package golden_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lox/internal/golden"
)

func TestTreeWalkerAndVMAgreeOnSharedSubset(t *testing.T) {
	cases := []golden.Case{
		{Name: "arithmetic", Source: `print 1 + 2 * 3;`},
		{Name: "string concat", Source: `var a = "foo"; print a + "bar";`},
		{Name: "reassignment", Source: `var a = 1; a = a + 1; print a;`},
		{Name: "comparisons", Source: `print 1 < 2; print 2 <= 2; print 3 > 4;`},
		{Name: "equality", Source: `print 1 == 1; print 1 != 2; print "a" == "a";`},
		{Name: "type error", Source: `print "a" - 1;`},
		{Name: "undefined global", Source: `print nope;`},
	}

	for _, r := range golden.CompareAll(cases) {
		assert.True(t, r.Agree, "case %q: tree-walker=%+v vm=%+v", r.Case.Name, r.Expected, r.Actual)
	}
}
