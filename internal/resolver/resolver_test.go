package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/ast"
	"lox/internal/parser"
	"lox/internal/report"
	"lox/internal/resolver"
	"lox/internal/scanner"
)

func resolve(t *testing.T, src string) (*resolver.Resolver, *report.Reporter) {
	t.Helper()
	r := report.New()
	toks := scanner.New([]byte(src), r).Scan()
	program := parser.New(toks, r).Parse()
	res := resolver.New(r)
	res.Resolve(program)
	return res, r
}

func TestResolverBindsLocalVariableDistance(t *testing.T) {
	res, r := resolve(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
	`)
	require.False(t, r.HadError)

	found := 0
	for _, d := range res.Locals {
		found++
		assert.Equal(t, 0, d)
	}
	assert.Equal(t, 1, found)
}

func TestResolverRejectsSelfReferentialInitializer(t *testing.T) {
	_, r := resolve(t, `
		var a = "outer";
		{
			var a = a;
		}
	`)
	assert.True(t, r.HadError)
}

func TestResolverRejectsDuplicateDeclarationInSameScope(t *testing.T) {
	_, r := resolve(t, `
		{
			var a = 1;
			var a = 2;
		}
	`)
	assert.True(t, r.HadError)
}

func TestResolverRejectsTopLevelReturn(t *testing.T) {
	_, r := resolve(t, `return 1;`)
	assert.True(t, r.HadError)
}

func TestResolverAllowsReturnInsideFunction(t *testing.T) {
	_, r := resolve(t, `fun f() { return 1; }`)
	assert.False(t, r.HadError)
}

func TestResolverClosureCapturesEnclosingLocal(t *testing.T) {
	res, r := resolve(t, `
		fun outer() {
			var x = 1;
			fun inner() {
				print x;
			}
			inner();
		}
	`)
	require.False(t, r.HadError)

	found := false
	for expr, d := range res.Locals {
		if v, ok := expr.(*ast.VariableExpr); ok && v.Name.Lexeme == "x" {
			found = true
			assert.Equal(t, 1, d)
		}
	}
	assert.True(t, found)
}
