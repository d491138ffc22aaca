package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/ast"
	"lox/internal/parser"
	"lox/internal/report"
	"lox/internal/scanner"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *report.Reporter) {
	t.Helper()
	r := report.New()
	toks := scanner.New([]byte(src), r).Scan()
	program := parser.New(toks, r).Parse()
	return program, r
}

func TestParsePrintExpression(t *testing.T) {
	program, r := parse(t, `print 1 + 2;`)
	require.False(t, r.HadError)
	require.Len(t, program, 1)

	p, ok := program[0].(*ast.PrintStmt)
	require.True(t, ok)
	assert.Equal(t, "(+ 1 2)", p.Expression.String())
}

func TestParseVarDeclWithoutInitializer(t *testing.T) {
	program, r := parse(t, `var a;`)
	require.False(t, r.HadError)
	require.Len(t, program, 1)

	v, ok := program[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "a", v.Name.Lexeme)
	assert.Nil(t, v.Initializer)
}

func TestParseAssignmentRequiresVariableTarget(t *testing.T) {
	_, r := parse(t, `1 = 2;`)
	assert.True(t, r.HadError)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	program, r := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.False(t, r.HadError)
	require.Len(t, program, 1)

	block, ok := program[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)

	_, isVar := block.Statements[0].(*ast.VarStmt)
	assert.True(t, isVar)

	while, isWhile := block.Statements[1].(*ast.WhileStmt)
	require.True(t, isWhile)

	whileBody, isBlock := while.Body.(*ast.BlockStmt)
	require.True(t, isBlock)
	require.Len(t, whileBody.Statements, 2)
}

func TestParseFunctionDeclaration(t *testing.T) {
	program, r := parse(t, `fun add(a, b) { return a + b; }`)
	require.False(t, r.HadError)
	require.Len(t, program, 1)

	fn, ok := program[0].(*ast.FunctionStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Lexeme)
	assert.Equal(t, "b", fn.Params[1].Lexeme)
}

func TestParseSynchronizesAfterError(t *testing.T) {
	program, r := parse(t, "var ; print 1;")
	assert.True(t, r.HadError)
	// Recovery should still find the trailing print statement.
	require.Len(t, program, 1)
	_, ok := program[0].(*ast.PrintStmt)
	assert.True(t, ok)
}

// Re-serializing a valid program via the AST printer and re-parsing it
// should produce an isomorphic tree (here, an identical printed form).
func TestParserDeterminismRoundTrip(t *testing.T) {
	src := `
		fun fib(n) {
			if (n <= 1) return n;
			return fib(n - 1) + fib(n - 2);
		}
		var result = fib(10);
		print result;
	`
	program1, r1 := parse(t, src)
	require.False(t, r1.HadError)

	printed := ast.Print(program1)
	program2, r2 := parse(t, printed)
	require.False(t, r2.HadError)

	reprinted := ast.Print(program2)
	if diff := cmp.Diff(printed, reprinted); diff != "" {
		t.Fatalf("re-parsed program printed differently (-want +got):\n%s", diff)
	}
}
