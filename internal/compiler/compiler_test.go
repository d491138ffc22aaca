package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/chunk"
	"lox/internal/compiler"
	"lox/internal/report"
)

func TestCompilePrintArithmetic(t *testing.T) {
	r := report.New()
	c, ok := compiler.Compile([]byte(`print 1 + 2;`), r)
	require.True(t, ok)
	require.False(t, r.HadError)

	assert.Contains(t, c.Code, byte(chunk.OpAdd))
	assert.Contains(t, c.Code, byte(chunk.OpPrint))
}

func TestCompileVarDeclEmitsDefineGlobal(t *testing.T) {
	r := report.New()
	c, ok := compiler.Compile([]byte(`var a = 1;`), r)
	require.True(t, ok)
	assert.Contains(t, c.Code, byte(chunk.OpDefineGlobal))
}

func TestCompileInvalidAssignmentTarget(t *testing.T) {
	r := report.New()
	_, ok := compiler.Compile([]byte(`1 = 2;`), r)
	assert.False(t, ok)
	assert.True(t, r.HadError)
}

func TestCompileTooManyConstantsErrors(t *testing.T) {
	src := "var a = 1;"
	for i := 0; i < 300; i++ {
		src += "print 1;"
	}
	r := report.New()
	_, ok := compiler.Compile([]byte(src), r)
	assert.False(t, ok)
	assert.True(t, r.HadError)
}

func TestCompileNotEqualDesugarsToEqualThenNot(t *testing.T) {
	r := report.New()
	c, ok := compiler.Compile([]byte(`print 1 != 2;`), r)
	require.True(t, ok)

	foundEqual, foundNot := false, false
	for _, b := range c.Code {
		if chunk.OpCode(b) == chunk.OpEqual {
			foundEqual = true
		}
		if chunk.OpCode(b) == chunk.OpNot {
			foundNot = true
		}
	}
	assert.True(t, foundEqual)
	assert.True(t, foundNot)
}
