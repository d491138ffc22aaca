package vm_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lox/internal/compiler"
	"lox/internal/report"
	"lox/internal/vm"
)

func runVM(t *testing.T, src string) (string, *report.Reporter) {
	t.Helper()

	r := report.New()
	c, ok := compiler.Compile([]byte(src), r)
	require.True(t, ok)

	stdout := os.Stdout
	rd, wr, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = wr

	vm.New(c, r).Run()

	wr.Close()
	os.Stdout = stdout

	var buf bytes.Buffer
	_, err = io.Copy(&buf, rd)
	require.NoError(t, err)

	return buf.String(), r
}

func TestVMAddition(t *testing.T) {
	out, r := runVM(t, `print 1 + 2;`)
	assert.False(t, r.HadRuntimeError)
	assert.Equal(t, "3\n", out)
}

func TestVMStringConcatenation(t *testing.T) {
	out, r := runVM(t, `print "foo" + "bar";`)
	assert.False(t, r.HadRuntimeError)
	assert.Equal(t, "foobar\n", out)
}

func TestVMGlobalVariableRoundTrip(t *testing.T) {
	out, r := runVM(t, `var a = 10; a = a + 5; print a;`)
	assert.False(t, r.HadRuntimeError)
	assert.Equal(t, "15\n", out)
}

func TestVMNotEqualAndComparisons(t *testing.T) {
	out, r := runVM(t, `print 1 != 2; print 2 >= 2; print 1 <= 0;`)
	assert.False(t, r.HadRuntimeError)
	assert.Equal(t, "true\ntrue\nfalse\n", out)
}

func TestVMRuntimeErrorOnBadOperand(t *testing.T) {
	_, r := runVM(t, `print "a" - 1;`)
	assert.True(t, r.HadRuntimeError)
}

func TestVMUndefinedGlobalRead(t *testing.T) {
	_, r := runVM(t, `print nope;`)
	assert.True(t, r.HadRuntimeError)
}

func TestVMSetGlobalDoesNotCreate(t *testing.T) {
	_, r := runVM(t, `nope = 1;`)
	assert.True(t, r.HadRuntimeError)
}
