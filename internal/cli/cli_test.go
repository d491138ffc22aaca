package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunFileSuccessExitsZero(t *testing.T) {
	path := writeScript(t, `print 1 + 2;`)
	assert.Equal(t, ExitOK, runFile(path, false))
}

func TestRunFileCompileErrorExits65(t *testing.T) {
	path := writeScript(t, `print ;`)
	assert.Equal(t, ExitCompileError, runFile(path, false))
}

func TestRunFileRuntimeErrorExits70(t *testing.T) {
	path := writeScript(t, `print "a" - 1;`)
	assert.Equal(t, ExitRuntimeError, runFile(path, false))
}

func TestRunFileMissingFileExits64(t *testing.T) {
	assert.Equal(t, ExitUsageError, runFile(filepath.Join(t.TempDir(), "missing.lox"), false))
}

func TestRunFileVMModeSuccess(t *testing.T) {
	path := writeScript(t, `var a = 1; print a + 1;`)
	assert.Equal(t, ExitOK, runFile(path, true))
}
