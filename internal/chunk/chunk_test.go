package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lox/internal/chunk"
	"lox/internal/object"
)

func TestWriteAppendsCodeAndLine(t *testing.T) {
	c := chunk.New()
	c.WriteOp(chunk.OpNil, 1)
	c.Write(0xFF, 1)

	assert.Equal(t, []byte{byte(chunk.OpNil), 0xFF}, c.Code)
	assert.Equal(t, []int{1, 1}, c.Lines)
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := chunk.New()
	i0, ok := c.AddConstant(object.Number(1))
	assert.True(t, ok)
	assert.Equal(t, byte(0), i0)

	i1, ok := c.AddConstant(object.String("x"))
	assert.True(t, ok)
	assert.Equal(t, byte(1), i1)
}

func TestAddConstantRejectsPastCapacity(t *testing.T) {
	c := chunk.New()
	for i := 0; i < 256; i++ {
		_, ok := c.AddConstant(object.Number(float64(i)))
		assert.True(t, ok)
	}
	_, ok := c.AddConstant(object.Number(256))
	assert.False(t, ok)
}
