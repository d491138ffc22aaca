package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lox/internal/object"
)

func TestTruthy(t *testing.T) {
	assert.False(t, object.Truthy(object.Nil{}))
	assert.False(t, object.Truthy(object.Bool(false)))
	assert.True(t, object.Truthy(object.Bool(true)))
	assert.True(t, object.Truthy(object.Number(0)))
	assert.True(t, object.Truthy(object.String("")))
}

// Equality is resolved strictly: Nil==Nil is true, Nil compared to
// anything else is false, and otherwise the variants must match.
func TestEqualNilIsStrict(t *testing.T) {
	assert.True(t, object.Equal(object.Nil{}, object.Nil{}))
	assert.False(t, object.Equal(object.Nil{}, object.Bool(false)))
	assert.False(t, object.Equal(object.Bool(false), object.Nil{}))
}

func TestEqualAcrossVariants(t *testing.T) {
	assert.False(t, object.Equal(object.Number(1), object.String("1")))
	assert.True(t, object.Equal(object.Number(1), object.Number(1)))
	assert.True(t, object.Equal(object.String("a"), object.String("a")))
	assert.False(t, object.Equal(object.String("a"), object.String("b")))
}

func TestNumberStringFormatsTerse(t *testing.T) {
	assert.Equal(t, "3", object.Number(3).String())
	assert.Equal(t, "3.25", object.Number(3.25).String())
}

func TestEnvironmentDefineGetAssign(t *testing.T) {
	global := object.NewEnvironment(nil)
	global.Define("a", object.Number(1))

	v, ok := global.Get("a")
	assert.True(t, ok)
	assert.Equal(t, object.Number(1), v)

	assert.True(t, global.Assign("a", object.Number(2)))
	v, _ = global.Get("a")
	assert.Equal(t, object.Number(2), v)

	assert.False(t, global.Assign("b", object.Number(3)))
}

func TestEnvironmentNestedScopeShadowsAndFallsThrough(t *testing.T) {
	global := object.NewEnvironment(nil)
	global.Define("a", object.String("global"))

	local := object.NewEnvironment(global)
	local.Define("a", object.String("local"))

	v, _ := local.Get("a")
	assert.Equal(t, object.String("local"), v)

	// A name not bound locally falls through to the enclosing scope.
	global.Define("b", object.String("outer"))
	v, ok := local.Get("b")
	assert.True(t, ok)
	assert.Equal(t, object.String("outer"), v)

	// Assigning in the local scope does not leak out to the enclosing one.
	local.Assign("a", object.String("changed"))
	v, _ = global.Get("a")
	assert.Equal(t, object.String("global"), v)
}

func TestEnvironmentGetUndefinedFails(t *testing.T) {
	env := object.NewEnvironment(nil)
	_, ok := env.Get("missing")
	assert.False(t, ok)
}
