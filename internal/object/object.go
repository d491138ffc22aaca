// Package object implements the runtime Value model: Nil, Bool,
// Number, String and Callable, plus the Environment that binds names
// to values.
package object

import (
	"fmt"
	"strconv"

	"lox/internal/ast"
)

// Value is any runtime value. The concrete types below are the closed sum.
type Value interface {
	value()
	String() string
}

type Nil struct{}

func (Nil) value()         {}
func (Nil) String() string { return "nil" }

type Bool bool

func (Bool) value() {}
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

type Number float64

func (Number) value() {}
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

type String string

func (String) value()         {}
func (s String) String() string { return string(s) }

// Caller is the minimal capability a Callable needs from whatever is
// driving execution, to invoke a user function's body without object
// importing the interpreter package (which itself imports object —
// this interface is what keeps that dependency one-directional).
type Caller interface {
	// ExecuteBlock runs body directly in env (the caller supplies the
	// fresh call environment), returning (value, true) if a ReturnStmt
	// fired, else (Nil{}, false) if the body fell off the end.
	ExecuteBlock(body []ast.Stmt, env *Environment) (Value, bool, error)
}

// Callable is implemented by every value that can be called: user
// functions and native functions.
type Callable interface {
	Value
	Arity() int
	Call(c Caller, args []Value) (Value, error)
}

// Function is a user-defined function produced by a "fun" declaration.
// Its Closure captures the lexical environment visible at the
// function's declaration site.
type Function struct {
	Decl    *ast.FunctionStmt
	Closure *Environment
}

func (*Function) value() {}
func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) Call(c Caller, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	value, returned, err := c.ExecuteBlock(f.Decl.Body, env)
	if err != nil {
		return nil, err
	}
	if returned {
		return value, nil
	}
	return Nil{}, nil
}

// NativeFunction wraps a Go function as a Callable (e.g. clock()).
type NativeFunction struct {
	name string
	fn   func(args []Value) Value
	arty int
}

// NewNativeFunction returns a Callable backed by fn.
func NewNativeFunction(name string, arity int, fn func(args []Value) Value) *NativeFunction {
	return &NativeFunction{name: name, fn: fn, arty: arity}
}

func (*NativeFunction) value() {}
func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native fn %s>", n.name)
}

func (n *NativeFunction) Arity() int { return n.arty }

func (n *NativeFunction) Call(_ Caller, args []Value) (Value, error) {
	return n.fn(args), nil
}

// Truthy is the language's truthiness rule: Nil and Bool(false) are
// false; every other value is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// Equal is the language's equality rule, resolved strictly: Nil==Nil,
// otherwise variants must match and compare equal; callables compare
// by reference identity.
func Equal(a, b Value) bool {
	_, aNil := a.(Nil)
	_, bNil := b.(Nil)
	if aNil || bNil {
		return aNil && bNil
	}

	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	case *NativeFunction:
		bv, ok := b.(*NativeFunction)
		return ok && av == bv
	default:
		return false
	}
}
