// Package vm implements the stack-based bytecode interpreter: a
// fetch-decode-execute loop over a chunk.Chunk.
package vm

import (
	"fmt"
	"os"

	"lox/internal/chunk"
	"lox/internal/object"
	"lox/internal/report"
)

const initialStackCapacity = 256

// VM executes one chunk.Chunk to completion or until a runtime error.
type VM struct {
	chunk    *chunk.Chunk
	ip       int
	stack    []object.Value
	globals  map[string]object.Value
	reporter *report.Reporter
}

// New returns a VM ready to run c, reporting runtime errors to r.
func New(c *chunk.Chunk, r *report.Reporter) *VM {
	return &VM{
		chunk:    c,
		stack:    make([]object.Value, 0, initialStackCapacity),
		globals:  make(map[string]object.Value),
		reporter: r,
	}
}

// Run executes the chunk. It returns once an OpReturn is reached or a
// runtime error aborts execution (in which case the reporter's
// HadRuntimeError flag is set).
func (vm *VM) Run() {
	for {
		op := chunk.OpCode(vm.readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(vm.readConstant())

		case chunk.OpNil:
			vm.push(object.Nil{})
		case chunk.OpTrue:
			vm.push(object.Bool(true))
		case chunk.OpFalse:
			vm.push(object.Bool(false))

		case chunk.OpPop:
			vm.pop()

		case chunk.OpDefineGlobal:
			name := string(vm.readConstant().(object.String))
			vm.globals[name] = vm.pop()

		case chunk.OpGetGlobal:
			name := string(vm.readConstant().(object.String))
			v, ok := vm.globals[name]
			if !ok {
				vm.runtimeError(fmt.Sprintf("Undefined variable '%s'.", name))
				return
			}
			vm.push(v)

		case chunk.OpSetGlobal:
			name := string(vm.readConstant().(object.String))
			if _, ok := vm.globals[name]; !ok {
				vm.runtimeError(fmt.Sprintf("Undefined variable '%s'.", name))
				return
			}
			vm.globals[name] = vm.peek(0)

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(object.Bool(object.Equal(a, b)))

		case chunk.OpGreater:
			if !vm.binaryNumberOp(func(a, b float64) object.Value { return object.Bool(a > b) }) {
				return
			}
		case chunk.OpLess:
			if !vm.binaryNumberOp(func(a, b float64) object.Value { return object.Bool(a < b) }) {
				return
			}

		case chunk.OpAdd:
			if !vm.add() {
				return
			}
		case chunk.OpSub:
			if !vm.binaryNumberOp(func(a, b float64) object.Value { return object.Number(a - b) }) {
				return
			}
		case chunk.OpMul:
			if !vm.binaryNumberOp(func(a, b float64) object.Value { return object.Number(a * b) }) {
				return
			}
		case chunk.OpDiv:
			if !vm.binaryNumberOp(func(a, b float64) object.Value { return object.Number(a / b) }) {
				return
			}

		case chunk.OpNot:
			vm.push(object.Bool(!object.Truthy(vm.pop())))

		case chunk.OpNegate:
			n, ok := vm.peek(0).(object.Number)
			if !ok {
				vm.runtimeError("Operand must be a number.")
				return
			}
			vm.pop()
			vm.push(-n)

		case chunk.OpPrint:
			fmt.Fprintln(os.Stdout, vm.pop().String())

		case chunk.OpReturn:
			return

		default:
			vm.runtimeError(fmt.Sprintf("Unknown opcode %d.", op))
			return
		}
	}
}

func (vm *VM) add() bool {
	b := vm.peek(0)
	a := vm.peek(1)

	if an, ok := a.(object.Number); ok {
		if bn, ok := b.(object.Number); ok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return true
		}
	}
	if as, ok := a.(object.String); ok {
		if bs, ok := b.(object.String); ok {
			vm.pop()
			vm.pop()
			vm.push(as + bs)
			return true
		}
	}

	vm.runtimeError("Operands must be two numbers or two strings.")
	return false
}

func (vm *VM) binaryNumberOp(apply func(a, b float64) object.Value) bool {
	b, bok := vm.peek(0).(object.Number)
	a, aok := vm.peek(1).(object.Number)
	if !aok || !bok {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	vm.pop()
	vm.pop()
	vm.push(apply(float64(a), float64(b)))
	return true
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() object.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) push(v object.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() object.Value {
	top := len(vm.stack) - 1
	v := vm.stack[top]
	vm.stack = vm.stack[:top]
	return v
}

func (vm *VM) peek(distance int) object.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) runtimeError(message string) {
	line := vm.chunk.Lines[vm.ip-1]
	vm.reporter.RuntimeErr(report.NewRuntimeError(line, message))
}
