package vm

import (
	"fmt"
	"io"
	"os"

	"clox/value"
)

// VM executes the instructions in a Chunk against a shared runtime State.
// It is deliberately the simplest loop that can run everything the
// compiler emits: no inline caching, no register allocation, just
// fetch-decode-execute, mirroring the teacher's own single-opcode stub
// that this project completes rather than optimises.
type VM struct {
	state *State
	stack Stack
	out   io.Writer
}

// New creates a VM bound to state. Multiple VM values can share one
// State (and so one set of globals/interned strings/heap objects), but
// each VM gets an independent operand stack.
func New(state *State) *VM {
	return &VM{state: state, out: os.Stdout}
}

// SetOutput redirects PRINT output, for tests that want to capture it.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

func readUint16(code []byte, ip int) int {
	return int(code[ip])<<8 | int(code[ip+1])
}

// Run executes chunk from instruction 0 until OP_RETURN or an error.
func (vm *VM) Run(chunk *value.Chunk) error {
	ip := 0

	runtimeError := func(format string, args ...interface{}) error {
		line := 0
		if ip < len(chunk.Lines) {
			line = chunk.Lines[ip]
		}
		return RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
	}

	for {
		op := value.Opcode(chunk.Code[ip])
		switch op {
		case value.OpConstant:
			idx := chunk.Code[ip+1]
			vm.stack.Push(chunk.Constants[idx])
			ip += 2

		case value.OpNil:
			vm.stack.Push(value.NilValue())
			ip++
		case value.OpTrue:
			vm.stack.Push(value.BoolValue(true))
			ip++
		case value.OpFalse:
			vm.stack.Push(value.BoolValue(false))
			ip++

		case value.OpPop:
			vm.stack.Pop()
			ip++

		case value.OpGetLocal:
			slot := chunk.Code[ip+1]
			vm.stack.Push(vm.stack[slot])
			ip += 2
		case value.OpSetLocal:
			slot := chunk.Code[ip+1]
			vm.stack[slot] = vm.stack.Peek(0)
			ip += 2

		case value.OpGetGlobal:
			name := chunk.Constants[chunk.Code[ip+1]].AsString()
			v, ok := vm.state.Globals.Get(name)
			if !ok {
				return runtimeError("Undefined variable '%s'.", name)
			}
			vm.stack.Push(v)
			ip += 2

		case value.OpDefineGlobal:
			name := chunk.Constants[chunk.Code[ip+1]].AsString()
			vm.state.Globals.Set(name, vm.stack.Pop())
			ip += 2

		case value.OpSetGlobal:
			name := chunk.Constants[chunk.Code[ip+1]].AsString()
			if _, ok := vm.state.Globals.Get(name); !ok {
				return runtimeError("Undefined variable '%s'.", name)
			}
			vm.state.Globals.Set(name, vm.stack.Peek(0))
			ip += 2

		case value.OpEqual:
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			vm.stack.Push(value.BoolValue(value.Equal(a, b)))
			ip++
		case value.OpGreater, value.OpLess:
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			if !a.IsNumber() || !b.IsNumber() {
				return runtimeError("Operands must be numbers.")
			}
			if op == value.OpGreater {
				vm.stack.Push(value.BoolValue(a.AsNumber() > b.AsNumber()))
			} else {
				vm.stack.Push(value.BoolValue(a.AsNumber() < b.AsNumber()))
			}
			ip++

		case value.OpAdd:
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			switch {
			case a.IsNumber() && b.IsNumber():
				vm.stack.Push(value.NumberValue(a.AsNumber() + b.AsNumber()))
			case a.IsString() && b.IsString():
				concatenated := append(append([]byte{}, a.AsString().Chars...), b.AsString().Chars...)
				vm.stack.Push(value.ObjectValue(vm.state.InternString(concatenated)))
			default:
				return runtimeError("Operands must be two numbers or two strings.")
			}
			ip++
		case value.OpSubtract, value.OpMultiply, value.OpDivide:
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			if !a.IsNumber() || !b.IsNumber() {
				return runtimeError("Operands must be numbers.")
			}
			var result float64
			switch op {
			case value.OpSubtract:
				result = a.AsNumber() - b.AsNumber()
			case value.OpMultiply:
				result = a.AsNumber() * b.AsNumber()
			case value.OpDivide:
				result = a.AsNumber() / b.AsNumber()
			}
			vm.stack.Push(value.NumberValue(result))
			ip++

		case value.OpNot:
			vm.stack.Push(value.BoolValue(vm.stack.Pop().IsFalsey()))
			ip++
		case value.OpNegate:
			top := vm.stack.Pop()
			if !top.IsNumber() {
				return runtimeError("Operand must be a number.")
			}
			vm.stack.Push(value.NumberValue(-top.AsNumber()))
			ip++

		case value.OpPrint:
			fmt.Fprintln(vm.out, vm.stack.Pop().String())
			ip++

		case value.OpJump:
			ip += 3 + readUint16(chunk.Code, ip+1)
		case value.OpJumpIfFalse:
			offset := readUint16(chunk.Code, ip+1)
			if vm.stack.Peek(0).IsFalsey() {
				ip += 3 + offset
			} else {
				ip += 3
			}
		case value.OpLoop:
			ip += 3 - readUint16(chunk.Code, ip+1)

		case value.OpPopN:
			n := int(chunk.Code[ip+1])
			vm.stack = vm.stack[:len(vm.stack)-n]
			ip += 2

		case value.OpReturn:
			return nil

		default:
			return runtimeError("unknown opcode %d at ip %d", op, ip)
		}
	}
}
