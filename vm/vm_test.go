package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clox/value"
)

func runChunk(t *testing.T, chunk *value.Chunk) (*VM, string, error) {
	t.Helper()
	state := NewState()
	machine := New(state)
	var out bytes.Buffer
	machine.SetOutput(&out)
	err := machine.Run(chunk)
	return machine, out.String(), err
}

func TestRunPrintsArithmeticResult(t *testing.T) {
	chunk := value.NewChunk()
	a := chunk.AddConstant(value.NumberValue(1))
	b := chunk.AddConstant(value.NumberValue(2))
	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(a), 1)
	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(b), 1)
	chunk.WriteOpcode(value.OpAdd, 1)
	chunk.WriteOpcode(value.OpPrint, 1)
	chunk.WriteOpcode(value.OpReturn, 1)

	_, out, err := runChunk(t, chunk)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestRunStringConcatenationInterns(t *testing.T) {
	state := NewState()
	machine := New(state)
	chunk := value.NewChunk()

	hello := state.InternString([]byte("hel"))
	world := state.InternString([]byte("lo"))
	a := chunk.AddConstant(value.ObjectValue(hello))
	b := chunk.AddConstant(value.ObjectValue(world))

	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(a), 1)
	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(b), 1)
	chunk.WriteOpcode(value.OpAdd, 1)
	chunk.WriteOpcode(value.OpPrint, 1)
	chunk.WriteOpcode(value.OpReturn, 1)

	var out bytes.Buffer
	machine.SetOutput(&out)
	require.NoError(t, machine.Run(chunk))
	assert.Equal(t, "hello\n", out.String())
	assert.NotNil(t, state.Strings.FindString([]byte("hello"), value.HashBytes([]byte("hello"))),
		"the concatenated result must be in the intern table")
}

func TestRunUndefinedGlobalIsRuntimeError(t *testing.T) {
	chunk := value.NewChunk()
	state := NewState()
	name := state.InternString([]byte("missing"))
	idx := chunk.AddConstant(value.ObjectValue(name))

	chunk.WriteOpcode(value.OpGetGlobal, 7)
	chunk.WriteByte(byte(idx), 7)
	chunk.WriteOpcode(value.OpReturn, 7)

	machine := New(state)
	err := machine.Run(chunk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'missing'.")

	var rtErr RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, 7, rtErr.Line)
}

func TestRunNegateNonNumberIsRuntimeError(t *testing.T) {
	chunk := value.NewChunk()
	chunk.WriteOpcode(value.OpNil, 1)
	chunk.WriteOpcode(value.OpNegate, 1)
	chunk.WriteOpcode(value.OpReturn, 1)

	_, _, err := runChunk(t, chunk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operand must be a number.")
}

func TestRunJumpIfFalseSkipsThenBranch(t *testing.T) {
	// Equivalent to: if (false) print 1; print 2;
	chunk := value.NewChunk()
	one := chunk.AddConstant(value.NumberValue(1))
	two := chunk.AddConstant(value.NumberValue(2))

	chunk.WriteOpcode(value.OpFalse, 1)
	jumpOperand := len(chunk.Code)
	chunk.WriteOpcode(value.OpJumpIfFalse, 1)
	chunk.WriteByte(0, 1)
	chunk.WriteByte(0, 1)
	chunk.WriteOpcode(value.OpPop, 1)
	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(one), 1)
	chunk.WriteOpcode(value.OpPrint, 1)

	offset := len(chunk.Code) - jumpOperand - 3
	chunk.Code[jumpOperand+1] = byte(offset >> 8)
	chunk.Code[jumpOperand+2] = byte(offset & 0xff)

	chunk.WriteOpcode(value.OpPop, 1)
	chunk.WriteOpcode(value.OpConstant, 1)
	chunk.WriteByte(byte(two), 1)
	chunk.WriteOpcode(value.OpPrint, 1)
	chunk.WriteOpcode(value.OpReturn, 1)

	_, out, err := runChunk(t, chunk)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}
