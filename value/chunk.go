package value

import "fmt"

// Opcode is a single instruction byte. Most opcodes take no operand;
// those that do (see operandWidths) take one or two further bytes, which
// keeps every instruction's length statically known from its opcode
// alone.
type Opcode byte

const (
	OpConstant Opcode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetGlobal
	OpDefineGlobal
	OpSetGlobal
	OpGetLocal
	OpSetLocal
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump
	OpJumpIfFalse
	OpLoop
	OpPopN
	OpReturn
)

var opcodeNames = map[Opcode]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpPopN:         "OP_POPN",
	OpReturn:       "OP_RETURN",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// operandWidths gives the number of operand bytes following each opcode
// that takes one. Opcodes absent from this map take no operand.
// OP_JUMP/OP_JUMP_IF_FALSE/OP_LOOP use a 2-byte big-endian offset (their
// range isn't bounded by the 256-constant rule); every other operand is a
// single byte, per §3's 8-bit constant-pool index requirement.
var operandWidths = map[Opcode]int{
	OpConstant:     1,
	OpGetGlobal:    1,
	OpDefineGlobal: 1,
	OpSetGlobal:    1,
	OpGetLocal:     1,
	OpSetLocal:     1,
	OpPopN:         1,
	OpJump:         2,
	OpJumpIfFalse:  2,
	OpLoop:         2,
}

// MaxConstants is the hard 8-bit bound on a chunk's constant pool (§3).
const MaxConstants = 256

// Chunk is the compiler's output: an instruction stream, a parallel
// per-byte line map for runtime error reporting, and a constant pool
// indexed by single-byte operands.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []Value
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// WriteByte appends one instruction byte and its matching line entry,
// keeping the §3 invariant that len(Lines) == len(Code) at all times.
func (c *Chunk) WriteByte(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

func (c *Chunk) WriteOpcode(op Opcode, line int) {
	c.WriteByte(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. The
// caller (the compiler) is responsible for checking the index against
// MaxConstants before emitting it as an operand.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Disassemble renders the chunk as human-readable text, one instruction
// per line, in the teacher's "offset opcode operand" layout.
func (c *Chunk) Disassemble(name string) string {
	var out string
	out += fmt.Sprintf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		var line string
		line, offset = c.disassembleInstruction(offset)
		out += line
	}
	return out
}

func (c *Chunk) disassembleInstruction(offset int) (string, int) {
	op := Opcode(c.Code[offset])
	lineField := fmt.Sprintf("%4d", c.Lines[offset])
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		lineField = "   |"
	}

	width, hasOperand := operandWidths[op]
	if !hasOperand {
		return fmt.Sprintf("%04d %s %s\n", offset, lineField, op), offset + 1
	}

	operand := 0
	for i := 0; i < width; i++ {
		operand = operand<<8 | int(c.Code[offset+1+i])
	}

	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		value := "?"
		if operand < len(c.Constants) {
			value = c.Constants[operand].String()
		}
		return fmt.Sprintf("%04d %s %-16s %4d '%s'\n", offset, lineField, op, operand, value), offset + 1 + width
	case OpJump, OpJumpIfFalse:
		return fmt.Sprintf("%04d %s %-16s %4d -> %d\n", offset, lineField, op, offset, offset+3+operand), offset + 1 + width
	case OpLoop:
		return fmt.Sprintf("%04d %s %-16s %4d -> %d\n", offset, lineField, op, offset, offset+3-operand), offset + 1 + width
	default:
		return fmt.Sprintf("%04d %s %-16s %4d\n", offset, lineField, op, operand), offset + 1 + width
	}
}
