package bytecode

import (
	"fmt"

	"github.com/xirelogy/go-lox/internal/value"
)

// MaxConstants is the size of the constant pool a one-byte operand can address.
const MaxConstants = 256

// Chunk is a compiled bytecode sequence with its constant pool.
// Lines[i] is the source line of Code[i]; the two always have equal length.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []value.Value
}

// Instruction is one decoded instruction.
type Instruction struct {
	Offset     int
	Op         OpCode
	Operand    byte
	HasOperand bool
	Line       int
	Width      int
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Write appends one byte tagged with its source line.
func (c *Chunk) Write(b byte, line int) {
	if len(c.Code) == cap(c.Code) {
		capacity := growCapacity(cap(c.Code))
		code := make([]byte, len(c.Code), capacity)
		copy(code, c.Code)
		lines := make([]int, len(c.Lines), capacity)
		copy(lines, c.Lines)
		c.Code, c.Lines = code, lines
	}
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends v to the pool and returns its index. The pool is not
// bounded here; callers that emit a one-byte operand check MaxConstants.
func (c *Chunk) AddConstant(v value.Value) int {
	if len(c.Constants) == cap(c.Constants) {
		consts := make([]value.Value, len(c.Constants), growCapacity(cap(c.Constants)))
		copy(consts, c.Constants)
		c.Constants = consts
	}
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Len reports the number of code bytes.
func (c *Chunk) Len() int { return len(c.Code) }

// Free releases the code, line and constant arrays and leaves an empty chunk.
func (c *Chunk) Free() {
	c.Code = nil
	c.Lines = nil
	c.Constants = nil
}

// Instructions decodes the chunk. It fails on unknown opcodes, truncated
// operands and constant indices outside the pool.
func (c *Chunk) Instructions() ([]Instruction, error) {
	var out []Instruction
	for ip := 0; ip < len(c.Code); {
		ins, err := c.decode(ip)
		if err != nil {
			return out, err
		}
		out = append(out, ins)
		ip += ins.Width
	}
	return out, nil
}

func (c *Chunk) decode(offset int) (Instruction, error) {
	op := OpCode(c.Code[offset])
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("unknown opcode 0x%02X at %04d", byte(op), offset)
	}
	ins := Instruction{
		Offset: offset,
		Op:     op,
		Line:   c.Lines[offset],
		Width:  1 + op.OperandWidth(),
	}
	if op.OperandWidth() == 0 {
		return ins, nil
	}
	if offset+1 >= len(c.Code) {
		return Instruction{}, fmt.Errorf("%s at %04d: unexpected end of bytecode", op, offset)
	}
	ins.Operand = c.Code[offset+1]
	ins.HasOperand = true
	if int(ins.Operand) >= len(c.Constants) {
		return Instruction{}, fmt.Errorf("%s at %04d: constant index out of range: %d", op, offset, ins.Operand)
	}
	return ins, nil
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
