package bytecode

import (
	"testing"

	"github.com/xirelogy/go-lox/internal/value"
)

func TestChunkWriteKeepsLinesInStep(t *testing.T) {
	c := NewChunk()
	for i := 0; i < 100; i++ {
		c.WriteOp(OP_NIL, i/10+1)
		if len(c.Code) != len(c.Lines) {
			t.Fatalf("code and lines diverged at %d: %d vs %d", i, len(c.Code), len(c.Lines))
		}
	}
	if c.Lines[99] != 10 {
		t.Fatalf("unexpected line for last byte: %d", c.Lines[99])
	}
}

func TestChunkGrowthIsGeometric(t *testing.T) {
	c := NewChunk()
	const n = 1 << 16
	changes := 0
	last := cap(c.Code)
	for i := 0; i < n; i++ {
		c.Write(byte(OP_POP), 1)
		if cap(c.Code) != last {
			changes++
			last = cap(c.Code)
		}
	}
	// 8, 16, ... 65536
	if changes != 14 {
		t.Fatalf("expected 14 capacity changes for %d writes, got %d", n, changes)
	}
}

func TestAddConstantIndices(t *testing.T) {
	c := NewChunk()
	for i := 0; i < MaxConstants+1; i++ {
		if idx := c.AddConstant(value.Number(float64(i))); idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
	}
	if c.Constants[MaxConstants].AsNumber() != MaxConstants {
		t.Fatalf("constant lost")
	}
}

func TestChunkFree(t *testing.T) {
	c := NewChunk()
	c.AddConstant(value.Nil())
	c.WriteOp(OP_RETURN, 1)
	c.Free()
	if c.Len() != 0 || len(c.Lines) != 0 || len(c.Constants) != 0 {
		t.Fatalf("chunk not empty after Free")
	}
	c.WriteOp(OP_RETURN, 2)
	if c.Len() != 1 {
		t.Fatalf("freed chunk must be reusable")
	}
}

func TestOpCodeNames(t *testing.T) {
	for op := OpCode(0); op < opCount; op++ {
		got, ok := LookupOpCode(op.String())
		if !ok || got != op {
			t.Fatalf("%s does not round-trip", op)
		}
	}
	if OpCode(0xEE).String() != "OP_0xEE" {
		t.Fatalf("unexpected name for unknown opcode: %s", OpCode(0xEE))
	}
}
