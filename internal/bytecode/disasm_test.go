package bytecode

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/xirelogy/go-lox/internal/value"
)

func sampleChunk() *Chunk {
	c := NewChunk()
	idx := c.AddConstant(value.Number(1.2))
	c.WriteOp(OP_CONSTANT, 1)
	c.Write(byte(idx), 1)
	name := c.AddConstant(value.Object(value.NewString("x")))
	c.WriteOp(OP_DEFINE_GLOBAL, 1)
	c.Write(byte(name), 1)
	c.WriteOp(OP_NIL, 2)
	c.WriteOp(OP_PRINT, 2)
	c.WriteOp(OP_RETURN, 3)
	return c
}

func TestDisassembleChunk(t *testing.T) {
	var buf bytes.Buffer
	dis := NewDisassembler(&buf)
	if err := dis.DisassembleChunk("test", sampleChunk()); err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	want := strings.Join([]string{
		"== test ==",
		"0000    1 OP_CONSTANT         0 '1.2'",
		"0002    | OP_DEFINE_GLOBAL    1 'x'",
		"0004    2 OP_NIL          ",
		"0005    | OP_PRINT        ",
		"0006    3 OP_RETURN       ",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected dump:\n%q\nwant:\n%q", got, want)
	}
}

func TestDisassembleSeparatesSections(t *testing.T) {
	var buf bytes.Buffer
	dis := NewDisassembler(&buf)
	_ = dis.DisassembleChunk("a", NewChunk())
	_ = dis.DisassembleChunk("b", NewChunk())
	if got := buf.String(); got != "== a ==\n\n== b ==\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInstructionsRejectsBadCode(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OP_CONSTANT, 1)
	if _, err := c.Instructions(); err == nil {
		t.Fatalf("expected truncated operand error")
	}

	c = NewChunk()
	c.WriteOp(OP_GET_GLOBAL, 1)
	c.Write(3, 1)
	if _, err := c.Instructions(); err == nil {
		t.Fatalf("expected constant index error")
	}

	c = NewChunk()
	c.Write(0xEE, 1)
	if _, err := c.Instructions(); err == nil {
		t.Fatalf("expected unknown opcode error")
	}
}

func TestInstructions(t *testing.T) {
	ins, err := sampleChunk().Instructions()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ops := make([]OpCode, len(ins))
	for i, in := range ins {
		ops[i] = in.Op
	}
	want := []OpCode{OP_CONSTANT, OP_DEFINE_GLOBAL, OP_NIL, OP_PRINT, OP_RETURN}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	if ins[1].Offset != 2 || ins[1].Operand != 1 || !ins[1].HasOperand || ins[1].Width != 2 {
		t.Fatalf("unexpected decode of DEFINE_GLOBAL: %+v", ins[1])
	}
	if ins[4].Line != 3 || ins[4].HasOperand {
		t.Fatalf("unexpected decode of RETURN: %+v", ins[4])
	}
}

func TestListingRoundTrip(t *testing.T) {
	l, err := NewListing("script", sampleChunk())
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if l.Constants[1].Kind != "string" || l.Constants[0].Text != "1.2" {
		t.Fatalf("unexpected constants %+v", l.Constants)
	}
	first, err := EncodeListing(l)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := EncodeListing(l)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("encoding is not deterministic")
	}
	back, err := DecodeListing(first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(back, l) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back, l)
	}
	if _, err := DecodeListing([]byte{0xff}); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}
