package bytecode

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xirelogy/go-lox/internal/value"
)

// Disassembler formats bytecode as a readable assembly-style dump.
type Disassembler struct {
	w       io.Writer
	printed bool
}

// NewDisassembler constructs a disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// DisassembleChunk writes a "== name ==" header followed by one row per
// instruction. A line number equal to the previous row's prints as "|".
func (d *Disassembler) DisassembleChunk(name string, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("nil chunk")
	}
	d.startSection()
	fmt.Fprintf(d.w, "== %s ==\n", name)
	for offset := 0; offset < len(chunk.Code); {
		next, err := d.DisassembleInstruction(chunk, offset)
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// DisassembleInstruction writes the row for the instruction at offset and
// returns the offset of the next one.
func (d *Disassembler) DisassembleInstruction(chunk *Chunk, offset int) (int, error) {
	ins, err := chunk.decode(offset)
	if err != nil {
		return offset, err
	}
	lineStr := strconv.Itoa(ins.Line)
	if offset > 0 && chunk.Lines[offset-1] == ins.Line {
		lineStr = "|"
	}
	fmt.Fprintf(d.w, "%04d %4s %-16s", offset, lineStr, ins.Op)
	if ins.HasOperand {
		fmt.Fprintf(d.w, " %4d '%s'", ins.Operand, value.Format(chunk.Constants[ins.Operand]))
	}
	fmt.Fprintln(d.w)
	return offset + ins.Width, nil
}

func (d *Disassembler) startSection() {
	if d.printed {
		fmt.Fprintln(d.w)
	}
	d.printed = true
}
