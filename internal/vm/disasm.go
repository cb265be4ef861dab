package vm

import (
	"fmt"
	"io"

	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/compiler"
)

// Compile compiles source into a new chunk owned by this VM's heap without
// running it. The caller frees the chunk.
func (vm *VM) Compile(source string) (*bytecode.Chunk, error) {
	chunk := bytecode.NewChunk()
	if err := compiler.Compile(source, chunk, vm.heap, compiler.WithLogger(vm.log)); err != nil {
		chunk.Free()
		return nil, err
	}
	return chunk, nil
}

// Disassemble compiles source and writes its assembly-style dump to w.
func (vm *VM) Disassemble(w io.Writer, name, source string) error {
	if w == nil {
		return fmt.Errorf("nil writer")
	}
	chunk, err := vm.Compile(source)
	if err != nil {
		return err
	}
	defer chunk.Free()
	return bytecode.NewDisassembler(w).DisassembleChunk(name, chunk)
}

// Listing compiles source and returns its serialisable listing.
func (vm *VM) Listing(name, source string) (*bytecode.Listing, error) {
	chunk, err := vm.Compile(source)
	if err != nil {
		return nil, err
	}
	defer chunk.Free()
	return bytecode.NewListing(name, chunk)
}
