package vm

import (
	"github.com/xirelogy/go-lox/internal/table"
	"github.com/xirelogy/go-lox/internal/value"
)

// Duplicate returns a new VM with copied globals and configuration.
// The copy has its own heap: global names and string values are
// re-allocated there, keeping interned strings interned.
func (vm *VM) Duplicate() *VM {
	if vm == nil {
		return nil
	}
	dup := New(
		WithStackSize(vm.stackSize),
		WithOutput(vm.out),
		WithErrorOutput(vm.errOut),
		WithLogger(vm.log),
		WithTraceHook(vm.traceHook),
	)

	moved := table.New()
	vm.globals.Each(func(k *value.String, v value.Value) bool {
		moved.Set(dup.heap.CopyString(k.Chars), cloneValue(dup, vm, v))
		return true
	})
	dup.globals.AddAll(moved)
	return dup
}

func cloneValue(dup, src *VM, v value.Value) value.Value {
	if !v.IsString() {
		return v
	}
	s := v.AsString()
	if src.heap.Lookup(s.Chars) == s {
		return value.Object(dup.heap.CopyString(s.Chars))
	}
	return value.Object(dup.heap.TakeString(s.Chars))
}
