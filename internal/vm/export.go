package vm

import (
	"sort"

	"github.com/xirelogy/go-lox/internal/value"
)

// DefineGlobal binds a value into the global environment.
func (vm *VM) DefineGlobal(name string, v value.Value) {
	vm.globals.Set(vm.heap.CopyString(name), v)
}

// Global looks up a global by name.
func (vm *VM) Global(name string) (value.Value, bool) {
	key := vm.heap.Lookup(name)
	if key == nil {
		return value.Nil(), false
	}
	return vm.globals.Get(key)
}

// GlobalNames lists every defined global, sorted.
func (vm *VM) GlobalNames() []string {
	names := make([]string, 0, vm.globals.Len())
	vm.globals.Each(func(k *value.String, _ value.Value) bool {
		names = append(names, k.Chars)
		return true
	})
	sort.Strings(names)
	return names
}

// NewString allocates an interned string on this VM's heap.
func (vm *VM) NewString(s string) value.Value {
	return value.Object(vm.heap.CopyString(s))
}

// Objects reports how many heap objects the VM owns.
func (vm *VM) Objects() int {
	return vm.heap.Len()
}
