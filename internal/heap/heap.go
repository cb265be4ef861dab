// Package heap owns every object allocated by a VM.
//
// Objects are only ever released together by Free; there is no collection
// while the VM runs.
package heap

import (
	"strings"

	"github.com/xirelogy/go-lox/internal/table"
	"github.com/xirelogy/go-lox/internal/value"
)

// Heap is a registry of owned objects plus the string interning table.
type Heap struct {
	objects []value.Obj
	strings table.Table
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

// CopyString returns the canonical string object for chars, allocating
// (with its own copy of the bytes) only if no equal string is interned yet.
func (h *Heap) CopyString(chars string) *value.String {
	hash := value.HashString(chars)
	if interned := h.strings.FindString(chars, hash); interned != nil {
		return interned
	}
	s := &value.String{Chars: strings.Clone(chars), Hash: hash}
	h.register(s)
	h.strings.Set(s, value.Nil())
	return s
}

// Lookup returns the interned string for chars without allocating.
func (h *Heap) Lookup(chars string) *value.String {
	return h.strings.FindString(chars, value.HashString(chars))
}

// TakeString registers a string built at run time, such as a concatenation
// result. It is not interned: the result may share its contents with an
// interned string but never its handle.
func (h *Heap) TakeString(chars string) *value.String {
	s := value.NewString(chars)
	h.register(s)
	return s
}

// Len reports the number of live objects.
func (h *Heap) Len() int { return len(h.objects) }

// Interned reports the number of interned strings.
func (h *Heap) Interned() int { return h.strings.Len() }

// Each calls fn for every owned object in allocation order until fn
// returns false.
func (h *Heap) Each(fn func(value.Obj) bool) {
	for _, o := range h.objects {
		if !fn(o) {
			return
		}
	}
}

// Free releases every object in one pass and returns how many were owned.
func (h *Heap) Free() int {
	n := len(h.objects)
	clear(h.objects)
	h.objects = nil
	h.strings.Free()
	return n
}

func (h *Heap) register(o value.Obj) {
	h.objects = append(h.objects, o)
}
