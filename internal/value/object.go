package value

import "fmt"

// ObjType identifies the variant of a heap object.
type ObjType int

const (
	ObjString ObjType = iota
)

func (t ObjType) String() string {
	switch t {
	case ObjString:
		return "string"
	default:
		return fmt.Sprintf("ObjType(%d)", int(t))
	}
}

// Obj is a heap-allocated object referenced from a Value.
type Obj interface {
	Type() ObjType
	String() string
}

// String is an immutable heap string with its FNV-1a hash precomputed.
type String struct {
	Chars string
	Hash  uint32
}

// NewString wraps chars in a string object. Callers normally go through a
// heap so the object is registered and, where appropriate, interned.
func NewString(chars string) *String {
	return &String{Chars: chars, Hash: HashString(chars)}
}

func (s *String) Type() ObjType { return ObjString }

// String returns the raw characters with no quoting.
func (s *String) String() string { return s.Chars }

// Len reports the length in bytes.
func (s *String) Len() int { return len(s.Chars) }

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// HashString computes the 32-bit FNV-1a hash of s.
func HashString(s string) uint32 {
	hash := fnvOffset32
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= fnvPrime32
	}
	return hash
}
