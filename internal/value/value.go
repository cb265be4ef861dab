package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tags the active field of a Value.
type Kind int

// The zero Value is nil.
const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObj:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a closed tagged union over bool, nil, number and object.
// The fields are only reachable through the checked accessors below.
type Value struct {
	kind Kind
	b    bool
	num  float64
	obj  Obj
}

func Nil() Value { return Value{kind: KindNil} }
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}
func Object(o Obj) Value {
	if o == nil {
		panic("value: Object called with nil object")
	}
	return Value{kind: KindObj, obj: o}
}

// Kind reports the active tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

// IsString reports whether v holds a string object.
func (v Value) IsString() bool {
	if v.kind != KindObj {
		return false
	}
	_, ok := v.obj.(*String)
	return ok
}

func (v Value) AsBool() bool {
	v.expect(KindBool)
	return v.b
}

func (v Value) AsNumber() float64 {
	v.expect(KindNumber)
	return v.num
}

func (v Value) AsObj() Obj {
	v.expect(KindObj)
	return v.obj
}

// AsString returns the string object held by v.
func (v Value) AsString() *String {
	v.expect(KindObj)
	s, ok := v.obj.(*String)
	if !ok {
		panic(fmt.Sprintf("value: AsString called on %s object", v.obj.Type()))
	}
	return s
}

func (v Value) expect(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: As%s called on %s", accessorName(k), v.kind))
	}
}

func accessorName(k Kind) string {
	switch k {
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindObj:
		return "Obj"
	default:
		return k.String()
	}
}

// IsFalsey reports whether v acts as false: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func IsFalsey(v Value) bool {
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return !v.b
	default:
		return false
	}
}

// Equal compares two values. Numbers follow IEEE-754 ==, so NaN is never
// equal to itself. Strings are equal when they share a handle or their bytes
// match; values of different kinds are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindObj:
		return objectsEqual(a.obj, b.obj)
	default:
		return false
	}
}

func objectsEqual(a, b Obj) bool {
	if a == b {
		return true
	}
	as, ok := a.(*String)
	if !ok {
		return false
	}
	bs, ok := b.(*String)
	if !ok {
		return false
	}
	return as.Hash == bs.Hash && as.Chars == bs.Chars
}

// Format renders v the way the print statement does.
func Format(v Value) string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNil:
		return "nil"
	case KindNumber:
		return formatNumber(v.num)
	case KindObj:
		return v.obj.String()
	default:
		return "<invalid>"
	}
}

// String implements fmt.Stringer with the print rendering.
func (v Value) String() string {
	return Format(v)
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
