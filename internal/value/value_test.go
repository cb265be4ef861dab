package value

import (
	"math"
	"strings"
	"testing"
)

func TestEqualReflexiveAndSymmetric(t *testing.T) {
	hello := NewString("hello")
	values := []Value{
		Nil(),
		Bool(true),
		Bool(false),
		Number(0),
		Number(-2.5),
		Number(math.Inf(1)),
		Object(hello),
		Object(NewString("")),
	}
	for i, a := range values {
		if !Equal(a, a) {
			t.Fatalf("value %d (%v) not equal to itself", i, a)
		}
		for j, b := range values {
			if Equal(a, b) != Equal(b, a) {
				t.Fatalf("equality not symmetric for %d (%v) and %d (%v)", i, a, j, b)
			}
		}
	}
}

func TestEqualNaNIsNotReflexive(t *testing.T) {
	nan := Number(math.NaN())
	if Equal(nan, nan) {
		t.Fatalf("NaN must not equal itself")
	}
}

func TestEqualCrossTypeNeverEqual(t *testing.T) {
	pairs := [][2]Value{
		{Nil(), Bool(false)},
		{Number(0), Bool(false)},
		{Number(1), Bool(true)},
		{Object(NewString("nil")), Nil()},
		{Object(NewString("1")), Number(1)},
	}
	for _, p := range pairs {
		if Equal(p[0], p[1]) {
			t.Fatalf("expected %v and %v to differ", p[0], p[1])
		}
	}
}

func TestEqualStringsByIdentityAndContent(t *testing.T) {
	a := NewString("abc")
	if !Equal(Object(a), Object(a)) {
		t.Fatalf("same handle must be equal")
	}
	b := NewString(strings.Clone("abc"))
	if a == b {
		t.Fatalf("test needs two distinct allocations")
	}
	if !Equal(Object(a), Object(b)) {
		t.Fatalf("distinct handles with equal bytes must be equal")
	}
	if Equal(Object(a), Object(NewString("abd"))) {
		t.Fatalf("different contents must not be equal")
	}
}

func TestIsFalsey(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil(), true},
		{Bool(false), true},
		{Bool(true), false},
		{Number(0), false},
		{Number(math.NaN()), false},
		{Object(NewString("")), false},
	}
	for _, c := range cases {
		if got := IsFalsey(c.v); got != c.want {
			t.Fatalf("IsFalsey(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFormat(t *testing.T) {
	// summed at run time so the result carries the binary rounding error
	a, b := 0.1, 0.2
	cases := []struct {
		v    Value
		want string
	}{
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Nil(), "nil"},
		{Number(3), "3"},
		{Number(-0.5), "-0.5"},
		{Number(a + b), "0.30000000000000004"},
		{Number(100000), "100000"},
		{Number(1e21), "1e+21"},
		{Number(math.Inf(1)), "inf"},
		{Number(math.Inf(-1)), "-inf"},
		{Number(math.NaN()), "nan"},
		{Object(NewString(`say "hi"`)), `say "hi"`},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.want {
			t.Fatalf("Format(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestAccessorMismatchPanics(t *testing.T) {
	cases := []struct {
		name string
		fn   func()
		msg  string
	}{
		{"AsNumber on nil", func() { Nil().AsNumber() }, "value: AsNumber called on nil"},
		{"AsBool on number", func() { Number(1).AsBool() }, "value: AsBool called on number"},
		{"AsString on bool", func() { Bool(true).AsString() }, "value: AsObj called on bool"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("expected panic")
				}
				if r != c.msg {
					t.Fatalf("unexpected panic %v, want %q", r, c.msg)
				}
			}()
			c.fn()
		})
	}
}

func TestAccessors(t *testing.T) {
	s := NewString("x")
	v := Object(s)
	if !v.IsObj() || !v.IsString() || v.AsString() != s {
		t.Fatalf("expected string accessor to round-trip handle")
	}
	if Number(2).AsNumber() != 2 || !Bool(true).AsBool() {
		t.Fatalf("scalar accessors broken")
	}
	if Number(1).IsString() || Nil().IsString() {
		t.Fatalf("non-objects are not strings")
	}
}

func TestHashStringFNV1a(t *testing.T) {
	// reference values for 32-bit FNV-1a
	cases := map[string]uint32{
		"":       2166136261,
		"a":      0xe40c292c,
		"foobar": 0xbf9cf968,
	}
	for in, want := range cases {
		if got := HashString(in); got != want {
			t.Fatalf("HashString(%q) = %#x, want %#x", in, got, want)
		}
	}
	if NewString("foobar").Hash != HashString("foobar") {
		t.Fatalf("NewString must precompute the hash")
	}
}
