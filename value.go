package lox

import (
	"fmt"

	"github.com/xirelogy/go-lox/internal/value"
)

// ValueKind mirrors the runtime kinds for convenient inspection.
type ValueKind int

const (
	ValueNil ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNil:
		return "nil"
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a read-only view of a global.
type Value struct {
	v value.Value
}

// Kind reports the dynamic kind.
func (v Value) Kind() ValueKind {
	switch {
	case v.v.IsBool():
		return ValueBool
	case v.v.IsNumber():
		return ValueNumber
	case v.v.IsString():
		return ValueString
	default:
		return ValueNil
	}
}

func (v Value) IsNil() bool { return v.v.IsNil() }

func (v Value) Bool() (bool, bool) {
	if !v.v.IsBool() {
		return false, false
	}
	return v.v.AsBool(), true
}

func (v Value) Number() (float64, bool) {
	if !v.v.IsNumber() {
		return 0, false
	}
	return v.v.AsNumber(), true
}

func (v Value) String() (string, bool) {
	if !v.v.IsString() {
		return "", false
	}
	return v.v.AsString().Chars, true
}

// Raw converts to nil, bool, float64 or string.
func (v Value) Raw() any {
	switch v.Kind() {
	case ValueBool:
		return v.v.AsBool()
	case ValueNumber:
		return v.v.AsNumber()
	case ValueString:
		return v.v.AsString().Chars
	default:
		return nil
	}
}

// Display renders the value the way print does.
func (v Value) Display() string {
	return value.Format(v.v)
}

// SetGlobal binds a Go value to a global name. Supported types are nil,
// bool, string and the integer and float kinds.
func (vmc *VM) SetGlobal(name string, val any) error {
	if err := vmc.acquire(); err != nil {
		return err
	}
	defer vmc.release()

	var v value.Value
	switch x := val.(type) {
	case nil:
		v = value.Nil()
	case bool:
		v = value.Bool(x)
	case string:
		v = vmc.core.NewString(x)
	case float64:
		v = value.Number(x)
	case float32:
		v = value.Number(float64(x))
	case int:
		v = value.Number(float64(x))
	case int8:
		v = value.Number(float64(x))
	case int16:
		v = value.Number(float64(x))
	case int32:
		v = value.Number(float64(x))
	case int64:
		v = value.Number(float64(x))
	case uint:
		v = value.Number(float64(x))
	case uint8:
		v = value.Number(float64(x))
	case uint16:
		v = value.Number(float64(x))
	case uint32:
		v = value.Number(float64(x))
	case uint64:
		v = value.Number(float64(x))
	default:
		return fmt.Errorf("global %q: unsupported type %T", name, val)
	}
	vmc.core.DefineGlobal(name, v)
	return nil
}

// Global reads a global by name.
func (vmc *VM) Global(name string) (Value, bool, error) {
	if err := vmc.acquire(); err != nil {
		return Value{}, false, err
	}
	defer vmc.release()
	v, ok := vmc.core.Global(name)
	return Value{v: v}, ok, nil
}

// Globals lists the names of every defined global.
func (vmc *VM) Globals() ([]string, error) {
	if err := vmc.acquire(); err != nil {
		return nil, err
	}
	defer vmc.release()
	return vmc.core.GlobalNames(), nil
}
