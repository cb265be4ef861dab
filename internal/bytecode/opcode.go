package bytecode

import "fmt"

// OpCode enumerates bytecode operations.
type OpCode byte

const (
	OP_CONSTANT OpCode = iota
	OP_NIL
	OP_TRUE
	OP_FALSE
	OP_POP
	OP_GET_GLOBAL
	OP_DEFINE_GLOBAL
	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_ADD
	OP_SUBTRACT
	OP_MULTIPLY
	OP_DIVIDE
	OP_NOT
	OP_NEGATE
	OP_PRINT
	OP_RETURN

	opCount
)

var opNames = [...]string{
	OP_CONSTANT:      "OP_CONSTANT",
	OP_NIL:           "OP_NIL",
	OP_TRUE:          "OP_TRUE",
	OP_FALSE:         "OP_FALSE",
	OP_POP:           "OP_POP",
	OP_GET_GLOBAL:    "OP_GET_GLOBAL",
	OP_DEFINE_GLOBAL: "OP_DEFINE_GLOBAL",
	OP_EQUAL:         "OP_EQUAL",
	OP_GREATER:       "OP_GREATER",
	OP_LESS:          "OP_LESS",
	OP_ADD:           "OP_ADD",
	OP_SUBTRACT:      "OP_SUBTRACT",
	OP_MULTIPLY:      "OP_MULTIPLY",
	OP_DIVIDE:        "OP_DIVIDE",
	OP_NOT:           "OP_NOT",
	OP_NEGATE:        "OP_NEGATE",
	OP_PRINT:         "OP_PRINT",
	OP_RETURN:        "OP_RETURN",
}

func (op OpCode) String() string {
	if op.Valid() {
		return opNames[op]
	}
	return fmt.Sprintf("OP_0x%02X", byte(op))
}

// Valid reports whether op is a known opcode.
func (op OpCode) Valid() bool { return op < opCount }

// OperandWidth is the number of operand bytes following op.
// CONSTANT, GET_GLOBAL and DEFINE_GLOBAL carry a one-byte constant index.
func (op OpCode) OperandWidth() int {
	switch op {
	case OP_CONSTANT, OP_GET_GLOBAL, OP_DEFINE_GLOBAL:
		return 1
	default:
		return 0
	}
}

// LookupOpCode maps a mnemonic back to its opcode.
func LookupOpCode(name string) (OpCode, bool) {
	for i, n := range opNames {
		if n == name {
			return OpCode(i), true
		}
	}
	return 0, false
}
