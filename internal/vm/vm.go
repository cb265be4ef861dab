// Package vm executes compiled chunks on a fixed-size operand stack.
package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/compiler"
	"github.com/xirelogy/go-lox/internal/heap"
	"github.com/xirelogy/go-lox/internal/table"
	"github.com/xirelogy/go-lox/internal/value"
)

// DefaultStackSize is the operand stack capacity used when none is configured.
const DefaultStackSize = 256

// Result is the outcome of one compile-and-run cycle.
type Result int

const (
	ResultOK Result = iota
	ResultCompileError
	ResultRuntimeError
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// VM holds the state shared by every cycle run on it: globals, the heap and
// the interning table. Nothing is shared between VMs.
type VM struct {
	stack []value.Value
	sp    int

	chunk  *bytecode.Chunk
	ip     int
	offset int // start of the instruction being executed

	globals table.Table
	heap    *heap.Heap

	out       io.Writer
	errOut    io.Writer
	log       zerolog.Logger
	traceHook TraceHook
	stackSize int
}

// Option configures a VM.
type Option func(*VM)

// WithStackSize sets the operand stack capacity. Values below 1 are ignored.
func WithStackSize(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.stackSize = n
		}
	}
}

// WithOutput sets where print writes.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

// WithErrorOutput sets where compile and runtime errors are reported.
func WithErrorOutput(w io.Writer) Option {
	return func(vm *VM) { vm.errOut = w }
}

// WithLogger sets the diagnostic logger. Step tracing is logged at trace
// level and the compiled chunk at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(vm *VM) { vm.log = log }
}

// WithTraceHook registers a callback run before every instruction.
func WithTraceHook(h TraceHook) Option {
	return func(vm *VM) { vm.traceHook = h }
}

// New constructs an empty VM instance.
func New(opts ...Option) *VM {
	vm := &VM{
		heap:      heap.New(),
		out:       io.Discard,
		errOut:    io.Discard,
		log:       zerolog.Nop(),
		stackSize: DefaultStackSize,
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.stack = make([]value.Value, vm.stackSize)
	return vm
}

// SetTraceHook registers a callback for instruction-level tracing.
func (vm *VM) SetTraceHook(h TraceHook) {
	vm.traceHook = h
}

// Interpret compiles source into a fresh chunk and runs it. Compile errors
// are written to the error output and returned as a compiler.ErrorList;
// runtime errors are written there too and returned as *RuntimeError.
// Globals defined before a runtime error stay defined.
func (vm *VM) Interpret(source string) (Result, error) {
	chunk := bytecode.NewChunk()
	defer chunk.Free()

	err := compiler.Compile(source, chunk, vm.heap,
		compiler.WithLogger(vm.log), compiler.WithName("script"))
	if err != nil {
		var list compiler.ErrorList
		if errors.As(err, &list) {
			for _, e := range list {
				fmt.Fprintln(vm.errOut, e)
			}
		}
		vm.log.Debug().Int("errors", len(list)).Msg("compile failed")
		return ResultCompileError, err
	}
	return vm.Execute(chunk)
}

// Execute runs a compiled chunk. String constants in chunk must come from
// this VM's heap, since globals are keyed by interned handle. Malformed
// bytecode is rejected before anything runs.
func (vm *VM) Execute(chunk *bytecode.Chunk) (Result, error) {
	if err := validate(chunk); err != nil {
		return ResultRuntimeError, err
	}
	vm.chunk = chunk
	vm.ip = 0
	vm.sp = 0
	defer func() { vm.chunk = nil }()

	if err := vm.run(); err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			vm.report(rerr)
		}
		vm.resetStack()
		return ResultRuntimeError, err
	}
	return ResultOK, nil
}

// validate decodes chunk up front so run can index operands and constants
// without bounds checks of its own.
func validate(chunk *bytecode.Chunk) error {
	if chunk == nil {
		return errors.New("vm: nil chunk")
	}
	ins, err := chunk.Instructions()
	if err != nil {
		return fmt.Errorf("vm: invalid chunk: %w", err)
	}
	for _, in := range ins {
		switch in.Op {
		case bytecode.OP_GET_GLOBAL, bytecode.OP_DEFINE_GLOBAL:
			if !chunk.Constants[in.Operand].IsString() {
				return fmt.Errorf("vm: invalid chunk: %s at %04d: name constant is not a string", in.Op, in.Offset)
			}
		}
	}
	return nil
}

func (vm *VM) run() error {
	code := vm.chunk.Code
	for vm.ip < len(code) {
		vm.offset = vm.ip
		op := bytecode.OpCode(code[vm.ip])
		vm.ip++
		vm.trace(op)

		var err error
		switch op {
		case bytecode.OP_CONSTANT:
			err = vm.push(vm.readConstant())
		case bytecode.OP_NIL:
			err = vm.push(value.Nil())
		case bytecode.OP_TRUE:
			err = vm.push(value.Bool(true))
		case bytecode.OP_FALSE:
			err = vm.push(value.Bool(false))
		case bytecode.OP_POP:
			vm.pop()
		case bytecode.OP_GET_GLOBAL:
			name := vm.readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				err = vm.runtimeError("Undefined variable '%s'.", name.Chars)
				break
			}
			err = vm.push(v)
		case bytecode.OP_DEFINE_GLOBAL:
			name := vm.readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case bytecode.OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			err = vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OP_GREATER, bytecode.OP_LESS,
			bytecode.OP_SUBTRACT, bytecode.OP_MULTIPLY, bytecode.OP_DIVIDE:
			err = vm.numericBinary(op)
		case bytecode.OP_ADD:
			err = vm.add()
		case bytecode.OP_NOT:
			err = vm.push(value.Bool(value.IsFalsey(vm.pop())))
		case bytecode.OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				err = vm.runtimeError("Operand must be a number.")
				break
			}
			err = vm.push(value.Number(-vm.pop().AsNumber()))
		case bytecode.OP_PRINT:
			fmt.Fprintln(vm.out, value.Format(vm.pop()))
		case bytecode.OP_RETURN:
			return nil
		default:
			err = vm.runtimeError("Unknown opcode %d.", byte(op))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		s := vm.heap.TakeString(a.AsString().Chars + b.AsString().Chars)
		return vm.push(value.Object(s))
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		return vm.push(value.Number(a.AsNumber() + b.AsNumber()))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) numericBinary(op bytecode.OpCode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	var res value.Value
	switch op {
	case bytecode.OP_GREATER:
		res = value.Bool(a > b)
	case bytecode.OP_LESS:
		res = value.Bool(a < b)
	case bytecode.OP_SUBTRACT:
		res = value.Number(a - b)
	case bytecode.OP_MULTIPLY:
		res = value.Number(a * b)
	case bytecode.OP_DIVIDE:
		res = value.Number(a / b)
	}
	return vm.push(res)
}

func (vm *VM) push(v value.Value) error {
	if vm.sp == len(vm.stack) {
		return vm.runtimeError("Stack overflow.")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() value.Value {
	vm.sp--
	v := vm.stack[vm.sp]
	vm.stack[vm.sp] = value.Nil()
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) resetStack() {
	clear(vm.stack[:vm.sp])
	vm.sp = 0
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) readString() *value.String {
	return vm.readConstant().AsString()
}

// Free releases the globals, the interning table and every heap object.
// The VM can be used again afterwards, starting from an empty state.
func (vm *VM) Free() {
	vm.resetStack()
	vm.globals.Free()
	n := vm.heap.Free()
	vm.log.Debug().Int("objects", n).Msg("heap freed")
}
