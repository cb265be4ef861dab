package vm

import (
	"fmt"
	"strings"

	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/value"
)

// TraceInfo describes a single instruction dispatch for debugging/tracing.
type TraceInfo struct {
	Offset int
	Op     bytecode.OpCode
	Line   int
	Stack  []value.Value // bottom first; a copy
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

// RuntimeError carries the message and source line of a failed run.
type RuntimeError struct {
	Message string
	Line    int
	Offset  int
	Op      bytecode.OpCode
}

// Error renders the message followed by the line attribution, exactly as
// it is written to the error output.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in source", e.Message, e.Line)
}

func (vm *VM) runtimeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Line:    vm.chunk.Lines[vm.offset],
		Offset:  vm.offset,
		Op:      bytecode.OpCode(vm.chunk.Code[vm.offset]),
	}
}

func (vm *VM) report(err *RuntimeError) {
	fmt.Fprintln(vm.errOut, err.Message)
	fmt.Fprintf(vm.errOut, "[line %d] in source\n", err.Line)
	vm.log.Debug().
		Int("line", err.Line).
		Int("offset", err.Offset).
		Stringer("op", err.Op).
		Msg("runtime error")
}

func (vm *VM) trace(op bytecode.OpCode) {
	e := vm.log.Trace()
	if vm.traceHook == nil && !e.Enabled() {
		return
	}
	stack := make([]value.Value, vm.sp)
	copy(stack, vm.stack[:vm.sp])
	info := TraceInfo{
		Offset: vm.offset,
		Op:     op,
		Line:   vm.chunk.Lines[vm.offset],
		Stack:  stack,
	}
	if vm.traceHook != nil {
		vm.traceHook(info)
	}
	e.Int("offset", info.Offset).
		Int("line", info.Line).
		Stringer("op", op).
		Str("stack", formatStack(stack)).
		Msg("step")
}

// formatStack renders the stack as "[ a ][ b ]".
func formatStack(stack []value.Value) string {
	var sb strings.Builder
	for _, v := range stack {
		sb.WriteString("[ ")
		sb.WriteString(value.Format(v))
		sb.WriteString(" ]")
	}
	return sb.String()
}
