// Package lox embeds the bytecode interpreter: compile-and-run cycles on a
// VM whose globals persist between cycles.
package lox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xirelogy/go-lox/internal/bytecode"
	"github.com/xirelogy/go-lox/internal/compiler"
	"github.com/xirelogy/go-lox/internal/config"
	"github.com/xirelogy/go-lox/internal/value"
	"github.com/xirelogy/go-lox/internal/vm"
)

var (
	// ErrBusy is returned when a VM is asked to run while already running.
	ErrBusy = errors.New("VM is busy; concurrent runs not allowed")
	// ErrClosed is returned by every operation on a closed VM.
	ErrClosed = errors.New("VM is closed")
)

// Result is the outcome of one compile-and-run cycle.
type Result int

const (
	ResultOK           = Result(vm.ResultOK)
	ResultCompileError = Result(vm.ResultCompileError)
	ResultRuntimeError = Result(vm.ResultRuntimeError)
)

func (r Result) String() string {
	return vm.Result(r).String()
}

// Diagnostic is a single compile error.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return (&compiler.Error{Line: d.Line, Where: d.Where, Message: d.Message}).Error()
}

// CompileError lists every compile error of a rejected source.
type CompileError struct {
	Diagnostics []Diagnostic
	Cause       error
}

func (e *CompileError) Error() string {
	return e.Cause.Error()
}

// Unwrap exposes the underlying compiler error list for errors.Is/As.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// RuntimeError is a source-aware execution error surfaced from the VM.
type RuntimeError struct {
	Message string
	Line    int
	Cause   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Unwrap exposes the underlying cause (if any) for errors.Is/As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// TraceInfo captures execution steps for debug hooks.
type TraceInfo struct {
	Op     string
	Offset int
	Line   int
	Stack  []string
}

// TraceHook observes instruction dispatch for debugging/profiling.
type TraceHook func(TraceInfo)

func convertError(err error) error {
	if err == nil {
		return nil
	}
	var list compiler.ErrorList
	if errors.As(err, &list) {
		diags := make([]Diagnostic, len(list))
		for i, e := range list {
			diags[i] = Diagnostic{Line: e.Line, Where: e.Where, Message: e.Message}
		}
		return &CompileError{Diagnostics: diags, Cause: err}
	}
	var rerr *vm.RuntimeError
	if errors.As(err, &rerr) {
		return &RuntimeError{Message: rerr.Message, Line: rerr.Line, Cause: err}
	}
	return err
}

// Option configures a VM.
type Option func(*options)

type options struct {
	stdout    io.Writer
	stderr    io.Writer
	stackSize int
	log       zerolog.Logger
}

// WithStdout sets where print writes. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr sets where errors are reported. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithStackSize sets the operand stack capacity.
func WithStackSize(n int) Option {
	return func(o *options) { o.stackSize = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithConfig applies the vm settings of a loaded lox.toml.
func WithConfig(c *config.Config) Option {
	return func(o *options) {
		if c != nil {
			o.stackSize = c.VM.StackSize
		}
	}
}

// VM is a goroutine-safe handle on one interpreter. Runs are serialized:
// a second concurrent run fails with ErrBusy instead of waiting.
type VM struct {
	core   *vm.VM
	mu     sync.Mutex
	busy   bool
	closed bool
}

// NewVM constructs a new VM instance.
func NewVM(opts ...Option) *VM {
	o := options{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stackSize: vm.DefaultStackSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &VM{core: vm.New(
		vm.WithOutput(o.stdout),
		vm.WithErrorOutput(o.stderr),
		vm.WithStackSize(o.stackSize),
		vm.WithLogger(o.log),
	)}
}

func (vmc *VM) acquire() error {
	if vmc == nil || vmc.core == nil {
		return errors.New("nil VM")
	}
	vmc.mu.Lock()
	defer vmc.mu.Unlock()
	if vmc.closed {
		return ErrClosed
	}
	if vmc.busy {
		return ErrBusy
	}
	vmc.busy = true
	return nil
}

func (vmc *VM) release() {
	vmc.mu.Lock()
	vmc.busy = false
	vmc.mu.Unlock()
}

// Interpret compiles and runs src. Errors are reported on the configured
// stderr and also returned as *CompileError or *RuntimeError.
func (vmc *VM) Interpret(src string) (Result, error) {
	if err := vmc.acquire(); err != nil {
		return ResultOK, err
	}
	defer vmc.release()
	res, err := vmc.core.Interpret(src)
	return Result(res), convertError(err)
}

// RunFile interprets the script at path. A read failure is returned
// unchanged (an *fs.PathError) so callers can tell it from script errors.
func (vmc *VM) RunFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultOK, err
	}
	return vmc.Interpret(string(data))
}

// Future represents an in-flight run.
type Future struct {
	ch <-chan RunResult
}

// RunResult is the outcome of an asynchronous run.
type RunResult struct {
	Result Result
	Err    error
}

// Await waits for completion or context cancellation.
func (f Future) Await(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return ResultOK, ctx.Err()
	case res := <-f.ch:
		return res.Result, res.Err
	}
}

// InterpretAsync runs src on a new goroutine. The busy check happens
// before it returns, so a second call made while the first is running
// always completes with ErrBusy.
func (vmc *VM) InterpretAsync(ctx context.Context, src string) Future {
	ch := make(chan RunResult, 1)
	if err := vmc.acquire(); err != nil {
		ch <- RunResult{Err: err}
		close(ch)
		return Future{ch: ch}
	}

	go func() {
		defer close(ch)
		var out RunResult
		select {
		case <-ctx.Done():
			out.Err = ctx.Err()
		default:
			res, err := vmc.core.Interpret(src)
			out = RunResult{Result: Result(res), Err: convertError(err)}
		}
		// release before publishing so the caller can run again right away
		vmc.release()
		ch <- out
	}()
	return Future{ch: ch}
}

// Duplicate clones the VM configuration and global state into a new instance.
// The duplicate has independent memory.
func (vmc *VM) Duplicate() (*VM, error) {
	if err := vmc.acquire(); err != nil {
		return nil, err
	}
	defer vmc.release()
	return &VM{core: vmc.core.Duplicate()}, nil
}

// Disassemble compiles src without running it and writes the bytecode dump to w.
func (vmc *VM) Disassemble(w io.Writer, name, src string) error {
	if err := vmc.acquire(); err != nil {
		return err
	}
	defer vmc.release()
	return convertError(vmc.core.Disassemble(w, name, src))
}

// Listing compiles src without running it and returns its CBOR-encoded
// instruction listing.
func (vmc *VM) Listing(name, src string) ([]byte, error) {
	if err := vmc.acquire(); err != nil {
		return nil, err
	}
	defer vmc.release()
	l, err := vmc.core.Listing(name, src)
	if err != nil {
		return nil, convertError(err)
	}
	return bytecode.EncodeListing(l)
}

// SetTraceHook attaches a debug hook that observes instruction dispatch.
func (vmc *VM) SetTraceHook(h TraceHook) {
	if vmc == nil || vmc.core == nil {
		return
	}
	if h == nil {
		vmc.core.SetTraceHook(nil)
		return
	}
	vmc.core.SetTraceHook(func(info vm.TraceInfo) {
		stack := make([]string, len(info.Stack))
		for i, v := range info.Stack {
			stack[i] = value.Format(v)
		}
		h(TraceInfo{
			Op:     info.Op.String(),
			Offset: info.Offset,
			Line:   info.Line,
			Stack:  stack,
		})
	})
}

// Close releases every object the VM owns. Further calls fail with ErrClosed.
func (vmc *VM) Close() error {
	if err := vmc.acquire(); err != nil {
		if errors.Is(err, ErrClosed) {
			return nil
		}
		return err
	}
	vmc.core.Free()
	vmc.mu.Lock()
	vmc.closed = true
	vmc.busy = false
	vmc.mu.Unlock()
	return nil
}
