package conformance

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xirelogy/go-lox/internal/vm"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests, each on a fresh VM.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a test runner. Diagnostic output goes to log.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes one test: the suite setup, then the test source, on the
// same VM.
func (r *Runner) Run(test LoadedTest) TestResult {
	result := TestResult{Test: test}
	if skip, reason := test.Test.IsSkipped(); skip {
		result.Skipped = true
		result.SkipReason = reason
		return result
	}

	var out, errOut bytes.Buffer
	opts := []vm.Option{vm.WithOutput(&out), vm.WithErrorOutput(&errOut), vm.WithLogger(r.log)}
	if test.Test.StackSize > 0 {
		opts = append(opts, vm.WithStackSize(test.Test.StackSize))
	}
	machine := vm.New(opts...)
	defer machine.Free()

	if test.Suite.Setup != "" {
		if res, err := machine.Interpret(test.Suite.Setup); res != vm.ResultOK {
			result.Error = fmt.Errorf("setup failed (%s): %v", res, err)
			return result
		}
		out.Reset()
	}

	res, err := machine.Interpret(test.Test.Source)
	if cerr := r.checkExpectation(test.Test.Expect, res, err, out.String(), errOut.String()); cerr != nil {
		result.Error = cerr
		r.log.Debug().Str("file", test.File).Str("test", test.Test.Name).Err(cerr).Msg("conformance failure")
		return result
	}
	result.Passed = true
	return result
}

// RunAll executes tests in order.
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, 0, len(tests))
	for _, test := range tests {
		results = append(results, r.Run(test))
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

func (r *Runner) checkExpectation(expect Expectation, res vm.Result, err error, out, errOut string) error {
	want, ok := parseResult(expect.Result)
	if !ok {
		return fmt.Errorf("unknown result %q", expect.Result)
	}
	if res != want {
		return fmt.Errorf("expected %s, got %s (%v)", want, res, err)
	}
	if out != expect.Output {
		return fmt.Errorf("output %q, want %q", out, expect.Output)
	}
	if expect.Error != "" && !strings.Contains(errOut, expect.Error) {
		return fmt.Errorf("error output %q does not contain %q", errOut, expect.Error)
	}
	if expect.Line > 0 {
		var rerr *vm.RuntimeError
		if !errors.As(err, &rerr) {
			return fmt.Errorf("expected a runtime error on line %d, got %v", expect.Line, err)
		}
		if rerr.Line != expect.Line {
			return fmt.Errorf("runtime error on line %d, want %d", rerr.Line, expect.Line)
		}
	}
	return nil
}

func parseResult(s string) (vm.Result, bool) {
	switch s {
	case "", "ok":
		return vm.ResultOK, true
	case "compile_error":
		return vm.ResultCompileError, true
	case "runtime_error":
		return vm.ResultRuntimeError, true
	default:
		return 0, false
	}
}
