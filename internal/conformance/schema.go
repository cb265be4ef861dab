package conformance

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Setup       string     `yaml:"setup,omitempty"` // source run before every test
	Tests       []TestCase `yaml:"tests"`
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string
	Source      string      `yaml:"source"`
	StackSize   int         `yaml:"stack_size,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what a run must produce.
type Expectation struct {
	Result string `yaml:"result,omitempty"` // ok (default), compile_error, runtime_error
	Output string `yaml:"output,omitempty"` // exact stdout
	Error  string `yaml:"error,omitempty"`  // substring of the error output
	Line   int    `yaml:"line,omitempty"`   // line of the runtime error
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
