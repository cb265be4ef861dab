package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// TestPath is the directory holding the bundled suites, relative to this package.
const TestPath = "testdata"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Suite TestSuite
	Test  TestCase
}

// LoadDir walks dir and loads every .yaml suite in it, in file name order.
func LoadDir(dir string) ([]LoadedTest, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var loaded []LoadedTest
	for _, path := range paths {
		tests, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		relPath, _ := filepath.Rel(dir, path)
		for i := range tests {
			tests[i].File = relPath
		}
		loaded = append(loaded, tests...)
	}
	return loaded, nil
}

// LoadFile parses a single YAML file and returns all test cases
func LoadFile(path string) ([]LoadedTest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	tests := make([]LoadedTest, 0, len(suite.Tests))
	for _, test := range suite.Tests {
		tests = append(tests, LoadedTest{
			File:  path,
			Suite: suite,
			Test:  test,
		})
	}
	return tests, nil
}
