package framework

import "strings"

// Results is the outcome of a test run. Tests are in the order they were started, so a
// parent test comes before its subtests.
type Results struct {
	Tests    []TestResult
	Failures []TestResult

	// Error is set if the run was aborted by a failure outside of any test.
	Error error
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Failed  bool
	Skipped bool
}

// OK is true if no test failed and the run was not aborted.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && r.Error == nil
}

// Outcomes maps each test that was not skipped to whether it passed.
func (r Results) Outcomes() map[string]bool {
	ret := make(map[string]bool, len(r.Tests))
	for _, t := range r.Tests {
		if !t.Skipped {
			ret[t.TestID.String()] = !t.Failed
		}
	}
	return ret
}

// Total returns the number of tests that ran.
func (r Results) Total() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped {
			n++
		}
	}
	return n
}

// Passed returns the number of tests that ran without failing.
func (r Results) Passed() int {
	return r.Total() - len(r.Failures)
}

type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest of this test.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

// Depth is 1 for a top-level test.
func (t TestID) Depth() int {
	return len(t.Path)
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
