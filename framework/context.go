package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the scope of a single test or subtest. It implements require.TestingT, so the
// assert and require packages can be used with it directly.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes action in a root scope and returns the accumulated results. A panic that
// escapes the root scope, rather than one of its subtests, is reported as Results.Error.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(-1, action)
	return env.results
}

// run executes action, then stores the outcome in the results slot at index, or in
// Results.Error for the root scope (index < 0).
func (c *Context) run(index int, action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if index < 0 {
			if c.failed {
				c.env.results.Error = joinErrors(c.errors)
			}
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Failed: c.failed, Skipped: c.skipped}
		c.env.results.Tests[index] = result
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

// ID returns the identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest. This is equivalent to the Run method of testing.T, except that a
// failure in the subtest never stops the caller.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	index := len(c.env.results.Tests)
	c.env.results.Tests = append(c.env.results.Tests, TestResult{TestID: id, Skipped: true})
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(index, action)
	if c1.failed && c.id.Depth() > 0 {
		// A scenario fails if any of its subtests failed; the root scope only fails on its own.
		c.failed = true
	}
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. The methods in the require package call it.
func (c *Context) FailNow() {
	panic(c)
}

// Failed reports whether a failure has been recorded for this test so far.
func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a line to the captured debug output of this test.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return errors.New("test suite aborted")
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
