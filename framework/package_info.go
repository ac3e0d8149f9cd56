// Package framework contains the domain-neutral part of the test harness: a test context
// that behaves like a *testing.T outside of the Go test runner, the results it
// accumulates, regex filters for choosing tests, and console reporting.
//
// The general model is:
//
// 1. A test run has a root scope; each named test is a subtest of it, and tests may
// have subtests of their own. Results are recorded in the order tests are started.
//
// 2. A test fails if it records an error, and stops early if it calls FailNow, which is
// what the require package does. A panic fails only the test it happened in. A test whose
// subtest failed is failed too, but the root scope fails only through its own errors.
//
// 3. Debug output is captured per test, so it can be shown only for tests that failed.
//
// Code that knows what is being tested builds a domain-specific test API on top of
// Context; see the notetests package.
package framework
