// Package notetests contains the scenarios that check how a notes API stores tags and
// folders.
//
// Each scenario creates its own notes, changes them through partial updates, and reads
// them back. All notes created during a run belong to one user and are deleted when the
// run ends. Scenarios for optional endpoints are skipped unless the service advertises
// them in its health response.
package notetests
