// Package snapshot assembles the per-file parsers of the proc package into
// whole-process and whole-system views read through a proc.Reader.
//
// The sub-records of a process view come from independently read files, so
// the subject may exit partway through; assembly then returns a Vanished
// error immediately instead of a half-built view. A successful assembly does
// NOT claim consistency across the files: each record is a faithful decode
// of a single point-in-time read, and callers needing atomic cross-file
// consistency must implement their own retry discipline.
//
// Tick and page-size dependent conversions are pure functions over an
// Environment value captured once, never ambient process state.
package snapshot
