// Package proc parses the text and binary record formats exposed by the Linux
// /proc pseudo-filesystem into strongly typed values.
//
// Every parser is a pure function over already-read bytes: it performs no I/O,
// holds no state, and is safe to call concurrently on independent inputs.
// Reading the bytes is the job of a Reader (OSReader for a real /proc mount,
// or any test double). Parsers return classified errors (see Error and Kind)
// so callers can tell a malformed record from a process that exited between
// enumeration and read.
//
// Kernel-version-dependent fields are modeled as present-or-absent pointer
// fields on each record. A Features value describes which fields the running
// kernel is expected to expose; parsers use it to decide whether a structurally
// absent field is acceptable or an error.
//
// Records are immutable snapshots: re-reading produces a new value, nothing is
// mutated in place, and no record keeps a handle to its source.
package proc
