// Package correlate joins independently parsed /proc tables into coherent
// views: which process owns which socket, how processes nest into a tree,
// and which mountpoint a disk's I/O belongs to.
//
// Joins consume immutable snapshots produced by the proc package and build
// new immutable outputs; inputs are never mutated, so concurrent callers may
// share read-only tables freely. Because the tables are captured at slightly
// different instants, the joins tolerate the expected partial-data cases
// (sockets nobody owns, processes whose parent exited mid-enumeration) and
// report them explicitly instead of failing or dropping data.
package correlate
