// Package filter evaluates user-supplied match expressions against process
// views, deciding which processes the CLI shows.
//
// Expressions use expr-lang syntax over a small environment: pid, ppid,
// comm, state, uid, threads, rss (bytes) and cmdline. For example:
//
//	comm == "nginx" && rss > 100 * 1024 * 1024
//	state == "zombie" || ppid == 1
//
// Expressions are compiled once and run per process; evaluation never
// mutates the view.
package filter
