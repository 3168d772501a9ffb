// Package output renders snapshot views for the CLI, either as indented
// human-readable text or as a single JSON document.
package output
