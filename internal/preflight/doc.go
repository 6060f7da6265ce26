// Package preflight provides readiness checks for the files and directories a
// run depends on.
//
// The run command calls RunAll before decoding so a missing input or an
// unwritable output directory fails fast, before any rows are transformed.
// The CLI "rowpool check" command renders the same results as a table.
package preflight
