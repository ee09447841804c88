// Package expr evaluates declarative attribute expressions against a
// context document.
//
// Extension command lines, environment variables and pid file paths are
// configured as templates rather than literals; this package turns a
// template plus an interface's context document into an ordered list of
// strings. Producing zero results is an ordinary outcome and is reported
// separately from evaluation failure.
package expr
