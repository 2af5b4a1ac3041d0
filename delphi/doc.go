// Package delphi implements a tree-walking interpreter for a small
// Pascal/Delphi-like teaching language. Supported constructs:
//   - `program Name;` headers and `var` sections of string variables.
//   - Class declarations with fields and constructor/destructor/method
//     headers, implemented as `constructor T.Create(...)`,
//     `destructor T.Destroy`, `function T.Name` and `procedure T.Name`.
//   - Assignments whose right-hand side concatenates string literals,
//     number literals, variable or field references and method calls.
//   - Console I/O via write/writeln and read/readln.
//   - Object creation with `obj := T.Create(args)` and destruction with
//     `obj.Destroy` or `obj.Free`.
//
// Every value is text. Methods return through a reserved `result` field on
// the receiving object. Identifiers and keywords are case-insensitive.
// Comments use `{ }`, `(* *)` or `//`.
package delphi
