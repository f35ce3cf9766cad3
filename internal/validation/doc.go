// Package validation holds the hardware bounds of the target controller and
// the pure predicates that enforce them before anything is written to a
// configuration document.
//
// Every validator accepts an untyped value, because descriptor parameters can
// be assigned dynamically (overrides, reloads), and either returns the value
// coerced to its hardware type or a *Error whose Kind is one of the sentinel
// errors declared in errors.go.
package validation
