// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package document defines the configuration document handed to the control
// runtime: a tree keyed by category, then by derived name.
//
// Why a typed tree instead of nested maps?
//
// The wire format is fixed. Modelling each category as its own Go type keeps
// field names and nesting in one place (the json tags in types.go) and gives
// the compiler get-or-create accessors per category, so entries appear lazily
// the first time a value is written without any untyped map juggling.
//
// The document never validates. Everything written here has already passed
// the checks in the validation package, and entries reference each other by
// name only: deleting a pulse does not delete its waveforms, the caller has
// to do that explicitly.
package document
