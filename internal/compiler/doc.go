// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package compiler keeps a configuration document in sync with a set of
// element descriptors.
//
// Why incremental?
//
// Every field of the document ends up as a register write on the control
// hardware. Rebuilding the whole document on every edit would make the
// runtime reprogram waveforms and mixers that did not change. Instead, the
// compiler keeps the parameters each element had after its last successful
// compile and, on the next call, runs only the update routines of parameters
// whose value differs.
//
// Lifecycle
//
//   - Uninitialized: no document exists yet.
//   - Built: the first Compile call allocated the document and wrote its
//     static entries; every later call is a diff pass over the same document.
//
// Per element the compiler tracks NeverCompiled or CompiledWith(parameters).
// A failed routine aborts the rest of that element's pass and leaves its
// snapshot untouched, so the same diff is retried next time. Writes already
// made are not rolled back, but every value written has been validated.
package compiler
