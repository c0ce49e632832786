// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"errors"
	"fmt"
)

// Cache errors.
var (
	// ErrCompilation is wrapped by every CompilationError.
	ErrCompilation = errors.New("shadercache: shader compilation failed")

	// ErrRegistrationConflict is wrapped by every RegistrationError.
	ErrRegistrationConflict = errors.New("shadercache: variant name already registered")

	// ErrNilCompiler is returned by New when no compiler is given.
	ErrNilCompiler = errors.New("shadercache: compiler is nil")

	// ErrNilSources is returned by New when no source registry is given.
	ErrNilSources = errors.New("shadercache: source registry is nil")

	// ErrNilProgram is returned when a compiler or caller hands over a nil program.
	ErrNilProgram = errors.New("shadercache: program is nil")

	// ErrDestroyed is returned by operations on a destroyed cache.
	ErrDestroyed = errors.New("shadercache: cache destroyed")

	// ErrUnknownCompiler is returned by NewCompiler for unregistered backends.
	ErrUnknownCompiler = errors.New("shadercache: no compiler registered for backend")
)

// CompilationError reports a variant that could not be built: the sources
// were missing, or the backend compiler rejected them.
//
// A missing program means the draw call cannot be rendered correctly.
// Callers decide whether to skip the draw or substitute a fallback; the cache
// never retries because shader sources are static.
type CompilationError struct {
	// Variant is the variant name, e.g. "fill#2".
	Variant string

	// Err is the underlying failure.
	Err error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("shadercache: compile %s: %v", e.Variant, e.Err)
}

// Unwrap returns both ErrCompilation and the underlying error so that
// errors.Is matches either.
func (e *CompilationError) Unwrap() []error { return []error{ErrCompilation, e.Err} }

// RegistrationError reports that a variant name was already taken by a
// different program. It points at a concurrency bug or non-deterministic
// variant naming.
type RegistrationError struct {
	// Variant is the conflicting variant name.
	Variant string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("shadercache: failed to register %s: name already taken", e.Variant)
}

func (e *RegistrationError) Unwrap() error { return ErrRegistrationConflict }
