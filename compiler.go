// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"github.com/gogpu/shadercache/backend"
)

// Device is the GPU context a compiler builds programs on.
//
// The cache borrows it for the duration of one GetOrCreateShader call and
// never retains it. Compilers that create GPU objects type-assert the
// concrete device they need; a nil Device is valid for compilers that only
// translate source.
type Device any

// Program is a compiled, linked GPU program for exactly one variant.
//
// A Program is owned by the cache that registered it and is destroyed only
// when that cache is cleared or destroyed.
type Program interface {
	// Name returns the variant name the program was compiled for.
	Name() string

	// Destroy releases the GPU resources held by the program.
	Destroy()
}

// Source is the base shader text of a family for one backend.
// The cache never mutates it.
type Source struct {
	// Name is the family's shader name, e.g. "fill".
	Name string

	// Vertex is the vertex stage source.
	Vertex string

	// Fragment is the fragment stage source.
	Fragment string
}

// SourceRegistry provides base sources keyed by family and backend.
type SourceRegistry interface {
	Source(family string, b backend.Type) (Source, error)
}

// ProgramParameters are the base parameters shared by every program a
// cache compiles.
type ProgramParameters struct {
	// Header is prepended to both stages before the variant defines,
	// e.g. engine-wide "#define" flags.
	Header string

	// Label prefixes GPU object labels for debugging tools.
	Label string
}

// CompileRequest is everything a compiler needs to build one variant.
type CompileRequest struct {
	Parameters ProgramParameters

	// VariantName is the canonical name, e.g. "fill#2".
	VariantName string

	// PrimaryAttribute is the vertex attribute used as the binding anchor
	// while linking.
	PrimaryAttribute string

	Source Source

	// Defines holds the synthesized "#define HAS_UNIFORM_u_<name>" lines.
	Defines string
}

// Compiler builds programs for one backend.
type Compiler interface {
	// Backend returns the backend the compiler targets.
	Backend() backend.Type

	// Compile builds and links a program. It must not retain dev.
	Compile(dev Device, req *CompileRequest) (Program, error)
}
