// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shadercache caches compiled GPU programs per shader variant.
//
// # Overview
//
// A shader family (fill, line, symbol, ...) is compiled into several
// variants depending on which style properties a draw call promotes to
// uniforms. The caller passes the promoted properties as an ordered list;
// entry i being non-empty sets bit i of the variant mask and adds a
// "#define HAS_UNIFORM_u_<name>" line to the shader source. The variant name
// is "<family>#<mask>".
//
// Cache.GetOrCreateShader returns the program for a variant, compiling it on
// the first request only:
//
//	compiler, _ := shadercache.NewCompiler(backend.Vulkan)
//	cache, _ := shadercache.New(compiler, source.Default())
//	defer cache.Destroy()
//
//	prog, err := cache.GetOrCreateShader(dev, "fill", []string{"", "color", ""}, "a_pos")
//	if err != nil {
//	    // *CompilationError or *RegistrationError: skip the draw or use a fallback
//	}
//
// # Property order
//
// Bit position equals list index. Every call site must pass the properties
// of a family in the same order and with the same length; otherwise two
// different property sets can share a mask and receive the wrong program.
//
// # Packages
//
//   - intern: string interning for shader, attribute and uniform names
//   - variant: mask, define and name derivation
//   - backend: the closed set of GPU backends
//   - compiler: naga-based compilers for every backend (register with a blank import)
//   - source: base shader sources per family and backend
//
// # Errors
//
// Nothing in this package falls back silently. Compilation failures surface as
// *CompilationError (errors.Is(err, ErrCompilation)); name collisions surface
// as *RegistrationError (errors.Is(err, ErrRegistrationConflict)).
package shadercache
