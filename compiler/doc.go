// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compiler builds shader programs from WGSL variant sources with naga.
//
// A Compiler targets one backend: Vulkan programs carry SPIR-V, Metal
// programs MSL and OpenGL programs GLSL. Importing the package registers a
// compiler factory for every backend with shadercache.RegisterCompiler:
//
//	import _ "github.com/gogpu/shadercache/compiler"
//
//	c, err := shadercache.NewCompiler(backend.Metal)
//
// Each Program records the vertex inputs and uniforms reflected from the
// naga IR, keyed by interned names, and the location of the primary
// attribute used as the binding anchor.
//
// When Compile receives a hal.Device, or a value with a HalDevice() any
// method, shader modules are created on that device. They are released by
// Program.Destroy, which the owning cache calls on Clear or Destroy.
package compiler
