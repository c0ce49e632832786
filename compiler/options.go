// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shadercache/intern"
)

// Option configures a Compiler.
type Option func(*options)

type options struct {
	names        *intern.Table
	validate     bool
	debug        bool
	spirvVersion spirv.Version
	glslVersion  glsl.Version
}

func defaultOptions() options {
	return options{
		validate:     true,
		spirvVersion: spirv.Version1_3,
		glslVersion:  glsl.Version330,
	}
}

// WithInternTable interns attribute and uniform names into t. Share the
// table with the cache so that every name in the engine has one identity.
func WithInternTable(t *intern.Table) Option {
	return func(o *options) {
		o.names = t
	}
}

// WithValidation enables or disables naga IR validation. Enabled by default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithDebugInfo emits SPIR-V debug instructions (OpName, OpLine).
func WithDebugInfo(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithSPIRVVersion sets the SPIR-V version for Vulkan. Default 1.3.
func WithSPIRVVersion(v spirv.Version) Option {
	return func(o *options) {
		o.spirvVersion = v
	}
}

// WithGLSLVersion sets the GLSL version for OpenGL. Default 330 core.
// Use glsl.VersionES300 for OpenGL ES 3.0 and WebGL 2.
func WithGLSLVersion(v glsl.Version) Option {
	return func(o *options) {
		o.glslVersion = v
	}
}
