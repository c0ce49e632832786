// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
	"github.com/gogpu/shadercache/intern"
)

// Stage is the compiled output of one shader stage.
type Stage struct {
	// EntryPoint is the entry point name in the source.
	EntryPoint string

	// Preprocessed is the WGSL text after define resolution.
	Preprocessed string

	// SPIRV holds the SPIR-V words (Vulkan only).
	SPIRV []uint32

	// Code holds the generated MSL or GLSL text (Metal and OpenGL only).
	Code string

	// Module is the hal shader module, nil when the program was built
	// without a hal device.
	Module hal.ShaderModule
}

// Attribute is a vertex input of the program.
type Attribute struct {
	Name     string
	ID       intern.Identity
	Location uint32
}

// Uniform is a uniform buffer binding of the program.
type Uniform struct {
	Name       string
	ID         intern.Identity
	Group      uint32
	Binding    uint32
	Visibility gputypes.ShaderStages
}

// Program is a compiled variant. It implements shadercache.Program.
type Program struct {
	name    string
	backend backend.Type

	Vertex   Stage
	Fragment Stage

	// Attributes are the vertex inputs, sorted by location.
	Attributes []Attribute

	// Uniforms are the uniform buffers of both stages, sorted by group and binding.
	Uniforms []Uniform

	// Anchor is the primary attribute the program was linked against.
	// It is nil when the request named no primary attribute.
	Anchor *Attribute

	device      hal.Device
	destroyOnce sync.Once
}

var _ shadercache.Program = (*Program)(nil)

// Name returns the variant name.
func (p *Program) Name() string { return p.name }

// Backend returns the backend the program was compiled for.
func (p *Program) Backend() backend.Type { return p.backend }

// AnchorLocation returns the location of the primary attribute, or -1.
func (p *Program) AnchorLocation() int {
	if p.Anchor == nil {
		return -1
	}
	return int(p.Anchor.Location)
}

// Attribute returns the vertex input with the given interned name.
func (p *Program) Attribute(id intern.Identity) (Attribute, bool) {
	for _, a := range p.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// Uniform returns the uniform binding with the given interned name.
func (p *Program) Uniform(id intern.Identity) (Uniform, bool) {
	for _, u := range p.Uniforms {
		if u.ID == id {
			return u, true
		}
	}
	return Uniform{}, false
}

// OnDevice reports whether the program owns hal shader modules.
func (p *Program) OnDevice() bool { return p.device != nil }

// Destroy releases the hal shader modules. It is safe to call more than once.
func (p *Program) Destroy() {
	p.destroyOnce.Do(func() {
		if p.device == nil {
			return
		}
		if p.Fragment.Module != nil {
			p.device.DestroyShaderModule(p.Fragment.Module)
			p.Fragment.Module = nil
		}
		if p.Vertex.Module != nil {
			p.device.DestroyShaderModule(p.Vertex.Module)
			p.Vertex.Module = nil
		}
		p.device = nil
	})
}
