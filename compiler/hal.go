// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
)

// ErrInvalidDevice is returned when the borrowed device is neither nil, a
// hal.Device, nor a provider of one.
var ErrInvalidDevice = errors.New("compiler: device is not a hal.Device provider")

// halProvider is implemented by host applications that share their device,
// e.g. a gogpu.App context.
type halProvider interface {
	HalDevice() any
}

// halDeviceOf extracts the hal.Device from a borrowed device.
// A nil device means "translate only" and yields nil, nil.
func halDeviceOf(dev shadercache.Device) (hal.Device, error) {
	switch d := dev.(type) {
	case nil:
		return nil, nil
	case hal.Device:
		return d, nil
	case halProvider:
		hd, ok := d.HalDevice().(hal.Device)
		if !ok {
			return nil, fmt.Errorf("%w: HalDevice returned %T", ErrInvalidDevice, d.HalDevice())
		}
		return hd, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidDevice, dev)
	}
}

// createModules creates the hal shader modules of p on device. On failure
// nothing is left allocated.
func (c *Compiler) createModules(device hal.Device, p *Program, req *shadercache.CompileRequest) error {
	label := req.Parameters.Label + req.VariantName

	vert, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + ".vert",
		Source: c.moduleSource(&p.Vertex),
	})
	if err != nil {
		return &StageError{Variant: req.VariantName, Stage: "vertex", Err: fmt.Errorf("create shader module: %w", err)}
	}

	frag, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + ".frag",
		Source: c.moduleSource(&p.Fragment),
	})
	if err != nil {
		device.DestroyShaderModule(vert)
		return &StageError{Variant: req.VariantName, Stage: "fragment", Err: fmt.Errorf("create shader module: %w", err)}
	}

	p.Vertex.Module = vert
	p.Fragment.Module = frag
	p.device = device
	return nil
}

// moduleSource picks the module payload: SPIR-V for Vulkan, the resolved
// WGSL otherwise (hal backends translate WGSL themselves).
func (c *Compiler) moduleSource(s *Stage) hal.ShaderSource {
	if c.backend == backend.Vulkan {
		return hal.ShaderSource{SPIRV: s.SPIRV}
	}
	return hal.ShaderSource{WGSL: s.Preprocessed}
}
