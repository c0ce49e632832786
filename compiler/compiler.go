// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
	"github.com/gogpu/shadercache/intern"
	"github.com/gogpu/shadercache/internal/preprocess"
)

// Compiler errors.
var (
	// ErrNoEntryPoint is returned when a stage source lacks its entry point.
	ErrNoEntryPoint = errors.New("compiler: stage has no entry point")

	// ErrMissingAttribute is returned when the primary attribute is not a
	// vertex input of the program.
	ErrMissingAttribute = errors.New("compiler: primary attribute not found")

	// ErrValidation is returned when naga IR validation reports problems.
	ErrValidation = errors.New("compiler: validation failed")

	// ErrUnsupportedBackend is returned by New for backends outside the supported set.
	ErrUnsupportedBackend = errors.New("compiler: unsupported backend")

	// ErrNilRequest is returned by Compile for a nil request.
	ErrNilRequest = errors.New("compiler: request is nil")
)

// StageError reports a failure while building one stage of a variant.
type StageError struct {
	Variant string
	Stage   string // "vertex" or "fragment"
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("compiler: %s %s stage: %v", e.Variant, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Compiler builds programs from WGSL sources with naga.
//
// Each stage goes through the same pipeline:
//  1. Prepend program header and variant defines
//  2. Resolve #define/#ifdef directives
//  3. Parse and lower WGSL to naga IR, then validate
//  4. Emit SPIR-V (Vulkan), MSL (Metal) or GLSL (OpenGL)
//
// When the borrowed device is a hal.Device, or provides one through
// HalDevice() any, shader modules are created on it and owned by the
// returned Program.
//
// Compiler is stateless apart from its intern table and is safe for
// concurrent use.
type Compiler struct {
	backend backend.Type
	opts    options
}

var _ shadercache.Compiler = (*Compiler)(nil)

func init() {
	for _, b := range backend.All() {
		shadercache.RegisterCompiler(b, factory(b))
	}
}

// factory returns a CompilerFactory for b. The factory returns a nil
// interface, not a typed nil, when b is unsupported.
func factory(b backend.Type) shadercache.CompilerFactory {
	return func() shadercache.Compiler {
		c, err := New(b)
		if err != nil {
			return nil
		}
		return c
	}
}

// New creates a compiler for backend b.
func New(b backend.Type, opts ...Option) (*Compiler, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBackend, b)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.names == nil {
		o.names = intern.New()
	}
	return &Compiler{backend: b, opts: o}, nil
}

// Backend returns the target backend.
func (c *Compiler) Backend() backend.Type { return c.backend }

// InternTable returns the table attribute and uniform names are interned into.
func (c *Compiler) InternTable() *intern.Table { return c.opts.names }

// Compile builds the program described by req. dev may be nil; it is used
// only during this call.
func (c *Compiler) Compile(dev shadercache.Device, req *shadercache.CompileRequest) (shadercache.Program, error) {
	p, err := c.CompileProgram(dev, req)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CompileProgram is Compile with the concrete result type.
func (c *Compiler) CompileProgram(dev shadercache.Device, req *shadercache.CompileRequest) (*Program, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	start := time.Now()

	halDev, err := halDeviceOf(dev)
	if err != nil {
		return nil, err
	}

	p := &Program{name: req.VariantName, backend: c.backend}
	names := c.opts.names

	vmod, err := c.buildStage(&p.Vertex, req, "vertex", req.Source.Vertex, ir.StageVertex)
	if err != nil {
		return nil, err
	}
	fmod, err := c.buildStage(&p.Fragment, req, "fragment", req.Source.Fragment, ir.StageFragment)
	if err != nil {
		return nil, err
	}

	vep, _ := findEntryPoint(vmod, ir.StageVertex)
	p.Attributes = vertexInputs(vmod, vep, names)
	p.Uniforms = mergeUniforms(nil, vmod, gputypes.ShaderStageVertex, names)
	p.Uniforms = mergeUniforms(p.Uniforms, fmod, gputypes.ShaderStageFragment, names)

	if req.PrimaryAttribute != "" {
		id := names.Intern(req.PrimaryAttribute)
		anchor, ok := p.Attribute(id)
		if !ok {
			return nil, &StageError{
				Variant: req.VariantName,
				Stage:   "vertex",
				Err:     fmt.Errorf("%w: %q", ErrMissingAttribute, req.PrimaryAttribute),
			}
		}
		p.Anchor = &anchor
	}

	if halDev != nil {
		if err := c.createModules(halDev, p, req); err != nil {
			return nil, err
		}
	}

	shadercache.Logger().Debug("compiler: built program",
		"variant", req.VariantName,
		"backend", c.backend,
		"attributes", len(p.Attributes),
		"uniforms", len(p.Uniforms),
		"device", halDev != nil,
		"elapsed", time.Since(start))
	return p, nil
}

// buildStage runs one stage through the pipeline and fills out.
func (c *Compiler) buildStage(
	out *Stage,
	req *shadercache.CompileRequest,
	stageName, src string,
	stage ir.ShaderStage,
) (*ir.Module, error) {
	fail := func(err error) (*ir.Module, error) {
		return nil, &StageError{Variant: req.VariantName, Stage: stageName, Err: err}
	}

	text, _, err := preprocess.Run(assemble(req.Parameters.Header, req.Defines, src))
	if err != nil {
		return fail(err)
	}
	out.Preprocessed = text

	ast, err := naga.Parse(text)
	if err != nil {
		return fail(err)
	}
	module, err := naga.LowerWithSource(ast, text)
	if err != nil {
		return fail(err)
	}

	if c.opts.validate {
		issues, err := naga.Validate(module)
		if err != nil {
			return fail(err)
		}
		if len(issues) > 0 {
			return fail(fmt.Errorf("%w: %v", ErrValidation, issues[0]))
		}
	}

	ep, ok := findEntryPoint(module, stage)
	if !ok {
		return fail(ErrNoEntryPoint)
	}
	out.EntryPoint = ep.Name

	switch c.backend {
	case backend.Vulkan:
		code, err := naga.GenerateSPIRV(module, spirv.Options{
			Version: c.opts.spirvVersion,
			Debug:   c.opts.debug,
		})
		if err != nil {
			return fail(err)
		}
		out.SPIRV = spirvWords(code)
	case backend.Metal:
		code, _, err := msl.Compile(module, msl.DefaultOptions())
		if err != nil {
			return fail(err)
		}
		out.Code = code
	case backend.OpenGL:
		opts := glsl.DefaultOptions()
		opts.LangVersion = c.opts.glslVersion
		opts.EntryPoint = ep.Name
		code, _, err := glsl.Compile(module, opts)
		if err != nil {
			return fail(err)
		}
		out.Code = code
	}
	return module, nil
}

// assemble concatenates header, defines and source, each on its own lines.
func assemble(header, defines, src string) string {
	var b strings.Builder
	b.Grow(len(header) + len(defines) + len(src) + 2)
	if header != "" {
		b.WriteString(header)
		if !strings.HasSuffix(header, "\n") {
			b.WriteByte('\n')
		}
	}
	if defines != "" {
		b.WriteString(defines)
		if !strings.HasSuffix(defines, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(src)
	return b.String()
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(code []byte) []uint32 {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = uint32(code[i*4]) |
			uint32(code[i*4+1])<<8 |
			uint32(code[i*4+2])<<16 |
			uint32(code[i*4+3])<<24
	}
	return words
}
