// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"cmp"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadercache/intern"
)

// findEntryPoint returns the first entry point of the given stage.
func findEntryPoint(m *ir.Module, stage ir.ShaderStage) (ir.EntryPoint, bool) {
	for _, ep := range m.EntryPoints {
		if ep.Stage == stage {
			return ep, true
		}
	}
	return ir.EntryPoint{}, false
}

// vertexInputs collects the @location inputs of the vertex entry point,
// including members of struct-typed arguments.
func vertexInputs(m *ir.Module, ep ir.EntryPoint, names *intern.Table) []Attribute {
	fn := ep.Function

	var attrs []Attribute
	add := func(name string, b *ir.Binding) {
		if b == nil {
			return
		}
		loc, ok := (*b).(ir.LocationBinding)
		if !ok {
			return
		}
		attrs = append(attrs, Attribute{Name: name, ID: names.Intern(name), Location: loc.Location})
	}

	for _, arg := range fn.Arguments {
		if arg.Binding != nil {
			add(arg.Name, arg.Binding)
			continue
		}
		if int(arg.Type) >= len(m.Types) {
			continue
		}
		if st, ok := m.Types[arg.Type].Inner.(ir.StructType); ok {
			for _, member := range st.Members {
				add(member.Name, member.Binding)
			}
		}
	}

	slices.SortFunc(attrs, func(a, b Attribute) int { return cmp.Compare(a.Location, b.Location) })
	return attrs
}

// mergeUniforms adds the uniform globals of m, visible to stage, into dst.
// A binding seen in both stages is listed once with both visibility bits.
func mergeUniforms(dst []Uniform, m *ir.Module, stage gputypes.ShaderStages, names *intern.Table) []Uniform {
	for _, gv := range m.GlobalVariables {
		if gv.Space != ir.SpaceUniform || gv.Binding == nil {
			continue
		}
		idx := slices.IndexFunc(dst, func(u Uniform) bool {
			return u.Group == gv.Binding.Group && u.Binding == gv.Binding.Binding
		})
		if idx >= 0 {
			dst[idx].Visibility |= stage
			continue
		}
		dst = append(dst, Uniform{
			Name:       gv.Name,
			ID:         names.Intern(gv.Name),
			Group:      gv.Binding.Group,
			Binding:    gv.Binding.Binding,
			Visibility: stage,
		})
	}

	slices.SortFunc(dst, func(a, b Uniform) int {
		if c := cmp.Compare(a.Group, b.Group); c != 0 {
			return c
		}
		return cmp.Compare(a.Binding, b.Binding)
	})
	return dst
}
