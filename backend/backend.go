// Package backend names the GPU backends a shader can be compiled for.
//
// The set is closed: an engine selects one Type at startup and builds a
// compiler for it. Shader sources are registered per Type.
package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Type is a GPU backend.
type Type uint8

// Supported backends.
const (
	// Vulkan consumes SPIR-V.
	Vulkan Type = iota + 1

	// Metal consumes Metal Shading Language.
	Metal

	// OpenGL consumes GLSL, one program object per variant.
	OpenGL
)

// Backend names as accepted by Parse.
const (
	NameVulkan = "vulkan"
	NameMetal  = "metal"
	NameOpenGL = "opengl"
)

// ErrUnknown is returned by Parse for names outside the supported set.
var ErrUnknown = errors.New("backend: unknown backend")

// All returns every supported backend in declaration order.
func All() []Type {
	return []Type{Vulkan, Metal, OpenGL}
}

// String returns the backend name.
func (t Type) String() string {
	switch t {
	case Vulkan:
		return NameVulkan
	case Metal:
		return NameMetal
	case OpenGL:
		return NameOpenGL
	default:
		return fmt.Sprintf("backend(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the supported backends.
func (t Type) Valid() bool {
	return t >= Vulkan && t <= OpenGL
}

// Parse converts a backend name to a Type. Matching is case-insensitive and
// accepts "gl" and "gles" as OpenGL.
func Parse(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameVulkan, "vk":
		return Vulkan, nil
	case NameMetal, "mtl":
		return Metal, nil
	case NameOpenGL, "gl", "gles":
		return OpenGL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}
