package source

import (
	_ "embed"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
)

// Embedded WGSL sources for the built-in families.

//go:embed shaders/fill.vert.wgsl
var fillVertexSource string

//go:embed shaders/fill.frag.wgsl
var fillFragmentSource string

//go:embed shaders/line.vert.wgsl
var lineVertexSource string

//go:embed shaders/line.frag.wgsl
var lineFragmentSource string

//go:embed shaders/symbol.vert.wgsl
var symbolVertexSource string

//go:embed shaders/symbol.frag.wgsl
var symbolFragmentSource string

// Built-in family names.
const (
	Fill   = "fill"
	Line   = "line"
	Symbol = "symbol"
)

// Property orders of the built-in families. Bit i of a variant mask refers
// to entry i; every caller must use these orders.
var (
	FillProperties   = []string{"color", "opacity"}
	LineProperties   = []string{"color", "opacity", "width"}
	SymbolProperties = []string{"opacity", "fill_color"}
)

// Primary attributes of the built-in families.
const (
	FillPrimaryAttribute   = "a_pos"
	LinePrimaryAttribute   = "a_pos_normal"
	SymbolPrimaryAttribute = "a_pos_offset"
)

// Builtin returns the embedded sources of a built-in family.
func Builtin(family string) (shadercache.Source, bool) {
	switch family {
	case Fill:
		return shadercache.Source{Name: Fill, Vertex: fillVertexSource, Fragment: fillFragmentSource}, true
	case Line:
		return shadercache.Source{Name: Line, Vertex: lineVertexSource, Fragment: lineFragmentSource}, true
	case Symbol:
		return shadercache.Source{Name: Symbol, Vertex: symbolVertexSource, Fragment: symbolFragmentSource}, true
	default:
		return shadercache.Source{}, false
	}
}

// Default returns a registry holding the built-in families for every backend.
func Default() *Registry {
	r := NewRegistry()
	for _, family := range []string{Fill, Line, Symbol} {
		src, _ := Builtin(family)
		// Built-in sources are non-empty and backend.All is valid.
		_ = r.Register(family, src, backend.All()...)
	}
	return r
}

// Promote builds the ordered property list for a family order, keeping
// only the names in enabled. The result always has len(order) entries.
//
//	source.Promote(source.FillProperties, "opacity") // ["", "opacity"]
func Promote(order []string, enabled ...string) []string {
	out := make([]string, len(order))
	for i, name := range order {
		for _, e := range enabled {
			if e == name {
				out[i] = name
				break
			}
		}
	}
	return out
}
