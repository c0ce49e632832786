// Package source provides base shader sources per family and backend.
//
// Sources are WGSL for every backend: the naga compiler lowers WGSL to
// SPIR-V, MSL or GLSL. Backends are still registered separately so that a
// family can ship a backend-specific workaround.
package source

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
)

// Registry errors.
var (
	// ErrUnknownFamily is returned when no backend has sources for a family.
	ErrUnknownFamily = errors.New("source: unknown shader family")

	// ErrUnsupportedBackend is returned when a family has no sources for a backend.
	ErrUnsupportedBackend = errors.New("source: family not available for backend")

	// ErrEmptySource is returned by Register for sources missing a stage.
	ErrEmptySource = errors.New("source: vertex and fragment sources are required")
)

type key struct {
	family  string
	backend backend.Type
}

// Registry maps (family, backend) to shader sources.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[key]shadercache.Source
}

var _ shadercache.SourceRegistry = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[key]shadercache.Source),
	}
}

// Register adds src for family on the given backends. An existing entry is
// replaced. If src.Name is empty the family name is used.
func (r *Registry) Register(family string, src shadercache.Source, backends ...backend.Type) error {
	if src.Vertex == "" || src.Fragment == "" {
		return fmt.Errorf("%w: family %q", ErrEmptySource, family)
	}
	if src.Name == "" {
		src.Name = family
	}
	for _, b := range backends {
		if !b.Valid() {
			return fmt.Errorf("%w: %v", backend.ErrUnknown, b)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range backends {
		r.sources[key{family, b}] = src
	}
	return nil
}

// Source returns the sources of family for backend b.
func (r *Registry) Source(family string, b backend.Type) (shadercache.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if src, ok := r.sources[key{family, b}]; ok {
		return src, nil
	}
	for k := range r.sources {
		if k.family == family {
			return shadercache.Source{}, fmt.Errorf("%w: %q on %v", ErrUnsupportedBackend, family, b)
		}
	}
	return shadercache.Source{}, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
}

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for k := range r.sources {
		seen[k.family] = struct{}{}
	}
	r.mu.RUnlock()

	families := make([]string, 0, len(seen))
	for f := range seen {
		families = append(families, f)
	}
	slices.Sort(families)
	return families
}
