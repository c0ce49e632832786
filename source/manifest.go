package source

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
)

// ErrInvalidManifest is returned for manifests that parse but are incomplete.
var ErrInvalidManifest = errors.New("source: invalid manifest")

// Manifest describes shader families stored as files.
//
//	families:
//	  fill:
//	    vertex: fill.vert.wgsl
//	    fragment: fill.frag.wgsl
//	  hillshade:
//	    vertex: hillshade.vert.wgsl
//	    fragment: hillshade.frag.wgsl
//	    backends: [vulkan, metal]
//
// Paths are relative to the manifest's directory. A family without a
// backends list is registered for every backend.
type Manifest struct {
	Families map[string]FamilyEntry `yaml:"families"`
}

// FamilyEntry is one family in a Manifest.
type FamilyEntry struct {
	Name     string   `yaml:"name,omitempty"`
	Vertex   string   `yaml:"vertex"`
	Fragment string   `yaml:"fragment"`
	Backends []string `yaml:"backends,omitempty"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("source: parse manifest: %w", err)
	}
	if len(m.Families) == 0 {
		return nil, fmt.Errorf("%w: no families", ErrInvalidManifest)
	}
	for family, e := range m.Families {
		if e.Vertex == "" || e.Fragment == "" {
			return nil, fmt.Errorf("%w: family %q needs vertex and fragment", ErrInvalidManifest, family)
		}
	}
	return &m, nil
}

// LoadManifest reads the manifest at name in fsys and every shader file it
// references, and returns a registry holding them.
func LoadManifest(fsys fs.FS, name string) (*Registry, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("source: read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	dir := path.Dir(name)
	r := NewRegistry()
	for family, e := range m.Families {
		backends := backend.All()
		if len(e.Backends) > 0 {
			backends = backends[:0:0]
			for _, s := range e.Backends {
				b, err := backend.Parse(s)
				if err != nil {
					return nil, fmt.Errorf("source: family %q: %w", family, err)
				}
				backends = append(backends, b)
			}
		}

		vert, err := fs.ReadFile(fsys, path.Join(dir, e.Vertex))
		if err != nil {
			return nil, fmt.Errorf("source: family %q: %w", family, err)
		}
		frag, err := fs.ReadFile(fsys, path.Join(dir, e.Fragment))
		if err != nil {
			return nil, fmt.Errorf("source: family %q: %w", family, err)
		}

		src := shadercache.Source{Name: e.Name, Vertex: string(vert), Fragment: string(frag)}
		if err := r.Register(family, src, backends...); err != nil {
			return nil, err
		}
	}

	shadercache.Logger().Debug("source: loaded manifest", "path", name, "families", len(m.Families))
	return r, nil
}
