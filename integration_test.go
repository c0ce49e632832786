package shadercache_test

import (
	"sync"
	"testing"

	"github.com/gogpu/shadercache"
	"github.com/gogpu/shadercache/backend"
	"github.com/gogpu/shadercache/compiler"
	"github.com/gogpu/shadercache/intern"
	"github.com/gogpu/shadercache/source"
)

// newEngineCache wires the cache to the naga compiler and the built-in
// sources, sharing one intern table between them.
func newEngineCache(t *testing.T, b backend.Type) (*shadercache.Cache, *intern.Table) {
	t.Helper()
	names := intern.New()
	c, err := compiler.New(b, compiler.WithInternTable(names))
	if err != nil {
		t.Fatalf("compiler.New failed: %v", err)
	}
	cache, err := shadercache.New(c, source.Default(), shadercache.WithInternTable(names))
	if err != nil {
		t.Fatalf("shadercache.New failed: %v", err)
	}
	t.Cleanup(cache.Destroy)
	return cache, names
}

func TestEngineCacheBuiltinFamilies(t *testing.T) {
	families := []struct {
		family  string
		order   []string
		primary string
	}{
		{source.Fill, source.FillProperties, source.FillPrimaryAttribute},
		{source.Line, source.LineProperties, source.LinePrimaryAttribute},
		{source.Symbol, source.SymbolProperties, source.SymbolPrimaryAttribute},
	}

	for _, b := range backend.All() {
		t.Run(b.String(), func(t *testing.T) {
			cache, names := newEngineCache(t, b)
			for _, f := range families {
				props := source.Promote(f.order, f.order[0])
				p, err := cache.GetOrCreateShader(nil, f.family, props, f.primary)
				if err != nil {
					t.Fatalf("%s: %v", f.family, err)
				}

				prog, ok := shadercache.GetAs[*compiler.Program](cache, p.Name())
				if !ok {
					t.Fatalf("%s: program has type %T", f.family, p)
				}
				if prog.Backend() != b {
					t.Errorf("%s: Backend() = %v, want %v", f.family, prog.Backend(), b)
				}
				if prog.Anchor == nil || prog.Anchor.Name != f.primary {
					t.Errorf("%s: anchor = %+v, want %s", f.family, prog.Anchor, f.primary)
				}

				// The promoted property is a uniform, not a vertex input.
				promoted := names.Intern("a_" + f.order[0])
				if _, ok := prog.Attribute(promoted); ok {
					t.Errorf("%s: a_%s still a vertex input", f.family, f.order[0])
				}
			}
			if cache.Size() != len(families) {
				t.Errorf("Size() = %d, want %d", cache.Size(), len(families))
			}
		})
	}
}

func TestEngineCacheConcurrentSingleCompile(t *testing.T) {
	cache, _ := newEngineCache(t, backend.OpenGL)

	const n = 16
	var wg sync.WaitGroup
	programs := make([]shadercache.Program, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := cache.GetOrCreateShader(nil, source.Line, source.LineProperties, source.LinePrimaryAttribute)
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			programs[i] = p
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if programs[i] != programs[0] {
			t.Fatalf("call %d observed a different program", i)
		}
	}
	if got := cache.Stats().Compiles; got != 1 {
		t.Errorf("Compiles = %d, want 1", got)
	}
	if programs[0].Name() != "line#7" {
		t.Errorf("Name() = %q, want line#7", programs[0].Name())
	}
}

func TestEngineCachePrecompile(t *testing.T) {
	cache, _ := newEngineCache(t, backend.Metal)

	var reqs []shadercache.PrecompileRequest
	for mask := 0; mask < 4; mask++ {
		props := make([]string, 2)
		for i := range props {
			if mask&(1<<i) != 0 {
				props[i] = source.FillProperties[i]
			}
		}
		reqs = append(reqs, shadercache.PrecompileRequest{
			Family:           source.Fill,
			Properties:       props,
			PrimaryAttribute: source.FillPrimaryAttribute,
		})
	}
	if err := cache.Precompile(nil, reqs); err != nil {
		t.Fatalf("Precompile failed: %v", err)
	}

	want := []string{"fill#0", "fill#1", "fill#2", "fill#3"}
	got := cache.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEngineCacheCompilerRegistry(t *testing.T) {
	for _, b := range backend.All() {
		c, err := shadercache.NewCompiler(b)
		if err != nil {
			t.Fatalf("NewCompiler(%v): %v", b, err)
		}
		cache, err := shadercache.New(c, source.Default())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := cache.GetOrCreateShader(nil, source.Symbol, nil, source.SymbolPrimaryAttribute); err != nil {
			t.Errorf("%v: %v", b, err)
		}
		cache.Destroy()
	}
}
