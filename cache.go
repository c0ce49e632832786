// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/shadercache/intern"
	"github.com/gogpu/shadercache/variant"
)

// Cache maps shader variants to compiled programs.
//
// Compiling a program is expensive, so each variant is compiled at most once
// and the program is kept for the lifetime of the cache. There is no
// eviction: programs are released only by Clear or Destroy.
//
// Thread Safety:
// Cache is safe for concurrent use. Hits take a read lock only. Misses are
// deduplicated per variant name, so concurrent requests for the same
// variant wait for a single compilation and observe the same Program, while
// misses on different variants compile in parallel.
type Cache struct {
	// mu protects programs and destroyed.
	mu sync.RWMutex

	// programs stores compiled programs indexed by variant name.
	programs map[string]*entry

	destroyed bool

	// flights holds one in-flight compilation per variant name.
	flights singleflight.Group

	compiler Compiler
	sources  SourceRegistry
	names    *intern.Table
	params   ProgramParameters
	logger   *slog.Logger

	hits     atomic.Uint64
	misses   atomic.Uint64
	compiles atomic.Uint64
}

type entry struct {
	program Program
	name    intern.Identity
	family  intern.Identity
}

// Stats is a snapshot of cache counters.
type Stats struct {
	// Hits counts requests served from the cache.
	Hits uint64

	// Misses counts requests that had to build a program, successfully or not.
	Misses uint64

	// Compiles counts compiler invocations.
	Compiles uint64
}

// New creates an empty cache that builds programs with compiler from the
// sources in registry.
func New(compiler Compiler, sources SourceRegistry, opts ...Option) (*Cache, error) {
	if compiler == nil {
		return nil, ErrNilCompiler
	}
	if sources == nil {
		return nil, ErrNilSources
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.names == nil {
		o.names = intern.New()
	}

	return &Cache{
		programs: make(map[string]*entry),
		compiler: compiler,
		sources:  sources,
		names:    o.names,
		params:   o.params,
		logger:   o.logger,
	}, nil
}

func (c *Cache) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// GetOrCreateShader returns the program for family with the given
// properties promoted to uniforms, compiling it on first use.
//
// properties must use the same ordering and length for a family on every
// call: entry i controls bit i of the variant mask. primaryAttribute names
// the vertex attribute used as the binding anchor while linking.
//
// dev is borrowed for this call only.
//
// On a hit the existing program is returned with no side effects. On a miss
// the family sources are fetched, the compiler is invoked with the
// synthesized defines and the new program is registered. A failure is
// returned as *CompilationError or *RegistrationError naming the variant.
func (c *Cache) GetOrCreateShader(
	dev Device,
	family string,
	properties []string,
	primaryAttribute string,
) (Program, error) {
	mask, err := variant.MaskOf(properties)
	if err != nil {
		return nil, &CompilationError{Variant: family, Err: err}
	}
	name := variant.Key{Family: family, Mask: mask}.Name()

	// Fast path: read lock
	c.mu.RLock()
	if c.destroyed {
		c.mu.RUnlock()
		return nil, ErrDestroyed
	}
	if e, ok := c.programs[name]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return e.program, nil
	}
	c.mu.RUnlock()

	// Slow path: one flight per variant name
	v, err, _ := c.flights.Do(name, func() (any, error) {
		return c.create(dev, family, properties, primaryAttribute)
	})
	if err != nil {
		return nil, err
	}
	return v.(Program), nil
}

// create builds and registers one variant. It runs inside a flight, so at
// most one create per variant name is active at a time.
func (c *Cache) create(dev Device, family string, properties []string, primaryAttribute string) (Program, error) {
	v, err := variant.Derive(family, properties)
	if err != nil {
		return nil, &CompilationError{Variant: family, Err: err}
	}

	// Double-check: a previous flight may have registered the variant
	// between our fast-path miss and the start of this flight.
	c.mu.RLock()
	if e, ok := c.programs[v.Name]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return e.program, nil
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	log := c.log()

	src, err := c.sources.Source(family, c.compiler.Backend())
	if err != nil {
		log.Warn("shadercache: shader source unavailable",
			"variant", v.Name, "backend", c.compiler.Backend(), "err", err)
		return nil, &CompilationError{Variant: v.Name, Err: err}
	}

	req := &CompileRequest{
		Parameters:       c.params,
		VariantName:      v.Name,
		PrimaryAttribute: primaryAttribute,
		Source:           src,
		Defines:          v.Defines,
	}

	start := time.Now()
	program, err := c.compiler.Compile(dev, req)
	c.compiles.Add(1)
	if err != nil {
		log.Warn("shadercache: compile failed", "variant", v.Name, "err", err)
		return nil, &CompilationError{Variant: v.Name, Err: err}
	}
	if program == nil {
		return nil, &CompilationError{Variant: v.Name, Err: ErrNilProgram}
	}
	log.Debug("shadercache: compiled variant",
		"variant", v.Name,
		"mask", uint32(v.Mask),
		"backend", c.compiler.Backend(),
		"elapsed", time.Since(start))

	if err := c.register(v.Name, family, program); err != nil {
		program.Destroy()
		log.Warn("shadercache: registration failed", "variant", v.Name, "err", err)
		return nil, err
	}
	return program, nil
}

// register inserts program under name. It fails if the name is taken by a
// different program or the cache was destroyed.
func (c *Cache) register(name, family string, program Program) error {
	nameID := c.names.Intern(name)
	familyID := c.names.Intern(family)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}
	if e, ok := c.programs[name]; ok {
		if e.program == program {
			return nil
		}
		return &RegistrationError{Variant: name}
	}
	c.programs[name] = &entry{program: program, name: nameID, family: familyID}
	return nil
}

// Register adds an externally built program under name, e.g. a fallback
// shader or one restored from a binary cache. It returns *RegistrationError
// if name already holds a different program. Registering the same program
// twice is a no-op.
//
// The cache takes ownership: the program is destroyed by Clear or Destroy.
func (c *Cache) Register(name string, program Program) error {
	if program == nil {
		return ErrNilProgram
	}
	family := name
	if i := strings.LastIndexByte(name, '#'); i >= 0 {
		family = name[:i]
	}
	if err := c.register(name, family, program); err != nil {
		return err
	}
	c.log().Debug("shadercache: registered program", "variant", name)
	return nil
}

// Get returns the program registered under a variant name.
func (c *Cache) Get(name string) (Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.programs[name]
	if !ok {
		return nil, false
	}
	return e.program, true
}

// GetAs returns the program registered under name if it has concrete type T.
func GetAs[T Program](c *Cache, name string) (T, bool) {
	var zero T
	p, ok := c.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := p.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// NameID returns the interned identity of a registered variant name and of
// its family.
func (c *Cache) NameID(name string) (nameID, familyID intern.Identity, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.programs[name]
	if !ok {
		return 0, 0, false
	}
	return e.name, e.family, true
}

// Names returns the registered variant names, sorted.
func (c *Cache) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.programs))
	for name := range c.programs {
		names = append(names, name)
	}
	c.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Size returns the number of registered programs.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.programs)
}

// InternTable returns the table the cache interns names into.
func (c *Cache) InternTable() *intern.Table {
	return c.names
}

// Compiler returns the compiler the cache builds programs with.
func (c *Cache) Compiler() Compiler {
	return c.compiler
}

// Stats returns the cache counters.
// The values are read atomically and may not be perfectly synchronized.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Compiles: c.compiles.Load(),
	}
}

// HitRate returns the cache hit rate (0.0 to 1.0).
// Returns 0.0 if no requests have been made.
func (c *Cache) HitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Clear destroys every cached program and resets statistics.
// The cache stays usable; later requests compile again.
func (c *Cache) Clear() {
	c.mu.Lock()
	programs := c.programs
	c.programs = make(map[string]*entry)
	c.mu.Unlock()

	for _, e := range programs {
		e.program.Destroy()
	}
	c.hits.Store(0)
	c.misses.Store(0)
	c.compiles.Store(0)
}

// Destroy releases every cached program. Subsequent requests fail with
// ErrDestroyed. Destroy is idempotent.
func (c *Cache) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	programs := c.programs
	c.programs = make(map[string]*entry)
	c.mu.Unlock()

	for _, e := range programs {
		e.program.Destroy()
	}
	c.log().Info("shadercache: cache destroyed", "programs", len(programs))
}

// String implements fmt.Stringer for debugging.
func (c *Cache) String() string {
	s := c.Stats()
	return fmt.Sprintf("shadercache.Cache{backend: %v, programs: %d, hits: %d, misses: %d}",
		c.compiler.Backend(), c.Size(), s.Hits, s.Misses)
}
