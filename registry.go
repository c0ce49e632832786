// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/shadercache/backend"
)

// CompilerFactory creates a compiler for one backend.
type CompilerFactory func() Compiler

// registry holds compiler factories per backend.
var (
	registryMu sync.RWMutex
	compilers  = make(map[backend.Type]CompilerFactory)
)

// RegisterCompiler registers the compiler factory for a backend.
// This is typically called from init() functions in compiler packages.
// A factory already registered for the backend is replaced.
func RegisterCompiler(b backend.Type, factory CompilerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	compilers[b] = factory
}

// UnregisterCompiler removes the factory for a backend.
// This is useful for testing.
func UnregisterCompiler(b backend.Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(compilers, b)
}

// AvailableCompilers returns the backends with a registered compiler,
// in backend.All order.
func AvailableCompilers() []backend.Type {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]backend.Type, 0, len(compilers))
	for b := range compilers {
		types = append(types, b)
	}
	slices.Sort(types)
	return types
}

// NewCompiler returns a compiler for the backend selected at startup.
func NewCompiler(b backend.Type) (Compiler, error) {
	registryMu.RLock()
	factory, ok := compilers[b]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompiler, b)
	}
	c := factory()
	if c == nil {
		return nil, fmt.Errorf("%w: %v factory returned nil", ErrUnknownCompiler, b)
	}
	return c, nil
}
