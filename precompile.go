// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// PrecompileRequest names one variant to build ahead of the first draw.
type PrecompileRequest struct {
	Family           string
	Properties       []string
	PrimaryAttribute string
}

// Precompile builds the requested variants concurrently so that the first
// frames do not stall on compilation. Variants already cached are skipped
// by the regular hit path.
//
// Precompile blocks until every request has finished and returns the first
// error encountered; remaining requests still run to completion. No
// goroutine outlives the call.
//
// Concurrency is bounded by GOMAXPROCS. Compilers that require a single
// rendering thread must not be used with Precompile.
func (c *Cache) Precompile(dev Device, requests []PrecompileRequest) error {
	if len(requests) == 0 {
		return nil
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, req := range requests {
		g.Go(func() error {
			_, err := c.GetOrCreateShader(dev, req.Family, req.Properties, req.PrimaryAttribute)
			return err
		})
	}

	err := g.Wait()
	c.log().Info("shadercache: precompiled variants",
		"requests", len(requests),
		"programs", c.Size(),
		"elapsed", time.Since(start),
		"failed", err != nil)
	return err
}
