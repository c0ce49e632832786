// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shadercache

import (
	"log/slog"

	"github.com/gogpu/shadercache/intern"
)

// Option configures a Cache during creation.
//
// Example:
//
//	names := intern.New()
//	c, err := shadercache.New(compiler, sources,
//	    shadercache.WithInternTable(names),
//	    shadercache.WithParameters(shadercache.ProgramParameters{Label: "map"}),
//	)
type Option func(*options)

type options struct {
	names  *intern.Table
	params ProgramParameters
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		names:  nil, // a private table is created if nil
		logger: nil, // the package logger is used if nil
	}
}

// WithInternTable shares an intern table with the cache. Family and variant
// names are interned into it. Without this option the cache owns a private
// table.
func WithInternTable(t *intern.Table) Option {
	return func(o *options) {
		o.names = t
	}
}

// WithParameters sets the base program parameters passed to the compiler
// on every miss.
func WithParameters(p ProgramParameters) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithLogger sets a logger for this cache only, overriding SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
