// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"

	"github.com/gofits/fits/card"
)

// Options holds the Constructor/Codec's recognized configuration,
// per §4.6. Options is a plain value type: start from DefaultOptions
// and set fields directly, or build one with NewOptions and the With*
// Option functions.
type Options struct {
	// Record selects row-record body representation for Bintable/Table
	// bodies decoded by ReadHDU (a []Record) over the default column-map
	// representation. NewHDU keeps row data it is given as records
	// whatever this is set to.
	Record bool

	// Scale applies TZERO/TSCAL on read, producing physical values
	// instead of raw on-disk integers.
	Scale bool

	// Append emits CONTINUE cards for strings that overflow one card.
	Append bool

	// Fixed requests fixed-format card value alignment at render time.
	Fixed bool

	// Slash, Lpad, Rpad, Truncate are card-layout hints passed through
	// verbatim to package card's renderer.
	Slash    int
	Lpad     int
	Rpad     int
	Truncate bool

	// Warn receives non-fatal Verifier/Codec warnings (e.g. a repaired
	// NAXISn mismatch). A nil Warn discards them.
	Warn func(string)
}

// DefaultOptions returns the §4.6 defaults: scale=true, record=false,
// fixed=true, slash=32, lpad=1, rpad=1, truncate=true, append=false.
func DefaultOptions() Options {
	return Options{
		Record:   false,
		Scale:    true,
		Append:   false,
		Fixed:    true,
		Slash:    32,
		Lpad:     1,
		Rpad:     1,
		Truncate: true,
		Warn:     nil,
	}
}

func (o Options) warn(format string, args ...interface{}) {
	if o.Warn == nil {
		return
	}
	o.Warn(fmt.Sprintf(format, args...))
}

func (o Options) renderOptions() card.RenderOptions {
	return card.RenderOptions{LongString: o.Append}
}

// Option configures an Options value in place, applied in NewOptions.
type Option func(*Options)

// NewOptions builds an Options starting from DefaultOptions and
// applying each Option in order.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRecord selects row-record Bintable/Table body representation.
func WithRecord(v bool) Option { return func(o *Options) { o.Record = v } }

// WithScale toggles TZERO/TSCAL application on read.
func WithScale(v bool) Option { return func(o *Options) { o.Scale = v } }

// WithAppend toggles CONTINUE-card emission for long strings.
func WithAppend(v bool) Option { return func(o *Options) { o.Append = v } }

// WithFixed toggles fixed-format card value alignment.
func WithFixed(v bool) Option { return func(o *Options) { o.Fixed = v } }

// WithWarn installs the sink that receives Verifier/Codec warnings.
func WithWarn(fn func(string)) Option { return func(o *Options) { o.Warn = fn } }
