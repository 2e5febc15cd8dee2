// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mem is a Driver implementation backing named FITS resources
// with in-process byte buffers instead of files. It exists to exercise
// fits.Register/fits.Driver/fits.Conn with a second implementation;
// the teacher (astrogo-fitsio) never had more than the one, implicit,
// os.File-based driver, so this is new relative to it.
package mem

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/gofits/fits"
)

// driver is the package-level Driver singleton, registered under the
// name "mem" at init time.
type driver struct {
	mu    sync.Mutex
	store map[string]*bytes.Buffer
}

func (d *driver) Name() string { return "mem" }

func (d *driver) Open(name string) (fits.Conn, error) {
	return d.OpenFile(name, fits.ReadOnly)
}

func (d *driver) OpenFile(name string, mode fits.Mode) (fits.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, ok := d.store[name]
	if !ok {
		return nil, fmt.Errorf("mem: no such resource %q", name)
	}
	return &conn{name: name, r: bytes.NewReader(buf.Bytes()), mode: mode, driver: d}, nil
}

func (d *driver) Create(name string) (fits.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := new(bytes.Buffer)
	d.store[name] = buf
	return &conn{name: name, w: buf, mode: fits.WriteOnly, driver: d}, nil
}

// conn is a Conn backed by an in-memory buffer: reads come from a
// snapshot taken at Open time, writes accumulate directly into the
// driver's named buffer.
type conn struct {
	name   string
	r      io.Reader
	w      io.Writer
	mode   fits.Mode
	driver *driver
}

func (c *conn) Name() string { return c.name }

func (c *conn) Read(p []byte) (int, error) {
	if c.r == nil {
		return 0, fmt.Errorf("mem: resource %q not open for read", c.name)
	}
	return c.r.Read(p)
}

func (c *conn) Write(p []byte) (int, error) {
	if c.w == nil {
		return 0, fmt.Errorf("mem: resource %q not open for write", c.name)
	}
	return c.w.Write(p)
}

func (c *conn) Close() error { return nil }

// Put seeds name's contents directly, bypassing fits.Create/Write; it
// is the way tests and callers stage a FITS stream to be opened with
// fits.OpenFile("mem", name, fits.ReadOnly).
func Put(name string, data []byte) {
	d := instance
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store[name] = bytes.NewBuffer(append([]byte(nil), data...))
}

// Get returns a copy of name's current contents, or nil if unknown.
func Get(name string) []byte {
	d := instance
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.store[name]
	if !ok {
		return nil
	}
	return append([]byte(nil), buf.Bytes()...)
}

var instance = &driver{store: make(map[string]*bytes.Buffer)}

func init() {
	fits.Register(instance)
}
