// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"io"
)

var drivers map[string]Driver

// Driver opens named FITS resources for reading and/or writing. It is
// a thin, FITS-agnostic registration surface, kept from the teacher
// unchanged in shape; fits/drivers/mem is the second implementation
// this module adds to exercise it (the teacher only ever had one,
// implicit, OS-file driver).
type Driver interface {
	// Open opens an already existing resource for reading.
	Open(name string) (Conn, error)

	// OpenFile opens an already existing resource for reading and/or
	// writing.
	OpenFile(name string, mode Mode) (Conn, error)

	// Create creates a new resource for writing.
	Create(name string) (Conn, error)

	// Name returns the name of the Driver.
	Name() string
}

// Conn is a generic connection to a FITS resource.
type Conn interface {
	Name() string
	io.Reader
	io.Writer
	io.Closer
}

// Register makes a FITS driver available under its own Name().
// Register panics if called twice with the same name or with a nil
// driver.
func Register(driver Driver) {
	if driver == nil {
		panic(fmt.Errorf("fits: Register: nil driver"))
	}

	name := driver.Name()
	if _, dup := drivers[name]; dup {
		panic(fmt.Errorf("fits: Register: duplicate driver [%s]", name))
	}

	drivers[name] = driver
}

// Lookup returns the driver registered under name, or nil.
func Lookup(name string) Driver {
	return drivers[name]
}

func init() {
	drivers = make(map[string]Driver, 1)
}
