// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"io"
	"os"
)

// Mode defines a FITS file access mode (r/w).
type Mode int

const (
	ReadOnly  Mode = Mode(os.O_RDONLY) // open the file read-only
	WriteOnly      = Mode(os.O_WRONLY) // open the file write-only
	ReadWrite      = Mode(os.O_RDWR)   // open the file read-write
)

// File represents an open FITS stream: a decoded or to-be-encoded
// sequence of HDUs plus the Options every ReadHDU/WriteHDU call runs
// under.
//
// Adapted from file.go: the teacher decodes/encodes eagerly through a
// Decoder/Encoder pair bound to an io.Reader/io.Writer; this module
// instead drives the dispatcher pair in codec.go directly, since the
// body representation (HDU.Body) no longer needs an HDU-type-specific
// concrete Go type to decode into.
type File struct {
	r    io.Reader
	w    io.Writer
	name string
	mode Mode
	hdus []*HDU
	opts Options
}

type namer interface {
	Name() string
}

// Open opens a FITS stream in read-only mode, decoding every HDU
// eagerly, the way the teacher's Open does.
func Open(r io.Reader, opts ...Option) (*File, error) {
	name := ""
	if nr, ok := r.(namer); ok {
		name = nr.Name()
	}

	f := &File{
		r:    r,
		name: name,
		mode: ReadOnly,
		hdus: make([]*HDU, 0, 1),
		opts: NewOptions(opts...),
	}

	for {
		hdu, err := ReadHDU(r, f.opts)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		f.hdus = append(f.hdus, hdu)
	}

	return f, nil
}

// Create creates a new FITS stream in write-only mode.
func Create(w io.Writer, opts ...Option) (*File, error) {
	name := ""
	if nw, ok := w.(namer); ok {
		name = nw.Name()
	}

	f := &File{
		w:    w,
		name: name,
		mode: WriteOnly,
		hdus: make([]*HDU, 0, 1),
		opts: NewOptions(opts...),
	}
	return f, nil
}

// OpenFile opens name through the named driver, decoding every HDU
// when mode permits reading.
//
// New relative to the teacher, which has no Driver registry to look
// up against; this is the entry point fits/drivers/mem exercises.
func OpenFile(driverName, name string, mode Mode, opts ...Option) (*File, error) {
	drv := Lookup(driverName)
	if drv == nil {
		return nil, fmt.Errorf("fits: unknown driver %q", driverName)
	}

	conn, err := drv.OpenFile(name, mode)
	if err != nil {
		return nil, err
	}

	f := &File{
		r:    conn,
		w:    conn,
		name: conn.Name(),
		mode: mode,
		hdus: make([]*HDU, 0, 1),
		opts: NewOptions(opts...),
	}

	if mode == ReadOnly || mode == ReadWrite {
		for {
			hdu, err := ReadHDU(conn, f.opts)
			if err != nil {
				if err == io.EOF {
					break
				}
				return nil, err
			}
			f.hdus = append(f.hdus, hdu)
		}
	}

	return f, nil
}

// Close releases resources held by a FITS stream; if the underlying
// reader/writer is a Conn, it is closed too. It does not close a plain
// io.Reader/io.Writer passed to Open/Create.
func (f *File) Close() error {
	var err error
	if c, ok := f.r.(Conn); ok {
		err = c.Close()
	} else if c, ok := f.w.(Conn); ok {
		err = c.Close()
	}
	f.r, f.w, f.hdus = nil, nil, nil
	return err
}

// Mode returns the access-mode of this FITS stream.
func (f *File) Mode() Mode { return f.mode }

// Name returns the name of the FITS stream.
func (f *File) Name() string { return f.name }

// HDUs returns every decoded (or so-far-written) Header-Data Unit.
func (f *File) HDUs() []*HDU { return f.hdus }

// HDU returns the i-th HDU.
func (f *File) HDU(i int) *HDU { return f.hdus[i] }

// Get returns the HDU named name, or nil.
func (f *File) Get(name string) *HDU {
	_, hdu := f.gethdu(name)
	return hdu
}

// Has reports whether the File has an HDU named name.
func (f *File) Has(name string) bool {
	i, _ := f.gethdu(name)
	return i >= 0
}

func (f *File) gethdu(name string) (int, *HDU) {
	for i, hdu := range f.hdus {
		if hdu.Name() == name {
			return i, hdu
		}
	}
	return -1, nil
}

// Write appends hdu to the stream: the first HDU written to an
// otherwise empty file must be a Primary, Image or Random HDU (SIMPLE is prepended if
// missing), every HDU's card deck is re-verified against its body
// before encoding (§4.5/§4.6), and the encoded form is written out
// immediately.
//
// Adapted from file.go's Write/append, generalized past the teacher's
// Image/Table-only freeze() switch to run Verify+construct uniformly
// for every HDUVariant via WriteHDU.
func (f *File) Write(hdu *HDU) error {
	if f.mode != WriteOnly && f.mode != ReadWrite {
		return fmt.Errorf("fits: file not open for write")
	}

	if len(f.hdus) == 0 {
		switch hdu.Variant {
		case Primary, Image, Random:
		default:
			return fmt.Errorf("fits: file has no primary header, create one first")
		}
		if hdu.Cards.GetDefault("SIMPLE", nil) == nil {
			hdu.Cards.Prepend(Card{Key: "SIMPLE", Value: true, Comment: "conforms to FITS standard"})
		}
	} else if _, dup := hdu.Cards.GetDefault("SIMPLE", nil).(bool); dup && hdu.Variant != Image {
		return fmt.Errorf("fits: file already has a Primary HDU")
	}

	if err := WriteHDU(f.w, hdu, f.opts); err != nil {
		return err
	}

	f.hdus = append(f.hdus, hdu)
	return nil
}
