// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"encoding/binary"
	"io"
	"math"
)

// blockSize is the FITS physical block size: every header block and
// every data segment is padded out to a multiple of 2880 bytes.
const blockSize = 2880

// cardSize is the width of one header card line.
const cardSize = 80

// alignBlock returns sz rounded up to the next multiple of blockSize.
func alignBlock(sz int) int {
	return sz + padBlock(sz)
}

// padBlock returns the number of padding bytes needed to align sz to
// blockSize.
func padBlock(sz int) int {
	return (blockSize - (sz % blockSize)) % blockSize
}

// reader wraps an io.Reader with big-endian primitive decoders for
// every ElemType, replacing the teacher's generated newReader (whose
// source, gen-arraytypes.go, never shipped with this retrieval: the
// cases below are hand-written from the same scalar pattern as
// binary.go's readI16/readI32/...).
type reader struct {
	r io.Reader
}

func newReader(r io.Reader) *reader { return &reader{r: r} }

func (d *reader) readFull(buf []byte) error {
	_, err := io.ReadFull(d.r, buf)
	return err
}

func (d *reader) readUint8(v *uint8) error {
	var buf [1]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = buf[0]
	return nil
}

func (d *reader) readBool(v *bool) error {
	var b uint8
	if err := d.readUint8(&b); err != nil {
		return err
	}
	*v = b == 'T'
	return nil
}

func (d *reader) readInt16(v *int16) error {
	var buf [2]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = int16(binary.BigEndian.Uint16(buf[:]))
	return nil
}

func (d *reader) readInt32(v *int32) error {
	var buf [4]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = int32(binary.BigEndian.Uint32(buf[:]))
	return nil
}

func (d *reader) readInt64(v *int64) error {
	var buf [8]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = int64(binary.BigEndian.Uint64(buf[:]))
	return nil
}

func (d *reader) readFloat32(v *float32) error {
	var buf [4]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = math.Float32frombits(binary.BigEndian.Uint32(buf[:]))
	return nil
}

func (d *reader) readFloat64(v *float64) error {
	var buf [8]byte
	if err := d.readFull(buf[:]); err != nil {
		return err
	}
	*v = math.Float64frombits(binary.BigEndian.Uint64(buf[:]))
	return nil
}

func (d *reader) readComplex64(v *complex64) error {
	var re, im float32
	if err := d.readFloat32(&re); err != nil {
		return err
	}
	if err := d.readFloat32(&im); err != nil {
		return err
	}
	*v = complex(re, im)
	return nil
}

func (d *reader) readComplex128(v *complex128) error {
	var re, im float64
	if err := d.readFloat64(&re); err != nil {
		return err
	}
	if err := d.readFloat64(&im); err != nil {
		return err
	}
	*v = complex(re, im)
	return nil
}

// readString reads an n-byte space-padded ASCII field and trims
// trailing blanks, the on-disk form of a binary-table 'A' column.
func (d *reader) readString(n int) (string, error) {
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return "", err
	}
	end := n
	for end > 0 && buf[end-1] == ' ' {
		end--
	}
	return string(buf[:end]), nil
}

// readElem reads one element of the given type into a generic value,
// the reflective fallback used by the array/record codecs for types
// not worth a dedicated typed loop.
func (d *reader) readElem(t ElemType) (interface{}, error) {
	switch t {
	case TypeUint8:
		var v uint8
		return v, d.readUint8(&v)
	case TypeBool:
		var v bool
		return v, d.readBool(&v)
	case TypeInt16:
		var v int16
		return v, d.readInt16(&v)
	case TypeInt32:
		var v int32
		return v, d.readInt32(&v)
	case TypeInt64:
		var v int64
		return v, d.readInt64(&v)
	case TypeFloat32:
		var v float32
		return v, d.readFloat32(&v)
	case TypeFloat64:
		var v float64
		return v, d.readFloat64(&v)
	case TypeComplex64:
		var v complex64
		return v, d.readComplex64(&v)
	case TypeComplex128:
		var v complex128
		return v, d.readComplex128(&v)
	default:
		return nil, &MalformedFieldError{Reason: "unsupported element type for readElem: " + t.String()}
	}
}

// writer wraps an io.Writer with big-endian primitive encoders for
// every ElemType, the write-side counterpart of reader.
type writer struct {
	w io.Writer
}

func newWriter(w io.Writer) *writer { return &writer{w: w} }

func (e *writer) writeUint8(v uint8) error {
	_, err := e.w.Write([]byte{v})
	return err
}

func (e *writer) writeBool(v bool) error {
	if v {
		return e.writeUint8('T')
	}
	return e.writeUint8('F')
}

func (e *writer) writeInt16(v int16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	_, err := e.w.Write(buf[:])
	return err
}

func (e *writer) writeInt32(v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := e.w.Write(buf[:])
	return err
}

func (e *writer) writeInt64(v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := e.w.Write(buf[:])
	return err
}

func (e *writer) writeFloat32(v float32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := e.w.Write(buf[:])
	return err
}

func (e *writer) writeFloat64(v float64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := e.w.Write(buf[:])
	return err
}

func (e *writer) writeComplex64(v complex64) error {
	if err := e.writeFloat32(real(v)); err != nil {
		return err
	}
	return e.writeFloat32(imag(v))
}

func (e *writer) writeComplex128(v complex128) error {
	if err := e.writeFloat64(real(v)); err != nil {
		return err
	}
	return e.writeFloat64(imag(v))
}

// writeString writes s left-justified and space-padded to n bytes,
// truncating if s is longer than n.
func (e *writer) writeString(s string, n int) error {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, s)
	_, err := e.w.Write(buf)
	return err
}

// writeElem writes one element of the given type from a generic
// value, the reflective fallback counterpart of readElem.
func (e *writer) writeElem(t ElemType, v interface{}) error {
	switch t {
	case TypeUint8:
		return e.writeUint8(v.(uint8))
	case TypeBool:
		return e.writeBool(v.(bool))
	case TypeInt16:
		return e.writeInt16(v.(int16))
	case TypeInt32:
		return e.writeInt32(v.(int32))
	case TypeInt64:
		return e.writeInt64(v.(int64))
	case TypeFloat32:
		return e.writeFloat32(v.(float32))
	case TypeFloat64:
		return e.writeFloat64(v.(float64))
	case TypeComplex64:
		return e.writeComplex64(v.(complex64))
	case TypeComplex128:
		return e.writeComplex128(v.(complex128))
	default:
		return &MalformedFieldError{Reason: "unsupported element type for writeElem: " + t.String()}
	}
}

// writePad writes n zero bytes, used to complete a data segment out
// to its block-aligned size.
func writePad(w io.Writer, n int) error {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	_, err := w.Write(buf)
	return err
}

// skip discards n bytes from r, used to step over a segment's padding
// on read.
func skip(r io.Reader, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}
