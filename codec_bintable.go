// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"bytes"
	"fmt"
	"io"
)

// readBintableBody decodes a Bintable body: the fixed-width record area, then the heap carrying
// variable-length array payloads, per §4.7's heap rule.
//
// Grounded on column.go's readBin (pointer-descriptor-then-heap-slice
// pattern) and decode.go's loadTable.
func readBintableBody(r io.Reader, df DataFormat, fields []BinaryField, opts Options) (Body, error) {
	nrows := 0
	recLen := 0
	if len(df.Shape) >= 2 {
		recLen, nrows = df.Shape[0], df.Shape[1]
	}
	mainSize := recLen * nrows
	gap := df.Heap - mainSize
	if gap < 0 {
		gap = 0
	}
	heapSize := df.Param - gap
	if heapSize < 0 {
		heapSize = 0
	}

	main := make([]byte, mainSize)
	if mainSize > 0 {
		if _, err := io.ReadFull(r, main); err != nil {
			return Body{}, &StreamError{Op: "read bintable rows", Err: err}
		}
	}
	if err := skip(r, gap); err != nil {
		return Body{}, &StreamError{Op: "skip heap gap", Err: err}
	}
	heap := make([]byte, heapSize)
	if heapSize > 0 {
		if _, err := io.ReadFull(r, heap); err != nil {
			return Body{}, &StreamError{Op: "read bintable heap", Err: err}
		}
	}
	if err := skip(r, padBlock(mainSize+df.Param)); err != nil {
		return Body{}, &StreamError{Op: "skip bintable pad", Err: err}
	}

	if opts.Record {
		records := make([]Record, nrows)
		for i := 0; i < nrows; i++ {
			rec, err := decodeRow(main[i*recLen:(i+1)*recLen], heap, fields, opts)
			if err != nil {
				return Body{}, err
			}
			records[i] = rec
		}
		return Body{Kind: BodyRecords, Records: records}, nil
	}

	cols := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		col := make([]interface{}, nrows)
		for i := 0; i < nrows; i++ {
			v, err := decodeField(main[i*recLen:(i+1)*recLen], heap, f, opts)
			if err != nil {
				return Body{}, err
			}
			col[i] = v
		}
		cols[f.Name] = col
	}
	return Body{Kind: BodyColumns, Columns: cols}, nil
}

func decodeRow(row, heap []byte, fields []BinaryField, opts Options) (Record, error) {
	rec := make(Record, len(fields))
	for _, f := range fields {
		v, err := decodeField(row, heap, f, opts)
		if err != nil {
			return nil, err
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// decodeField decodes one field's value out of one record's bytes,
// dereferencing through the heap for a variable-length column.
func decodeField(row, heap []byte, f BinaryField, opts Options) (interface{}, error) {
	slice := row[f.Slice.Begin-1 : f.Slice.End-1]

	if f.Pntr != NoPointer {
		rr := newReader(bytes.NewReader(slice))
		var count, offset int64
		switch f.Pntr {
		case PointerUint32:
			var c, o int32
			if err := rr.readInt32(&c); err != nil {
				return nil, err
			}
			if err := rr.readInt32(&o); err != nil {
				return nil, err
			}
			count, offset = int64(c), int64(o)
		case PointerUint64:
			if err := rr.readInt64(&count); err != nil {
				return nil, err
			}
			if err := rr.readInt64(&offset); err != nil {
				return nil, err
			}
		}
		if f.Type == TypeBit {
			nbytes := int((count + 7) / 8)
			payload := heap[offset : offset+int64(nbytes)]
			return UnpackBits(payload, int(count)), nil
		}
		width := f.Type.Size()
		payload := heap[offset : offset+count*int64(width)]
		return decodeArray(payload, f.Type, int(count), f, opts)
	}

	if f.Type == TypeString {
		rr := newReader(bytes.NewReader(slice))
		s, err := rr.readString(f.Leng)
		return s, err
	}
	if f.Type == TypeBit {
		return UnpackBits(slice, f.Leng), nil
	}

	return decodeArray(slice, f.Type, f.Leng, f, opts)
}

func decodeArray(buf []byte, t ElemType, n int, f BinaryField, opts Options) (interface{}, error) {
	rr := newReader(bytes.NewReader(buf))
	if n == 1 && f.Pntr == NoPointer {
		v, err := rr.readElem(t)
		if err != nil {
			return nil, err
		}
		return scaleValue(v, f, opts), nil
	}
	out := make([]interface{}, n)
	for i := 0; i < n; i++ {
		v, err := rr.readElem(t)
		if err != nil {
			return nil, err
		}
		out[i] = scaleValue(v, f, opts)
	}
	return out, nil
}

// scaleValue applies the field's TZERO/TSCAL linear transform when
// Options.Scale requests physical values, per §4.4/§7's scale/zero
// asymmetry note: scaling only ever happens on read. An identity
// transform (zero 0, scale 1) leaves the raw value and its type as is.
func scaleValue(v interface{}, f BinaryField, opts Options) interface{} {
	if !opts.Scale || !f.HasZero {
		return v
	}
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	if f.Zero == 0 && scale == 1 {
		return v
	}
	return f.Zero + scale*asFloat(v)
}

// writeBintableBody encodes a Bintable body to w, building the heap as
// it goes for variable-length columns, and returns the DataFormat the
// Verifier should reconcile the header against (Param/Heap reflect the
// actual heap layout just computed).
//
// Grounded on column.go's writeBin heap-append logic and table.go's
// freeze (PCOUNT = heap byte size).
func writeBintableBody(w io.Writer, fields []BinaryField, body Body, opts Options) (DataFormat, error) {
	recLen := RecordWidth(fields)
	var rows []Record
	switch body.Kind {
	case BodyRecords:
		rows = body.Records
	case BodyColumns:
		rows = columnsToRecords(fields, body.Columns)
	}

	main := bytes.NewBuffer(nil)
	heap := bytes.NewBuffer(nil)

	for _, rec := range rows {
		row := make([]byte, recLen)
		for _, f := range fields {
			if err := encodeField(row, heap, f, rec[f.Name]); err != nil {
				return DataFormat{}, err
			}
		}
		main.Write(row)
	}

	mainSize := main.Len()
	heapSize := heap.Len()

	if _, err := w.Write(main.Bytes()); err != nil {
		return DataFormat{}, &StreamError{Op: "write bintable rows", Err: err}
	}
	if _, err := w.Write(heap.Bytes()); err != nil {
		return DataFormat{}, &StreamError{Op: "write bintable heap", Err: err}
	}
	if err := writePad(w, padBlock(mainSize+heapSize)); err != nil {
		return DataFormat{}, err
	}

	df := DataFormat{
		Type:  TypeUint8,
		Shape: []int{recLen, len(rows)},
		Param: heapSize,
		Group: 1,
		Heap:  mainSize,
	}
	df.Leng = df.NumElems()
	return df, nil
}

func columnsToRecords(fields []BinaryField, cols map[string]interface{}) []Record {
	nrows := 0
	for _, f := range fields {
		if col, ok := cols[f.Name]; ok {
			nrows = reflectLen(col)
			break
		}
	}
	rows := make([]Record, nrows)
	for i := range rows {
		rec := make(Record, len(fields))
		for _, f := range fields {
			col := cols[f.Name]
			rec[f.Name] = reflectIndex(col, i)
		}
		rows[i] = rec
	}
	return rows
}

func encodeField(row []byte, heap *bytes.Buffer, f BinaryField, v interface{}) error {
	slice := row[f.Slice.Begin-1 : f.Slice.End-1]

	if f.Pntr != NoPointer {
		arr := toInterfaceSlice(v)
		offset := int64(heap.Len())
		if f.Type == TypeBit {
			bits, _ := v.([]bool)
			heap.Write(PackBits(bits))
			return writePointer(slice, f.Pntr, int64(len(bits)), offset)
		}
		ew := newWriter(heap)
		for _, elem := range arr {
			if err := ew.writeElem(f.Type, elem); err != nil {
				return err
			}
		}
		return writePointer(slice, f.Pntr, int64(len(arr)), offset)
	}

	if f.Type == TypeString {
		s, _ := v.(string)
		ew := newWriter(newSliceWriter(slice))
		return ew.writeString(s, f.Leng)
	}
	if f.Type == TypeBit {
		bits, _ := v.([]bool)
		packed := PackBits(bits)
		copy(slice, packed)
		return nil
	}

	if f.Leng == 1 {
		ew := newWriter(newSliceWriter(slice))
		return ew.writeElem(f.Type, v)
	}
	arr := toInterfaceSlice(v)
	ew := newWriter(newSliceWriter(slice))
	for _, elem := range arr {
		if err := ew.writeElem(f.Type, elem); err != nil {
			return err
		}
	}
	return nil
}

func writePointer(slice []byte, pntr PointerType, count, offset int64) error {
	ew := newWriter(newSliceWriter(slice))
	switch pntr {
	case PointerUint32:
		if err := ew.writeInt32(int32(count)); err != nil {
			return err
		}
		return ew.writeInt32(int32(offset))
	case PointerUint64:
		if err := ew.writeInt64(count); err != nil {
			return err
		}
		return ew.writeInt64(offset)
	}
	return fmt.Errorf("fits: invalid pointer type")
}

// sliceWriter is an io.Writer over a fixed, pre-sized byte slice,
// advancing its own cursor across successive Write calls; used to let
// writer (designed for streams) fill a field's exact byte range in
// place, one element at a time, without each element overwriting the
// last.
type sliceWriter struct {
	buf *[]byte
}

func newSliceWriter(buf []byte) sliceWriter {
	return sliceWriter{buf: &buf}
}

func (s sliceWriter) Write(p []byte) (int, error) {
	n := copy(*s.buf, p)
	*s.buf = (*s.buf)[n:]
	return n, nil
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch x := v.(type) {
	case []interface{}:
		return x
	case nil:
		return nil
	default:
		return []interface{}{x}
	}
}

func reflectLen(v interface{}) int {
	switch x := v.(type) {
	case []interface{}:
		return len(x)
	case []string:
		return len(x)
	case [][]bool:
		return len(x)
	default:
		return 0
	}
}

func reflectIndex(v interface{}, i int) interface{} {
	switch x := v.(type) {
	case []interface{}:
		if i < len(x) {
			return x[i]
		}
	case []string:
		if i < len(x) {
			return x[i]
		}
	case [][]bool:
		if i < len(x) {
			return x[i]
		}
	}
	return nil
}
