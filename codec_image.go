// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gonuts/binary"
)

// imageCodec wires github.com/gonuts/binary's big-endian encoder/
// decoder for whole-array Primary/Image/Random bodies, the same
// library the teacher leans on in image.go, used here for both
// directions and for the per-group loop Random-groups needs.
type imageCodec struct{}

// readArray decodes df.NumElems() elements of df.Type from r into a
// flat Go slice, per §4.7's image-body rule, then discards the
// trailing block padding.
//
// Grounded on image.go's Read (bitpix switch over gonuts/binary.Decode)
// and decode.go's loadImage padding step.
func (imageCodec) readArray(r io.Reader, df DataFormat) (*ArrayData, error) {
	n := shapeProduct(df.Shape)
	group := df.Group
	if group == 0 {
		group = 1
	}

	raw := make([]byte, (df.Param+n)*df.Type.Size()*group)
	if len(raw) == 0 {
		return &ArrayData{}, nil
	}
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, &StreamError{Op: "read image body", Err: err}
	}

	dec := binary.NewDecoder(bytes.NewReader(raw))
	dec.Order = binary.BigEndian

	var params [][]float64
	if df.Param > 0 {
		params = make([][]float64, group)
	}

	elems, err := decodeElems(dec, df.Type, df, n, params)
	if err != nil {
		return nil, err
	}

	return &ArrayData{Elems: elems, Params: params}, nil
}

// decodeElems drains df.Group groups of (df.Param parameters + n data
// elements) of typ from dec, splitting the leading parameters (if any)
// off into params and returning the data elements as one flat slice.
func decodeElems(dec *binary.Decoder, typ ElemType, df DataFormat, n int, params [][]float64) (interface{}, error) {
	switch typ {
	case TypeUint8:
		return decodeTyped[uint8](dec, df, n, params, func(v uint8) float64 { return float64(v) })
	case TypeInt16:
		return decodeTyped[int16](dec, df, n, params, func(v int16) float64 { return float64(v) })
	case TypeInt32:
		return decodeTyped[int32](dec, df, n, params, func(v int32) float64 { return float64(v) })
	case TypeInt64:
		return decodeTyped[int64](dec, df, n, params, func(v int64) float64 { return float64(v) })
	case TypeFloat32:
		return decodeTyped[float32](dec, df, n, params, func(v float32) float64 { return float64(v) })
	case TypeFloat64:
		return decodeTyped[float64](dec, df, n, params, func(v float64) float64 { return v })
	default:
		return nil, fmt.Errorf("fits: unsupported image element type %s", typ)
	}
}

func decodeTyped[T any](dec *binary.Decoder, df DataFormat, n int, params [][]float64, toF64 func(T) float64) ([]T, error) {
	group := df.Group
	if group == 0 {
		group = 1
	}
	out := make([]T, 0, n*group)
	for g := 0; g < group; g++ {
		if df.Param > 0 {
			p := make([]float64, df.Param)
			for i := range p {
				var v T
				if err := dec.Decode(&v); err != nil {
					return nil, &StreamError{Op: "decode group parameter", Err: err}
				}
				p[i] = toF64(v)
			}
			params[g] = p
		}
		for i := 0; i < n; i++ {
			var v T
			if err := dec.Decode(&v); err != nil {
				return nil, &StreamError{Op: "decode image element", Err: err}
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// writeArray encodes arr's elements in FITS order, prefixed by any
// per-group parameters, padding the whole body out to a block
// boundary.
func (imageCodec) writeArray(w io.Writer, df DataFormat, arr *ArrayData) error {
	buf := new(bytes.Buffer)
	enc := binary.NewEncoder(buf)
	enc.Order = binary.BigEndian

	n := shapeProduct(df.Shape)
	group := df.Group
	if group == 0 {
		group = 1
	}

	if err := encodeElems(enc, df.Type, arr, n, group, df.Param); err != nil {
		return err
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return &StreamError{Op: "write image body", Err: err}
	}
	return writePad(w, padBlock(buf.Len()))
}

func encodeElems(enc *binary.Encoder, typ ElemType, arr *ArrayData, n, group, param int) error {
	switch typ {
	case TypeUint8:
		return encodeTyped(enc, arr, n, group, param, func(f float64) uint8 { return uint8(f) })
	case TypeInt16:
		return encodeTyped(enc, arr, n, group, param, func(f float64) int16 { return int16(f) })
	case TypeInt32:
		return encodeTyped(enc, arr, n, group, param, func(f float64) int32 { return int32(f) })
	case TypeInt64:
		return encodeTyped(enc, arr, n, group, param, func(f float64) int64 { return int64(f) })
	case TypeFloat32:
		return encodeTyped(enc, arr, n, group, param, func(f float64) float32 { return float32(f) })
	case TypeFloat64:
		return encodeTyped(enc, arr, n, group, param, func(f float64) float64 { return f })
	default:
		return fmt.Errorf("fits: unsupported image element type %s", typ)
	}
}

func encodeTyped[T any](enc *binary.Encoder, arr *ArrayData, n, group, param int, fromF64 func(float64) T) error {
	elems, ok := arr.Elems.([]T)
	if !ok {
		return fmt.Errorf("fits: image body type mismatch: Elems is %T", arr.Elems)
	}
	idx := 0
	for g := 0; g < group; g++ {
		if param > 0 {
			var p []float64
			if g < len(arr.Params) {
				p = arr.Params[g]
			}
			for i := 0; i < param; i++ {
				var v T
				if i < len(p) {
					v = fromF64(p[i])
				}
				if err := enc.Encode(&v); err != nil {
					return &StreamError{Op: "encode group parameter", Err: err}
				}
			}
		}
		for i := 0; i < n; i++ {
			var v T
			if idx < len(elems) {
				v = elems[idx]
			}
			idx++
			if err := enc.Encode(&v); err != nil {
				return &StreamError{Op: "encode image element", Err: err}
			}
		}
	}
	return nil
}
