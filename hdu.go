// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"reflect"
)

// BodyKind tags the concrete representation held by a Body, the Go
// stand-in for the body sum type noted in §9.
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyArray
	BodyRecords
	BodyColumns
	BodyOpaque
)

// ArrayData is the body of a Primary, Image or Random-groups HDU: a
// flat, row-major (FITS order) element buffer plus, for Random-groups
// only, the per-group parameter values.
type ArrayData struct {
	Elems  interface{} // a []T slice, T per DataFormat.Type
	Params [][]float64 // len == Group; nil outside Random-groups
}

// Record is one row of a Bintable/Table body held as records
// (BodyRecords): column name to scalar-or-slice value.
type Record map[string]interface{}

// Body is the HDU payload, shaped by Kind:
//   - BodyArray:   Array is populated (Primary/Image/Random).
//   - BodyRecords: Records is populated, one entry per row (Bintable/
//     Table in record mode).
//   - BodyColumns: Columns is populated, one entry per field name,
//     each a slice of per-row values (Bintable/Table in column mode).
//   - BodyOpaque:  Raw holds the undecoded body bytes (Conform and
//     legacy/compressed variants).
//   - BodyNone:    no data has been read or attached yet.
type Body struct {
	Kind    BodyKind
	Array   *ArrayData
	Records []Record
	Columns map[string]interface{}
	Raw     []byte
}

// HDU is one Header-Data Unit: a card deck, its derived geometry, its
// field descriptors (Bintable/Table only), and its body.
type HDU struct {
	Variant HDUVariant
	Cards   *CardList
	Format  DataFormat
	Fields  []BinaryField
	Body    Body

	opts Options
}

// Name returns the EXTNAME card's value, or "" for a Primary HDU or
// one with no EXTNAME.
func (h *HDU) Name() string {
	if h.Cards == nil {
		return ""
	}
	name, _ := h.Cards.GetDefault("EXTNAME", "").(string)
	return name
}

// Version returns the EXTVER card's value, or 0 when absent.
func (h *HDU) Version() int {
	if h.Cards == nil {
		return 0
	}
	v, _ := asInt(h.Cards.GetDefault("EXTVER", 0))
	return v
}

// CopyHDU returns a copy of h with its own CardList, Fields slice,
// Format.Shape slice, Records (each Record map copied), Columns map and
// Raw bytes, so CopyTableRange can reshape and subset it without
// touching h. The element slices inside Array and inside each column
// value are shared with h.
//
// Carried over from hdu.go/table.go's CopyHDU/CopyTable in the
// teacher, generalized from the teacher's HDUType-keyed copy to work
// off Body/BodyKind uniformly. Unlike the teacher's byte-for-byte
// CopyTableRange (which punts on variable-length heap offsets with a
// FIXME), this never touches on-disk heap pointers at all: Bintable
// rows are carried as decoded Records/Columns, and WriteHDU always
// rebuilds the heap from scratch on encode, so row subsetting here
// can never produce a stale offset.
func (h *HDU) CopyHDU() *HDU {
	out := &HDU{Variant: h.Variant, opts: h.opts}
	if h.Cards != nil {
		out.Cards = h.Cards.Clone()
	}
	if h.Fields != nil {
		out.Fields = append([]BinaryField(nil), h.Fields...)
	}
	out.Format = h.Format
	out.Format.Shape = append([]int(nil), h.Format.Shape...)
	out.Body = copyBody(h.Body)
	return out
}

func copyBody(b Body) Body {
	out := Body{Kind: b.Kind}
	if b.Array != nil {
		arr := *b.Array
		out.Array = &arr
	}
	if b.Records != nil {
		out.Records = make([]Record, len(b.Records))
		for i, rec := range b.Records {
			row := make(Record, len(rec))
			for k, v := range rec {
				row[k] = v
			}
			out.Records[i] = row
		}
	}
	if b.Columns != nil {
		out.Columns = make(map[string]interface{}, len(b.Columns))
		for k, v := range b.Columns {
			out.Columns[k] = v
		}
	}
	if b.Raw != nil {
		out.Raw = append([]byte(nil), b.Raw...)
	}
	return out
}

// CopyTableRange returns a new HDU holding only rows [begin,end) of a
// Bintable/Table HDU's body, with NAXIS2 and DataFormat.Shape updated
// to match. begin and end are clamped to the available row count.
func CopyTableRange(h *HDU, begin, end int) (*HDU, error) {
	switch h.Variant {
	case Bintable, Table:
	default:
		return nil, fmt.Errorf("fits: CopyTableRange: HDU variant %s is not a table", h.Variant)
	}

	out := h.CopyHDU()
	nrows := 0
	switch out.Body.Kind {
	case BodyRecords:
		nrows = len(out.Body.Records)
	case BodyColumns:
		nrows = columnsLen(out.Body.Columns)
	default:
		return nil, fmt.Errorf("fits: CopyTableRange: HDU has no row data loaded")
	}

	if begin < 0 {
		begin = 0
	}
	if end > nrows {
		end = nrows
	}
	if begin > end {
		begin = end
	}

	switch out.Body.Kind {
	case BodyRecords:
		out.Body.Records = append([]Record(nil), out.Body.Records[begin:end]...)
	case BodyColumns:
		sliced := make(map[string]interface{}, len(out.Body.Columns))
		for name, col := range out.Body.Columns {
			sliced[name] = sliceColumn(col, begin, end)
		}
		out.Body.Columns = sliced
	}

	if len(out.Format.Shape) >= 2 {
		out.Format.Shape[1] = end - begin
	}
	out.Format.Leng = out.Format.NumElems()
	out.Cards.Upsert("NAXIS2", end-begin, "number of rows in table")

	return out, nil
}

func sliceColumn(col interface{}, begin, end int) interface{} {
	rv := reflect.ValueOf(col)
	if rv.Kind() != reflect.Slice {
		return col
	}
	return rv.Slice(begin, end).Interface()
}
