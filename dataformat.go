// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"reflect"
)

// DataFormat summarizes an HDU's body geometry, recomputed whenever
// cards or data change. NewHDU and ReadHDU store the one they compute
// in the HDU's exported Format field; WriteHDU recomputes it for
// Bintable and Table bodies before verifying the header.
type DataFormat struct {
	Type  ElemType // on-disk element type
	Leng  int      // total element count on disk
	Shape []int    // dimension tuple, innermost (fastest-varying) first
	Param int      // PCOUNT: random-group parameter count, or Bintable heap bytes
	Group int       // GCOUNT: outer replication
	Heap  int       // byte offset of the heap area from the body start
}

// NumElems returns group * (param + product(shape)), the invariant
// quantity §3 requires to equal the on-disk element count.
func (df DataFormat) NumElems() int {
	prod := 1
	for _, d := range df.Shape {
		prod *= d
	}
	group := df.Group
	if group == 0 {
		group = 1
	}
	return group * (df.Param + prod)
}

func shapeProduct(shape []int) int {
	p := 1
	for _, d := range shape {
		p *= d
	}
	return p
}

// DataFormatFromCards builds a DataFormat from a set of mandatory
// header keys, per §4.3 "From mandatory keys".
func DataFormatFromCards(variant HDUVariant, cards *CardList) (DataFormat, error) {
	var df DataFormat

	bitpix, _ := asInt(cards.GetDefault("BITPIX", nil))
	naxis, _ := asInt(cards.GetDefault("NAXIS", 0))

	shape := make([]int, 0, naxis)
	for i := 1; i <= naxis; i++ {
		n, ok := asInt(cards.GetDefault(fmt.Sprintf("NAXIS%d", i), nil))
		if !ok {
			return df, &MalformedFieldError{Reason: fmt.Sprintf("missing NAXIS%d", i)}
		}
		shape = append(shape, n)
	}

	pcount, _ := asInt(cards.GetDefault("PCOUNT", 0))
	gcount, _ := asInt(cards.GetDefault("GCOUNT", 1))

	typ, ok := bits2type[bitpix]
	if !ok {
		switch variant {
		case Bintable, Table:
			typ = TypeUint8
		default:
			typ = TypeInt32
		}
	}

	df = DataFormat{
		Type:  typ,
		Shape: shape,
		Param: pcount,
		Group: gcount,
	}
	df.Leng = df.NumElems()

	if variant == Bintable || variant == Table {
		if theap, ok := asInt(cards.GetDefault("THEAP", nil)); ok {
			df.Heap = theap
		} else if len(shape) > 0 {
			df.Heap = shapeProduct(shape)
		}
	}

	return df, nil
}

// DataFormatFromData builds a DataFormat straight from a data value,
// per §4.3 "From data". v must already have been classified by
// DetectVariant as variant.
func DataFormatFromData(variant HDUVariant, v interface{}) (DataFormat, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	switch variant {
	case Primary, Image:
		return dataFormatFromArray(rv)

	case Bintable, Table:
		return dataFormatFromRecords(rv)

	case Random:
		return dataFormatFromGroups(rv)

	default:
		return DataFormat{}, nil
	}
}

func dataFormatFromArray(rv reflect.Value) (DataFormat, error) {
	shape, elemType, err := arrayShape(rv)
	if err != nil {
		return DataFormat{}, err
	}
	df := DataFormat{Type: elemType, Shape: shape, Param: 0, Group: 1}
	df.Leng = df.NumElems()
	return df, nil
}

// arrayShape walks a (possibly nested) slice/array value and returns
// its shape, innermost dimension last in Go's natural nesting order
// but returned here already reversed to the FITS innermost-first
// convention, plus the element type at the leaves.
func arrayShape(rv reflect.Value) ([]int, ElemType, error) {
	var dims []int
	cur := rv
	for cur.Kind() == reflect.Slice || cur.Kind() == reflect.Array {
		dims = append(dims, cur.Len())
		if cur.Len() == 0 {
			break
		}
		cur = cur.Index(0)
	}
	if len(dims) == 0 {
		return nil, TypeInvalid, fmt.Errorf("fits: expected an array or slice, got %s", rv.Type())
	}
	elemType, err := elemTypeOf(cur.Type())
	if err != nil {
		return nil, TypeInvalid, err
	}
	// reverse: Go nesting is outermost-first, FITS shape is
	// innermost-first (NAXIS1 varies fastest).
	shape := make([]int, len(dims))
	for i, d := range dims {
		shape[len(dims)-1-i] = d
	}
	return shape, elemType, nil
}

func elemTypeOf(t reflect.Type) (ElemType, error) {
	switch t.Kind() {
	case reflect.Uint8:
		return TypeUint8, nil
	case reflect.Int16:
		return TypeInt16, nil
	case reflect.Int32, reflect.Int:
		return TypeInt32, nil
	case reflect.Int64:
		return TypeInt64, nil
	case reflect.Float32:
		return TypeFloat32, nil
	case reflect.Float64:
		return TypeFloat64, nil
	case reflect.Bool:
		return TypeBool, nil
	case reflect.String:
		return TypeString, nil
	case reflect.Complex64:
		return TypeComplex64, nil
	case reflect.Complex128:
		return TypeComplex128, nil
	default:
		return TypeInvalid, fmt.Errorf("fits: unsupported element type %s", t)
	}
}

// dataFormatFromRecords builds a Bintable DataFormat from row data:
// element type is always UInt8 (the record is an opaque byte blob
// sliced up by FieldFormat), shape is (recordLength, rowCount).
func dataFormatFromRecords(rv reflect.Value) (DataFormat, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return DataFormat{}, fmt.Errorf("fits: expected a sequence of records, got %s", rv.Type())
	}
	nrows := rv.Len()
	recLen := 0
	if nrows > 0 {
		fields, err := fieldsFromRecordType(rv.Index(0))
		if err != nil {
			return DataFormat{}, err
		}
		for _, f := range fields {
			recLen += f.Slice.Width()
		}
	}
	df := DataFormat{
		Type:  TypeUint8,
		Shape: []int{recLen, nrows},
		Param: 0,
		Group: 1,
	}
	df.Leng = df.NumElems()
	return df, nil
}

// dataFormatFromGroups builds a Random-groups DataFormat: param is
// the count of leading tuple members (the per-group random
// parameters), group is the outer sequence length, and shape is that
// of the last (array) tuple member.
func dataFormatFromGroups(rv reflect.Value) (DataFormat, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return DataFormat{}, fmt.Errorf("fits: expected a sequence of groups, got %s", rv.Type())
	}
	if rv.Len() == 0 {
		return DataFormat{Group: 0}, nil
	}
	group0 := rv.Index(0)
	for group0.Kind() == reflect.Ptr || group0.Kind() == reflect.Interface {
		group0 = group0.Elem()
	}
	if group0.Kind() != reflect.Struct {
		return DataFormat{}, fmt.Errorf("fits: Random-groups data must be tuples, got %s", group0.Type())
	}
	n := group0.NumField()
	shape, elemType, err := arrayShape(group0.Field(n - 1))
	if err != nil {
		return DataFormat{}, err
	}
	df := DataFormat{
		Type:  elemType,
		Shape: shape,
		Param: n - 1,
		Group: rv.Len(),
	}
	df.Leng = df.NumElems()
	return df, nil
}
