// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"reflect"
)

// NewHDU constructs an HDU from optional data and an optional
// pre-existing card deck, per §4.6. Precedence for variant detection
// follows §4.2: when cards carry mandatory keys they win over data.
//
// Grounded on the teacher's table.go NewTable/freeze (Bintable
// mandatory prefix, in-place preservation of pre-existing cards) and
// phdu.go NewPrimaryHDU (Primary default-card synthesis).
func NewHDU(data interface{}, cards *CardList, opts Options) (*HDU, error) {
	if cards == nil {
		cards = NewCardList()
	} else {
		cards = cards.Clone()
	}

	variant, err := DetectVariant(data, cards)
	if err != nil {
		return nil, err
	}

	var df DataFormat
	switch {
	case data != nil:
		df, err = DataFormatFromData(variant, data)
		if err != nil {
			return nil, err
		}
	case cards.Has("NAXIS") || cards.Has("BITPIX"):
		// no data supplied, but the caller's card deck already
		// describes a geometry (e.g. reconstructing an HDU shell
		// around an existing header): honor it instead of defaulting
		// to an empty DataFormat.
		df, _ = DataFormatFromCards(variant, cards)
	}

	var fields []BinaryField
	switch variant {
	case Bintable, Table:
		if data != nil {
			rv := reflect.ValueOf(data)
			for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
				rv = rv.Elem()
			}
			if rv.Len() > 0 {
				fields, err = fieldsFromRecordType(rv.Index(0))
				if err != nil {
					return nil, err
				}
			}
		}
	}

	prependMandatoryPrefix(cards, variant, df, fields)
	Verify(cards, variant, df, opts)

	body, err := defaultBody(variant, df, fields, data)
	if err != nil {
		return nil, err
	}

	return &HDU{
		Variant: variant,
		Cards:   cards,
		Format:  df,
		Fields:  fields,
		Body:    body,
		opts:    opts,
	}, nil
}

// prependMandatoryPrefix synthesizes the mandatory card prefix in
// canonical FITS order, per §4.6, in place preserving any card already
// present in cards (so a user-supplied comment survives) and creating
// a placeholder default (e.g. SIMPLE true, BITPIX 8, GCOUNT 1; Verify
// fixes the real value immediately after) otherwise.
func prependMandatoryPrefix(cards *CardList, variant HDUVariant, df DataFormat, fields []BinaryField) {
	var prefix []Card

	add := func(key string, def interface{}, comment string) {
		if cards.Has(key) {
			return
		}
		prefix = append(prefix, Card{Key: key, Value: def, Comment: comment})
	}

	switch variant {
	case Primary, Image:
		add("SIMPLE", true, "conforms to FITS standard")
		if variant == Image {
			add("XTENSION", "IMAGE   ", "image extension")
		}
		add("BITPIX", 8, "number of bits per data pixel")
		add("NAXIS", 0, "number of data axes")

	case Random:
		add("SIMPLE", true, "conforms to FITS standard")
		add("BITPIX", 8, "number of bits per data pixel")
		add("NAXIS", 0, "number of data axes")
		add("GROUPS", true, "random-groups data")
		add("PCOUNT", df.Param, "number of group parameters")
		add("GCOUNT", df.Group, "number of groups")

	case Table:
		add("XTENSION", "TABLE   ", "ASCII table extension")
		add("BITPIX", 8, "number of bits per data pixel")
		add("NAXIS", 0, "number of data axes")
		add("PCOUNT", 0, "no group parameters")
		add("GCOUNT", 1, "one data group")
		add("TFIELDS", len(fields), "number of table fields")

	case Bintable:
		add("XTENSION", "BINTABLE", "binary table extension")
		add("BITPIX", 8, "number of bits per data pixel")
		add("NAXIS", 0, "number of data axes")
		add("NAXIS1", 0, "length of data axis 1")
		add("NAXIS2", 0, "length of data axis 2")
		add("PCOUNT", df.Param, "heap area size (bytes)")
		add("GCOUNT", 1, "one data group")
		add("TFIELDS", len(fields), "number of table fields")
		cards.Prepend(prefix...)
		prefix = nil

		hasNames := false
		for _, f := range fields {
			if f.Name != "" {
				hasNames = true
				break
			}
		}
		var tf []Card
		for j, f := range fields {
			tf = append(tf, Card{Key: fmt.Sprintf("TFORM%d", j+1), Value: tformOf(f), Comment: "column format"})
			if hasNames {
				tf = append(tf, Card{Key: fmt.Sprintf("TTYPE%d", j+1), Value: f.Name, Comment: "column name"})
			}
		}
		cards.Append(tf...)
		return
	}

	cards.Prepend(prefix...)
}

// tformOf renders a BinaryField back to a TFORM string, the inverse of
// ParseTForm, used when constructing a Bintable from data rather than
// from cards.
func tformOf(f BinaryField) string {
	code := tformCode(f.Type)
	if f.Pntr != NoPointer {
		flag := "P"
		if f.Pntr == PointerUint64 {
			flag = "Q"
		}
		return fmt.Sprintf("1%s%c", flag, code)
	}
	return fmt.Sprintf("%d%c", f.Leng, code)
}

func tformCode(t ElemType) byte {
	for code, typ := range bintableCode {
		if typ == t {
			return code
		}
	}
	return 'A'
}

// defaultBody builds the zero-initialized or data-populated Body for
// a newly constructed HDU, per §4.6's "default body" rule.
func defaultBody(variant HDUVariant, df DataFormat, fields []BinaryField, data interface{}) (Body, error) {
	switch variant {
	case Primary, Image:
		if data == nil {
			return Body{Kind: BodyArray, Array: zeroArray(df)}, nil
		}
		rv := reflect.ValueOf(data)
		for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
			rv = rv.Elem()
		}
		flat, err := flattenArray(rv)
		if err != nil {
			return Body{}, err
		}
		return Body{Kind: BodyArray, Array: &ArrayData{Elems: flat}}, nil

	case Random:
		if data == nil {
			return Body{Kind: BodyArray, Array: zeroArray(df)}, nil
		}
		rv := reflect.ValueOf(data)
		for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
			rv = rv.Elem()
		}
		arr, err := arrayDataFromGroups(rv)
		if err != nil {
			return Body{}, err
		}
		return Body{Kind: BodyArray, Array: arr}, nil

	case Bintable, Table:
		if data == nil {
			return Body{Kind: BodyColumns, Columns: zeroColumns(fields, df)}, nil
		}
		records, err := recordsFromData(fields, data)
		if err != nil {
			return Body{}, err
		}
		return Body{Kind: BodyRecords, Records: records}, nil

	default:
		return Body{Kind: BodyOpaque}, nil
	}
}

// recordsFromData converts a slice of struct or map rows, per fields'
// name ordering, into []Record, the form the Bintable/Table codecs and
// Rows iterator both operate on.
//
// Grounded on table.go's NewTableFrom, which walks the same kind of
// slice-of-struct value by reflection to build column storage; here
// the destination is a row-oriented Record rather than the teacher's
// column-oriented Table.
func recordsFromData(fields []BinaryField, data interface{}) ([]Record, error) {
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("fits: expected a sequence of records, got %s", rv.Type())
	}

	records := make([]Record, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		row := rv.Index(i)
		for row.Kind() == reflect.Ptr || row.Kind() == reflect.Interface {
			row = row.Elem()
		}

		rec := make(Record, len(fields))
		switch row.Kind() {
		case reflect.Struct:
			rt := row.Type()
			for j := 0; j < rt.NumField(); j++ {
				sf := rt.Field(j)
				name := sf.Tag.Get("fits")
				if name == "" {
					name = sf.Name
				}
				rec[name] = row.Field(j).Interface()
			}
		case reflect.Map:
			for _, key := range row.MapKeys() {
				rec[fmt.Sprint(key.Interface())] = row.MapIndex(key).Interface()
			}
		default:
			return nil, fmt.Errorf("fits: expected record elements to be structs or maps, got %s", row.Type())
		}
		records[i] = rec
	}
	return records, nil
}

// flattenArray walks a (possibly nested) slice/array value in Go's
// natural, outermost-first order and returns its leaf elements as one
// flat slice of the leaf type, the shape encodeTyped/decodeTyped
// require for an image/Random body. A 1-D input is copied into a new
// slice like any other.
func flattenArray(rv reflect.Value) (interface{}, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("fits: expected an array or slice, got %s", rv.Type())
	}
	leaf := leafType(rv.Type())
	out := reflect.MakeSlice(reflect.SliceOf(leaf), 0, 0)

	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i))
			}
			return
		}
		out = reflect.Append(out, v)
	}
	walk(rv)
	return out.Interface(), nil
}

// leafType descends through nested slice/array types to the element
// type at the bottom.
func leafType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return t
}

// arrayDataFromGroups decomposes a slice of Random-groups tuples into
// an ArrayData: each tuple's leading fields become one row of Params,
// and its trailing array field is flattened and concatenated across
// groups into Elems, the inverse of decodeTyped's per-group split.
func arrayDataFromGroups(rv reflect.Value) (*ArrayData, error) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("fits: expected a sequence of groups, got %s", rv.Type())
	}
	if rv.Len() == 0 {
		return &ArrayData{}, nil
	}

	group0 := derefGroup(rv.Index(0))
	if group0.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fits: Random-groups data must be tuples, got %s", group0.Type())
	}
	leaf := leafType(group0.Field(group0.NumField() - 1).Type())
	elems := reflect.MakeSlice(reflect.SliceOf(leaf), 0, 0)
	params := make([][]float64, rv.Len())

	for i := 0; i < rv.Len(); i++ {
		g := derefGroup(rv.Index(i))
		n := g.NumField()
		p := make([]float64, n-1)
		for j := 0; j < n-1; j++ {
			p[j] = g.Field(j).Convert(reflect.TypeOf(float64(0))).Float()
		}
		params[i] = p

		flat, err := flattenArray(g.Field(n - 1))
		if err != nil {
			return nil, err
		}
		elems = reflect.AppendSlice(elems, reflect.ValueOf(flat))
	}

	return &ArrayData{Elems: elems.Interface(), Params: params}, nil
}

func derefGroup(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

func zeroArray(df DataFormat) *ArrayData {
	n := df.NumElems()
	switch df.Type {
	case TypeFloat64:
		return &ArrayData{Elems: make([]float64, n)}
	case TypeFloat32:
		return &ArrayData{Elems: make([]float32, n)}
	case TypeInt32:
		return &ArrayData{Elems: make([]int32, n)}
	case TypeInt16:
		return &ArrayData{Elems: make([]int16, n)}
	case TypeInt64:
		return &ArrayData{Elems: make([]int64, n)}
	default:
		return &ArrayData{Elems: make([]uint8, n)}
	}
}

func zeroColumns(fields []BinaryField, df DataFormat) map[string]interface{} {
	cols := make(map[string]interface{}, len(fields))
	nrows := 0
	if len(df.Shape) > 1 {
		nrows = df.Shape[1]
	}
	for _, f := range fields {
		switch f.Type {
		case TypeString:
			cols[f.Name] = make([]string, nrows)
		case TypeBit:
			cols[f.Name] = make([][]bool, nrows)
		default:
			cols[f.Name] = make([]interface{}, nrows)
		}
	}
	return cols
}
