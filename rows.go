// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"reflect"
)

// Rows is the result of reading a Bintable or Table HDU's body a row
// at a time. Its cursor starts before the first row; use Next to
// advance.
//
// Generalized from the teacher's rows.go, which scans against a
// *Table's columnar storage; here it scans against an HDU's Body,
// working from either BodyColumns or BodyRecords.
type Rows struct {
	fields []BinaryField
	nrows  int
	get    func(row int, name string) interface{}

	cur    int
	closed bool
	err    error

	icols map[reflect.Type][][2]int
}

// NewRows builds a Rows iterator over hdu's body. hdu must be a
// Bintable or Table HDU that has already been decoded.
func NewRows(hdu *HDU) (*Rows, error) {
	switch hdu.Variant {
	case Bintable, Table:
	default:
		return nil, fmt.Errorf("fits: Rows only supports Bintable/Table HDUs, got %s", hdu.Variant)
	}

	rows := &Rows{fields: hdu.Fields, icols: make(map[reflect.Type][][2]int)}

	switch hdu.Body.Kind {
	case BodyColumns:
		rows.nrows = columnsLen(hdu.Body.Columns)
		rows.get = func(row int, name string) interface{} {
			col := hdu.Body.Columns[name]
			return reflectIndex(col, row)
		}
	case BodyRecords:
		rows.nrows = len(hdu.Body.Records)
		rows.get = func(row int, name string) interface{} {
			return hdu.Body.Records[row][name]
		}
	default:
		return nil, fmt.Errorf("fits: HDU has no row data loaded")
	}

	rows.cur = -1
	return rows, nil
}

func columnsLen(cols map[string]interface{}) int {
	for _, v := range cols {
		return reflectValueLen(v)
	}
	return 0
}

func reflectValueLen(v interface{}) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return rv.Len()
	}
	return 0
}

// Err returns the error, if any, encountered during iteration.
func (rows *Rows) Err() error { return rows.err }

// Close stops iteration; idempotent.
func (rows *Rows) Close() error {
	rows.closed = true
	return nil
}

// Next advances the cursor, returning false when rows are exhausted.
func (rows *Rows) Next() bool {
	if rows.closed {
		return false
	}
	rows.cur++
	if rows.cur >= rows.nrows {
		rows.closed = true
		return false
	}
	return true
}

// Scan copies the current row's columns into dest. A single struct or
// map[string]interface{} destination scans by field/column name (via
// the "fits" struct tag, falling back to the Go field name); otherwise
// one destination per field is expected, in field order.
func (rows *Rows) Scan(dest ...interface{}) error {
	var err error
	defer func() { rows.err = err }()

	if len(dest) == 0 {
		return fmt.Errorf("fits: Rows.Scan needs at least one argument")
	}
	if len(dest) == 1 {
		rt := reflect.TypeOf(dest[0]).Elem()
		switch rt.Kind() {
		case reflect.Map:
			return rows.scanMap(dest[0])
		case reflect.Struct:
			return rows.scanStruct(dest[0])
		}
	}
	return rows.scanPositional(dest...)
}

func (rows *Rows) scanPositional(dest ...interface{}) error {
	if len(dest) != len(rows.fields) {
		return fmt.Errorf("fits: Rows.Scan: got %d args, expected %d", len(dest), len(rows.fields))
	}
	for i, f := range rows.fields {
		v := rows.get(rows.cur, f.Name)
		if err := assign(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (rows *Rows) scanMap(dest interface{}) error {
	m := dest.(*map[string]interface{})
	if *m == nil {
		*m = make(map[string]interface{}, len(rows.fields))
	}
	for _, f := range rows.fields {
		(*m)[f.Name] = rows.get(rows.cur, f.Name)
	}
	return nil
}

func (rows *Rows) scanStruct(dest interface{}) error {
	rv := reflect.ValueOf(dest).Elem()
	rt := rv.Type()

	icols, ok := rows.icols[rt]
	if !ok {
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			name := sf.Tag.Get("fits")
			if name == "" {
				name = sf.Name
			}
			for j, f := range rows.fields {
				if f.Name == name {
					icols = append(icols, [2]int{i, j})
					break
				}
			}
		}
		rows.icols[rt] = icols
	}

	for _, pair := range icols {
		fieldIdx, colIdx := pair[0], pair[1]
		v := rows.get(rows.cur, rows.fields[colIdx].Name)
		if err := assign(rv.Field(fieldIdx).Addr().Interface(), v); err != nil {
			return err
		}
	}
	return nil
}

// assign copies v into *dest, converting when the underlying kinds are
// assignment-compatible (e.g. a raw int64 value into an int field).
func assign(dest interface{}, v interface{}) error {
	if v == nil {
		return nil
	}
	dv := reflect.ValueOf(dest).Elem()
	sv := reflect.ValueOf(v)
	if sv.Type().AssignableTo(dv.Type()) {
		dv.Set(sv)
		return nil
	}
	if sv.Type().ConvertibleTo(dv.Type()) {
		dv.Set(sv.Convert(dv.Type()))
		return nil
	}
	return fmt.Errorf("fits: cannot scan %T into %s", v, dv.Type())
}
