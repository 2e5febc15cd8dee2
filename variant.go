// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"reflect"
	"strings"
)

// HDUVariant is the concrete kind of an HDU, replacing the teacher's
// three-way HDUType enum (IMAGE_HDU/ASCII_TBL/BINARY_TBL) with the
// full §3 tag set.
type HDUVariant int

const (
	Primary HDUVariant = iota
	Random
	Image
	Table
	Bintable
	Conform
	IUEImage
	A3DTable
	Foreign
	Dump
	ZImage
	ZTable
)

func (v HDUVariant) String() string {
	switch v {
	case Primary:
		return "PRIMARY"
	case Random:
		return "RANDOM"
	case Image:
		return "IMAGE"
	case Table:
		return "TABLE"
	case Bintable:
		return "BINTABLE"
	case Conform:
		return "CONFORM"
	case IUEImage:
		return "IUEIMAGE"
	case A3DTable:
		return "A3DTABLE"
	case Foreign:
		return "FOREIGN"
	case Dump:
		return "DUMP"
	case ZImage:
		return "ZIMAGE"
	case ZTable:
		return "ZTABLE"
	default:
		return "UNKNOWN"
	}
}

// Compressed reports whether v is one of the recognized-but-
// unimplemented compressed-table/image variants (§1 non-goal,
// §9 open question).
func (v HDUVariant) Compressed() bool {
	return v == ZImage || v == ZTable
}

// xtensionVariant maps an 8-character XTENSION value to an HDUVariant,
// per dispatcher rule 1. Unknown values (including the legacy
// IUEIMAGE/A3DTABLE/FOREIGN/DUMP strings, recognized here though §4.2
// only documents them as "anything else") fall through to Conform or
// their specific legacy tag.
var xtensionVariant = map[string]HDUVariant{
	"IMAGE":    Image,
	"TABLE":    Table,
	"BINTABLE": Bintable,
	"IUEIMAGE": IUEImage,
	"A3DTABLE": A3DTable,
	"FOREIGN":  Foreign,
	"DUMP":     Dump,
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func trimXtension(v interface{}) string {
	s, _ := v.(string)
	return strings.ToUpper(strings.TrimRight(s, " "))
}

// DetectVariant implements the §4.2 dispatcher: given optional data
// and optional mandatory keys, select the concrete HDU variant. When
// both are supplied, mandatory keys win (they represent explicit
// intent); this matches the precedence note at the end of §4.2.
func DetectVariant(data interface{}, mandatory *CardList) (HDUVariant, error) {
	if mandatory != nil && mandatory.Has("XTENSION") {
		xv, _ := mandatory.Get("XTENSION")
		variant, ok := xtensionVariant[trimXtension(xv)]
		if !ok {
			variant = Conform
		}
		if variant == Bintable {
			if asBool(mandatory.GetDefault("ZIMAGE", false)) {
				return ZImage, nil
			}
			if asBool(mandatory.GetDefault("ZTABLE", false)) {
				return ZTable, nil
			}
		}
		return variant, nil
	}

	if mandatory != nil && asBool(mandatory.GetDefault("SIMPLE", false)) {
		if asBool(mandatory.GetDefault("GROUPS", false)) {
			if n, ok := asInt(mandatory.GetDefault("NAXIS1", 0)); ok && n == 0 {
				return Random, nil
			}
		}
		return Primary, nil
	}

	if data != nil {
		return classifyData(reflect.ValueOf(data))
	}

	return 0, &ErrUnknownHDUType{Reason: "no data and no mandatory keys supplied"}
}

func asInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	}
	return 0, false
}

// classifyData implements the data-driven half of §4.2 rule 3.
func classifyData(rv reflect.Value) (HDUVariant, error) {
	if !rv.IsValid() {
		return 0, &ErrUnknownHDUType{Reason: "nil data value"}
	}
	rt := rv.Type()

	switch rt.Kind() {
	case reflect.Ptr, reflect.Interface:
		return classifyData(rv.Elem())

	case reflect.Slice, reflect.Array:
		elem := rt.Elem()
		for elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
			elem = elem.Elem()
		}
		switch {
		case isNumericKind(elem.Kind()):
			// any depth of nested numeric array (e.g. [][]float32)
			// classifies the same as a flat one, per §4.2 rule 3.
			return Primary, nil
		case elem.Kind() == reflect.String:
			return Table, nil
		case elem.Kind() == reflect.Struct:
			// a sequence whose element is a tuple/named-tuple: recurse
			// on the element (a zero value suffices; only its static
			// shape matters).
			return classifyStruct(elem)
		default:
			return Conform, nil
		}

	case reflect.Struct:
		return classifyStruct(rt)

	default:
		return Conform, nil
	}
}

func classifyStruct(rt reflect.Type) (HDUVariant, error) {
	n := rt.NumField()
	if n == 0 {
		return Conform, nil
	}
	last := rt.Field(n - 1).Type
	if arrayRank(last) >= 2 {
		return Random, nil
	}
	return Bintable, nil
}

// arrayRank counts nested array/slice levels, used to recognize a
// "≥2-D array" last field for Random-groups detection.
func arrayRank(t reflect.Type) int {
	n := 0
	for t.Kind() == reflect.Array || t.Kind() == reflect.Slice {
		n++
		t = t.Elem()
	}
	return n
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
