// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import "reflect"

// ElemType is the on-disk primitive element type of an HDU body or
// binary-table field. It generalizes the teacher's (astrogo-fitsio)
// typecode into a public, documented enum.
type ElemType int

const (
	TypeInvalid ElemType = iota
	TypeUint8
	TypeBool
	TypeString
	TypeBit // FITS 'X': bit-packed vector
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeComplex64
	TypeComplex128
)

func (t ElemType) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeBit:
		return "bit"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeComplex64:
		return "complex64"
	case TypeComplex128:
		return "complex128"
	default:
		return "invalid"
	}
}

// Size returns the on-disk size in bytes of one element of t, or 0 for
// variable-size types (TypeString, TypeBit).
func (t ElemType) Size() int {
	switch t {
	case TypeUint8, TypeBool:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeFloat64, TypeComplex64:
		return 8
	case TypeComplex128:
		return 16
	default:
		return 0
	}
}

// bits2type is the FITS-standard BITPIX encoding used by Primary,
// Image and Random-groups HDUs.
var bits2type = map[int]ElemType{
	8:   TypeUint8,
	16:  TypeInt16,
	32:  TypeInt32,
	64:  TypeInt64,
	-32: TypeFloat32,
	-64: TypeFloat64,
}

// type2bits is the inverse of bits2type, used by the Verifier to
// recompute BITPIX from an ElemType.
var type2bits = map[ElemType]int{
	TypeUint8:   8,
	TypeInt16:   16,
	TypeInt32:   32,
	TypeInt64:   64,
	TypeFloat32: -32,
	TypeFloat64: -64,
}

// bintableCode maps a binary-table TFORM type code to its ElemType.
var bintableCode = map[byte]ElemType{
	'L': TypeBool,
	'X': TypeBit,
	'B': TypeUint8,
	'I': TypeInt16,
	'J': TypeInt32,
	'K': TypeInt64,
	'A': TypeString,
	'E': TypeFloat32,
	'D': TypeFloat64,
	'C': TypeComplex64,
	'M': TypeComplex128,
}

// asciiCode maps an ASCII-table TFORM type code to its ElemType; ASCII
// tables only ever hold text, integers and floats, stored as fields of
// fixed column width.
var asciiCode = map[byte]ElemType{
	'A': TypeString,
	'I': TypeInt64,
	'F': TypeFloat64,
	'E': TypeFloat64,
	'D': TypeFloat64,
}

// goKind maps an ElemType to the reflect.Kind of the Go slice element
// used to hold it in an ArrayData or Record field.
var goKind = map[ElemType]reflect.Kind{
	TypeUint8:      reflect.Uint8,
	TypeBool:       reflect.Bool,
	TypeString:     reflect.String,
	TypeInt16:      reflect.Int16,
	TypeInt32:      reflect.Int32,
	TypeInt64:      reflect.Int64,
	TypeFloat32:    reflect.Float32,
	TypeFloat64:    reflect.Float64,
	TypeComplex64:  reflect.Complex64,
	TypeComplex128: reflect.Complex128,
}
