// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ByteRange is a field's byte range within one record, 1-based and
// inclusive of Begin, exclusive of End (matching the "+1..+width"
// notation of §4.4).
type ByteRange struct {
	Begin int
	End   int
}

// Width returns the number of bytes spanned by r.
func (r ByteRange) Width() int { return r.End - r.Begin }

// PointerType identifies the width of a binary-table variable-array
// descriptor pair ("P" or "Q" in TFORM).
type PointerType int

const (
	NoPointer PointerType = iota
	PointerUint32         // "P": 4-byte count + 4-byte offset
	PointerUint64         // "Q": 8-byte count + 8-byte offset
)

// Width returns the on-disk byte size of one (count, offset) pair.
func (p PointerType) Width() int {
	switch p {
	case PointerUint32:
		return 8
	case PointerUint64:
		return 16
	default:
		return 0
	}
}

// BinaryField is the per-column descriptor for a Bintable (and, in
// reduced form, ASCII Table) HDU.
type BinaryField struct {
	Name  string
	Pntr  PointerType
	Type  ElemType
	Slice ByteRange
	Leng  int // repeat count

	Unit    string
	Display string
	Dim     []int // TDIM reshape hint
	Zero    float64
	Scale   float64
	HasZero bool // false for Bool/Bit/String columns: no linear transform
	Null    *int64
	Dmin    *float64
	Dmax    *float64
	Lmin    *float64
	Lmax    *float64

	supp string // opaque TFORM array-descriptor payload, e.g. "5" in "1PE(5)"
}

// tformGrammar is the §4.4 TFORM regular expression:
// repeat, optional pointer flag, type code, optional "(...)" payload.
var tformGrammar = regexp.MustCompile(`^(\d*)([PQ]?)([LXBIJKAEDCM])(\([^)]*\))?$`)

// ParseTForm parses one binary-table TFORM string into its
// constituent grammar parts, per §4.4.
func ParseTForm(col int, form string) (repeat int, pntr PointerType, code byte, supp string, err error) {
	m := tformGrammar.FindStringSubmatch(strings.TrimSpace(form))
	if m == nil {
		return 0, NoPointer, 0, "", &MalformedFieldError{Column: col, Reason: fmt.Sprintf("TFORM %q does not match grammar", form)}
	}
	repeat = 1
	if m[1] != "" {
		n, e := strconv.Atoi(m[1])
		if e != nil {
			return 0, NoPointer, 0, "", &MalformedFieldError{Column: col, Reason: e.Error()}
		}
		repeat = n
	}
	switch m[2] {
	case "P":
		pntr = PointerUint32
	case "Q":
		pntr = PointerUint64
	default:
		pntr = NoPointer
	}
	code = m[3][0]
	if len(m) > 4 && len(m[4]) >= 2 {
		supp = m[4][1 : len(m[4])-1]
	}
	return repeat, pntr, code, supp, nil
}

// widthOf computes a field's on-disk record width in bytes, per
// §4.4's width rules.
func widthOf(pntr PointerType, code byte, repeat int) int {
	if pntr != NoPointer {
		return pntr.Width()
	}
	switch code {
	case 'X':
		return (repeat + 7) / 8
	case 'A':
		return repeat
	default:
		typ := bintableCode[code]
		return typ.Size() * repeat
	}
}

// BuildFieldsFromCards builds the ordered []BinaryField for a
// Bintable from TFORM/TTYPE/... header cards, per §4.4.
func BuildFieldsFromCards(cards *CardList) ([]BinaryField, error) {
	tfields, _ := asInt(cards.GetDefault("TFIELDS", 0))
	fields := make([]BinaryField, 0, tfields)
	offset := 1
	for j := 1; j <= tfields; j++ {
		form, ok := cards.GetDefault(fmt.Sprintf("TFORM%d", j), nil).(string)
		if !ok {
			return nil, &MalformedFieldError{Column: j, Reason: "missing TFORM"}
		}
		repeat, pntr, code, supp, err := ParseTForm(j, form)
		if err != nil {
			return nil, err
		}
		typ, ok := bintableCode[code]
		if !ok {
			return nil, &MalformedFieldError{Column: j, Reason: fmt.Sprintf("unknown type code %q", code)}
		}

		if pntr != NoPointer && repeat != 0 && repeat != 1 {
			repeat = 1
		}

		width := widthOf(pntr, code, repeat)

		name, _ := cards.GetDefault(fmt.Sprintf("TTYPE%d", j), "").(string)
		name = strings.TrimRight(name, " ")
		if name == "" {
			name = fmt.Sprintf("column%d", j)
		}

		f := BinaryField{
			Name:  name,
			Pntr:  pntr,
			Type:  typ,
			Leng:  repeat,
			Slice: ByteRange{Begin: offset, End: offset + width},
			supp:  supp,
		}
		offset += width

		f.Unit, _ = cards.GetDefault(fmt.Sprintf("TUNIT%d", j), "").(string)
		f.Display, _ = cards.GetDefault(fmt.Sprintf("TDISP%d", j), "").(string)
		if dim, ok := cards.GetDefault(fmt.Sprintf("TDIM%d", j), "").(string); ok && dim != "" {
			f.Dim = parseTDim(dim)
		}

		switch typ {
		case TypeBool, TypeBit, TypeString:
			// no linear transform
		default:
			f.Zero = asFloat(cards.GetDefault(fmt.Sprintf("TZERO%d", j), 0.0))
			f.Scale = asFloat(cards.GetDefault(fmt.Sprintf("TSCAL%d", j), 1.0))
			f.HasZero = true
		}

		if n, ok := cards.GetDefault(fmt.Sprintf("TNULL%d", j), nil).(int); ok {
			v := int64(n)
			f.Null = &v
		}
		f.Dmin = optFloat(cards.GetDefault(fmt.Sprintf("TDMIN%d", j), nil))
		f.Dmax = optFloat(cards.GetDefault(fmt.Sprintf("TDMAX%d", j), nil))
		f.Lmin = optFloat(cards.GetDefault(fmt.Sprintf("TLMIN%d", j), nil))
		f.Lmax = optFloat(cards.GetDefault(fmt.Sprintf("TLMAX%d", j), nil))

		fields = append(fields, f)
	}
	return fields, nil
}

func optFloat(v interface{}) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat(v)
	return &f
}

func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return 0
	}
}

func parseTDim(s string) []int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// BuildFieldsFromRecord infers []BinaryField from the first record of
// row data, per §4.4's "derived from data" rules: string -> (String,
// len, len); bit-vector -> (BitVector, len, ceil(len/8)); array ->
// (eltype, len, len*sizeof); scalar -> (type, 1, sizeof).
func BuildFieldsFromRecord(rv reflect.Value) ([]BinaryField, error) {
	return fieldsFromRecordType(rv)
}

func fieldsFromRecordType(rv reflect.Value) ([]BinaryField, error) {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return fieldsFromStruct(rv)
	case reflect.Map:
		return fieldsFromMap(rv)
	default:
		return nil, fmt.Errorf("fits: expected a struct or map record, got %s", rv.Type())
	}
}

func fieldsFromStruct(rv reflect.Value) ([]BinaryField, error) {
	rt := rv.Type()
	fields := make([]BinaryField, 0, rt.NumField())
	offset := 1
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("fits")
		if name == "" {
			name = sf.Name
		}
		f, err := fieldFromValue(name, rv.Field(i))
		if err != nil {
			return nil, err
		}
		width := f.Slice.Width()
		f.Slice = ByteRange{Begin: offset, End: offset + width}
		offset += width
		fields = append(fields, f)
	}
	return fields, nil
}

func fieldsFromMap(rv reflect.Value) ([]BinaryField, error) {
	keys := rv.MapKeys()
	fields := make([]BinaryField, 0, len(keys))
	offset := 1
	for _, k := range keys {
		f, err := fieldFromValue(fmt.Sprint(k.Interface()), rv.MapIndex(k))
		if err != nil {
			return nil, err
		}
		width := f.Slice.Width()
		f.Slice = ByteRange{Begin: offset, End: offset + width}
		offset += width
		fields = append(fields, f)
	}
	return fields, nil
}

func fieldFromValue(name string, v reflect.Value) (BinaryField, error) {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		n := len(v.String())
		return BinaryField{Name: name, Type: TypeString, Leng: n, Slice: ByteRange{End: n}}, nil

	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Bool {
			n := v.Len()
			return BinaryField{Name: name, Type: TypeBit, Leng: n, Slice: ByteRange{End: (n + 7) / 8}}, nil
		}
		elemType, err := elemTypeOf(v.Type().Elem())
		if err != nil {
			return BinaryField{}, err
		}
		n := v.Len()
		return BinaryField{
			Name: name, Type: elemType, Leng: n,
			Slice: ByteRange{End: n * elemType.Size()},
		}, nil

	default:
		elemType, err := elemTypeOf(v.Type())
		if err != nil {
			return BinaryField{}, err
		}
		return BinaryField{
			Name: name, Type: elemType, Leng: 1,
			Slice: ByteRange{End: elemType.Size()},
		}, nil
	}
}

// RecordWidth sums the widths of fields, the value §3 requires to
// equal the record length (shape[0]).
func RecordWidth(fields []BinaryField) int {
	w := 0
	for _, f := range fields {
		w += f.Slice.Width()
	}
	return w
}
