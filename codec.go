// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"io"
)

// ReadHDU decodes one complete Header-Data Unit from r: a header block
// loop (codec_header.go), variant dispatch (variant.go), geometry and
// field descriptors (dataformat.go/fieldformat.go), and finally the
// per-variant body (codec_image.go/codec_bintable.go/
// codec_asciitable.go/codec_conform.go).
//
// Grounded on decode.go's streamDecoder.DecodeHDU, split by concern
// instead of inlined into one function.
func ReadHDU(r io.Reader, opts Options) (*HDU, error) {
	cards, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	variant, err := DetectVariant(nil, cards)
	if err != nil {
		return nil, err
	}

	df, err := DataFormatFromCards(variant, cards)
	if err != nil {
		return nil, err
	}

	var fields []BinaryField
	switch variant {
	case Bintable:
		fields, err = BuildFieldsFromCards(cards)
		if err != nil {
			return nil, err
		}
	case Table:
		fields, err = fieldsFromAsciiCards(cards)
		if err != nil {
			return nil, err
		}
	}

	var body Body
	switch variant {
	case Primary, Image, Random:
		arr, err := (imageCodec{}).readArray(r, df)
		if err != nil {
			return nil, err
		}
		body = Body{Kind: BodyArray, Array: arr}

	case Bintable:
		body, err = readBintableBody(r, df, fields, opts)
		if err != nil {
			return nil, err
		}

	case Table:
		body, err = readAsciiTableBody(r, df, fields, opts)
		if err != nil {
			return nil, err
		}

	default:
		body, err = readOpaqueBody(r, df)
		if err != nil {
			return nil, err
		}
	}

	return &HDU{Variant: variant, Cards: cards, Format: df, Fields: fields, Body: body, opts: opts}, nil
}

// fieldsFromAsciiCards builds []BinaryField for an ASCII Table from
// TBCOL/TFORM cards: each field's position comes from TBCOLj, its width
// from the digits after TFORMj's leading letter, and the numeric-vs-string
// type from that leading letter (A, I, F, E, D), per utils.go's
// txtfmtFromForm.
func fieldsFromAsciiCards(cards *CardList) ([]BinaryField, error) {
	tfields, _ := asInt(cards.GetDefault("TFIELDS", 0))
	fields := make([]BinaryField, 0, tfields)
	for j := 1; j <= tfields; j++ {
		form, _ := cards.GetDefault(fmt.Sprintf("TFORM%d", j), "").(string)
		if len(form) == 0 {
			return nil, &MalformedFieldError{Column: j, Reason: "missing TFORM"}
		}
		code := form[0]
		typ, ok := asciiCode[code]
		if !ok {
			return nil, &MalformedFieldError{Column: j, Reason: fmt.Sprintf("unknown ASCII type code %q", code)}
		}

		tbcol, _ := asInt(cards.GetDefault(fmt.Sprintf("TBCOL%d", j), 1))
		width := 0
		if n, ok := asInt(parseTFormWidth(form[1:])); ok {
			width = n
		}

		name, _ := cards.GetDefault(fmt.Sprintf("TTYPE%d", j), "").(string)
		if name == "" {
			name = fmt.Sprintf("field%d", j)
		}

		fields = append(fields, BinaryField{
			Name:  name,
			Type:  typ,
			Leng:  width,
			Slice: ByteRange{Begin: tbcol, End: tbcol + width},
		})
	}
	return fields, nil
}

func parseTFormWidth(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// WriteHDU encodes hdu's card deck and body to w, running the Verifier
// against the current body's DataFormat first so the written header is
// always internally consistent.
//
// Grounded on encode.go's EncodeHDU and table.go/image.go's freeze().
func WriteHDU(w io.Writer, hdu *HDU, opts Options) error {
	var df DataFormat
	var err error

	switch hdu.Variant {
	case Bintable:
		df, err = writeBodyBintable(hdu)
		if err != nil {
			return err
		}
	case Table:
		df, err = writeBodyAscii(hdu)
		if err != nil {
			return err
		}
	default:
		df = hdu.Format
	}

	Verify(hdu.Cards, hdu.Variant, df, opts)

	if err := writeHeader(w, hdu.Cards, opts); err != nil {
		return err
	}

	switch hdu.Variant {
	case Primary, Image, Random:
		arr := hdu.Body.Array
		if arr == nil {
			arr = &ArrayData{}
		}
		return (imageCodec{}).writeArray(w, df, arr)

	case Bintable:
		_, err := writeBintableBody(w, hdu.Fields, hdu.Body, opts)
		return err

	case Table:
		_, err := writeAsciiTableBody(w, hdu.Fields, hdu.Body, opts)
		return err

	default:
		return writeOpaqueBody(w, hdu.Body)
	}
}

// writeBodyBintable precomputes the Bintable body's encoding into a
// throwaway buffer purely to learn its resulting DataFormat (heap size
// and offset) before the real header is written; WriteHDU's later call
// to writeBintableBody repeats the encode against the real writer.
func writeBodyBintable(hdu *HDU) (DataFormat, error) {
	return dryRunBintable(hdu.Fields, hdu.Body)
}

func writeBodyAscii(hdu *HDU) (DataFormat, error) {
	recLen := asciiRecordWidth(hdu.Fields)
	nrows := len(hdu.Body.Records)
	if hdu.Body.Kind == BodyColumns {
		nrows = columnsLen(hdu.Body.Columns)
	}
	df := DataFormat{Type: TypeUint8, Shape: []int{recLen, nrows}, Param: 0, Group: 1}
	df.Leng = df.NumElems()
	return df, nil
}

func dryRunBintable(fields []BinaryField, body Body) (DataFormat, error) {
	return writeBintableBody(io.Discard, fields, body, DefaultOptions())
}
