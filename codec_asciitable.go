// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readAsciiTableBody decodes an ASCII Table body: fixed-width text
// columns, no heap, no bit-vectors, parsed per field via TBCOL/TFORM.
//
// Grounded on column.go's readTxt (string-trim-then-strconv.Parse*)
// and utils.go's txtfmtFromForm.
func readAsciiTableBody(r io.Reader, df DataFormat, fields []BinaryField, opts Options) (Body, error) {
	nrows := 0
	recLen := 0
	if len(df.Shape) >= 2 {
		recLen, nrows = df.Shape[0], df.Shape[1]
	}
	mainSize := recLen * nrows

	main := make([]byte, mainSize)
	if mainSize > 0 {
		if _, err := io.ReadFull(r, main); err != nil {
			return Body{}, &StreamError{Op: "read ascii table rows", Err: err}
		}
	}
	if err := skip(r, padBlock(mainSize)); err != nil {
		return Body{}, &StreamError{Op: "skip ascii table pad", Err: err}
	}

	if opts.Record {
		records := make([]Record, nrows)
		for i := 0; i < nrows; i++ {
			row := main[i*recLen : (i+1)*recLen]
			rec := make(Record, len(fields))
			for _, f := range fields {
				v, err := decodeAsciiField(row, f)
				if err != nil {
					return Body{}, err
				}
				rec[f.Name] = v
			}
			records[i] = rec
		}
		return Body{Kind: BodyRecords, Records: records}, nil
	}

	cols := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		col := make([]interface{}, nrows)
		for i := 0; i < nrows; i++ {
			row := main[i*recLen : (i+1)*recLen]
			v, err := decodeAsciiField(row, f)
			if err != nil {
				return Body{}, err
			}
			col[i] = v
		}
		cols[f.Name] = col
	}
	return Body{Kind: BodyColumns, Columns: cols}, nil
}

func decodeAsciiField(row []byte, f BinaryField) (interface{}, error) {
	slice := row[f.Slice.Begin-1 : f.Slice.End-1]
	str := strings.TrimSpace(string(slice))

	switch f.Type {
	case TypeString:
		return str, nil
	case TypeInt64:
		if str == "" {
			return int64(0), nil
		}
		v, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return nil, &MalformedFieldError{Reason: fmt.Sprintf("ascii column %q: %v", f.Name, err)}
		}
		return v, nil
	case TypeFloat64:
		if str == "" {
			return float64(0), nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, &MalformedFieldError{Reason: fmt.Sprintf("ascii column %q: %v", f.Name, err)}
		}
		return v, nil
	default:
		return nil, &MalformedFieldError{Reason: fmt.Sprintf("ascii table: unsupported field type %s", f.Type)}
	}
}

// asciiRecordWidth returns the row width implied by fields' absolute
// TBCOL-based byte ranges, which (unlike a Bintable's always-
// contiguous-from-1 fields) may leave gaps between columns; summing
// individual widths (RecordWidth) would then undercount the row.
func asciiRecordWidth(fields []BinaryField) int {
	w := 0
	for _, f := range fields {
		if f.Slice.End-1 > w {
			w = f.Slice.End - 1
		}
	}
	return w
}

// writeAsciiTableBody encodes an ASCII Table body, right-justifying
// numeric fields and left-justifying strings within each field's fixed
// column width.
func writeAsciiTableBody(w io.Writer, fields []BinaryField, body Body, opts Options) (DataFormat, error) {
	recLen := asciiRecordWidth(fields)
	var rows []Record
	switch body.Kind {
	case BodyRecords:
		rows = body.Records
	case BodyColumns:
		rows = columnsToRecords(fields, body.Columns)
	}

	main := make([]byte, 0, recLen*len(rows))
	for _, rec := range rows {
		row := make([]byte, recLen)
		for i := range row {
			row[i] = ' '
		}
		for _, f := range fields {
			if err := encodeAsciiField(row, f, rec[f.Name]); err != nil {
				return DataFormat{}, err
			}
		}
		main = append(main, row...)
	}

	if _, err := w.Write(main); err != nil {
		return DataFormat{}, &StreamError{Op: "write ascii table rows", Err: err}
	}
	if err := writePad(w, padBlock(len(main))); err != nil {
		return DataFormat{}, err
	}

	df := DataFormat{Type: TypeUint8, Shape: []int{recLen, len(rows)}, Param: 0, Group: 1}
	df.Leng = df.NumElems()
	return df, nil
}

func encodeAsciiField(row []byte, f BinaryField, v interface{}) error {
	slice := row[f.Slice.Begin-1 : f.Slice.End-1]
	var text string
	switch x := v.(type) {
	case string:
		text = x
	case int64:
		text = strconv.FormatInt(x, 10)
	case int:
		text = strconv.Itoa(x)
	case float64:
		text = strconv.FormatFloat(x, 'G', -1, 64)
	case nil:
		text = ""
	default:
		text = fmt.Sprint(x)
	}

	for i := range slice {
		slice[i] = ' '
	}
	if f.Type == TypeString {
		copy(slice, text)
		return nil
	}
	if len(text) > len(slice) {
		return &MalformedFieldError{Reason: fmt.Sprintf("ascii column %q: value %q too wide for %d-byte field", f.Name, text, len(slice))}
	}
	copy(slice[len(slice)-len(text):], text)
	return nil
}
