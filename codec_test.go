package fits

import (
	"bytes"
	"io"
	"testing"
)

func roundTrip(t *testing.T, hdu *HDU, opts Options) *HDU {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := WriteHDU(buf, hdu, opts); err != nil {
		t.Fatalf("WriteHDU: %v", err)
	}
	if buf.Len()%blockSize != 0 {
		t.Fatalf("expected output padded to a block boundary, got %d bytes", buf.Len())
	}
	got, err := ReadHDU(buf, opts)
	if err != nil {
		t.Fatalf("ReadHDU: %v", err)
	}
	return got
}

func TestImageRoundTrip(t *testing.T) {
	hdu, err := NewHDU([][]float32{{1, 2, 3}, {4, 5, 6}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	got := roundTrip(t, hdu, DefaultOptions())

	if got.Variant != Primary {
		t.Fatalf("expected Primary, got %v", got.Variant)
	}
	pix, ok := got.Body.Array.Elems.([]float32)
	if !ok {
		t.Fatalf("expected []float32, got %T", got.Body.Array.Elems)
	}
	want := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range want {
		if pix[i] != v {
			t.Fatalf("pixel %d: expected %v, got %v", i, v, pix[i])
		}
	}
}

func TestRandomGroupsRoundTrip(t *testing.T) {
	type group struct {
		U, V float32
		Data [][]float32
	}
	data := []group{
		{U: 1, V: 2, Data: [][]float32{{1, 2}, {3, 4}}},
		{U: 5, V: 6, Data: [][]float32{{7, 8}, {9, 10}}},
	}
	hdu, err := NewHDU(data, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if hdu.Variant != Random {
		t.Fatalf("expected Random, got %v", hdu.Variant)
	}

	got := roundTrip(t, hdu, DefaultOptions())
	if got.Format.Param != 2 || got.Format.Group != 2 {
		t.Fatalf("unexpected format after round trip: %#v", got.Format)
	}
	if len(got.Body.Array.Params) != 2 {
		t.Fatalf("expected 2 groups of parameters, got %d", len(got.Body.Array.Params))
	}
	if got.Body.Array.Params[0][0] != 1 || got.Body.Array.Params[0][1] != 2 {
		t.Fatalf("unexpected group 0 parameters: %v", got.Body.Array.Params[0])
	}
}

func TestBintableRoundTripColumns(t *testing.T) {
	type row struct {
		Count int32   `fits:"COUNT"`
		Value float64 `fits:"VALUE"`
		Name  string  `fits:"NAME"`
	}
	data := []row{
		{Count: 1, Value: 1.5, Name: "alpha"},
		{Count: 2, Value: 2.5, Name: "beta"},
	}
	hdu, err := NewHDU(data, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}

	got := roundTrip(t, hdu, DefaultOptions())
	if got.Variant != Bintable {
		t.Fatalf("expected Bintable, got %v", got.Variant)
	}
	col, ok := got.Body.Columns["COUNT"].([]interface{})
	if !ok {
		t.Fatalf("expected a COUNT column, got %#v", got.Body.Columns["COUNT"])
	}
	if col[0] != int32(1) || col[1] != int32(2) {
		t.Fatalf("unexpected COUNT column: %v", col)
	}
	names, ok := got.Body.Columns["NAME"].([]interface{})
	if !ok {
		t.Fatalf("expected a NAME column, got %#v", got.Body.Columns["NAME"])
	}
	if names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("unexpected NAME column: %v", names)
	}
}

func TestBintableRoundTripRecordMode(t *testing.T) {
	type row struct {
		Count int32 `fits:"COUNT"`
	}
	data := []row{{Count: 7}, {Count: 8}}
	opts := NewOptions(WithRecord(true))

	hdu, err := NewHDU(data, nil, opts)
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	got := roundTrip(t, hdu, opts)
	if got.Body.Kind != BodyRecords {
		t.Fatalf("expected BodyRecords, got %v", got.Body.Kind)
	}
	if got.Body.Records[0]["COUNT"] != int32(7) || got.Body.Records[1]["COUNT"] != int32(8) {
		t.Fatalf("unexpected records: %#v", got.Body.Records)
	}
}

func TestBintableRoundTripBitVector(t *testing.T) {
	cards := NewCardList(
		Card{Key: "XTENSION", Value: "BINTABLE"},
		Card{Key: "TFIELDS", Value: 1},
		Card{Key: "TFORM1", Value: "13X"},
		Card{Key: "TTYPE1", Value: "FLAGS"},
	)
	bits := []bool{
		true, false, true, true, false, false, true, false,
		true, true, false, false, true,
	}
	body := Body{Kind: BodyRecords, Records: []Record{{"FLAGS": bits}}}

	fields, err := BuildFieldsFromCards(cards)
	if err != nil {
		t.Fatalf("BuildFieldsFromCards: %v", err)
	}
	hdu := &HDU{Variant: Bintable, Cards: cards, Fields: fields, Body: body, Format: DataFormat{Type: TypeUint8, Shape: []int{2, 1}, Group: 1}}

	got := roundTrip(t, hdu, NewOptions(WithRecord(true)))
	col, ok := got.Body.Records[0]["FLAGS"].([]bool)
	if !ok {
		t.Fatalf("expected []bool, got %T", got.Body.Records[0]["FLAGS"])
	}
	for i, b := range bits {
		if col[i] != b {
			t.Fatalf("bit %d: expected %v, got %v", i, b, col[i])
		}
	}
}

func TestAsciiTableRoundTrip(t *testing.T) {
	cards := NewCardList(
		Card{Key: "XTENSION", Value: "TABLE   "},
		Card{Key: "TFIELDS", Value: 2},
		Card{Key: "TBCOL1", Value: 1},
		Card{Key: "TFORM1", Value: "I6"},
		Card{Key: "TTYPE1", Value: "COUNT"},
		Card{Key: "TBCOL2", Value: 8},
		Card{Key: "TFORM2", Value: "A5"},
		Card{Key: "TTYPE2", Value: "NAME"},
	)
	fields, err := fieldsFromAsciiCards(cards)
	if err != nil {
		t.Fatalf("fieldsFromAsciiCards: %v", err)
	}
	body := Body{Kind: BodyColumns, Columns: map[string]interface{}{
		"COUNT": []interface{}{int64(42), int64(7)},
		"NAME":  []interface{}{"abc", "de"},
	}}
	recLen := RecordWidth(fields)
	hdu := &HDU{
		Variant: Table, Cards: cards, Fields: fields, Body: body,
		Format: DataFormat{Type: TypeUint8, Shape: []int{recLen, 2}, Group: 1},
	}

	got := roundTrip(t, hdu, DefaultOptions())
	col := got.Body.Columns["COUNT"].([]interface{})
	if col[0] != int64(42) || col[1] != int64(7) {
		t.Fatalf("unexpected COUNT column: %v", col)
	}
	names := got.Body.Columns["NAME"].([]interface{})
	if names[0] != "abc" || names[1] != "de" {
		t.Fatalf("unexpected NAME column: %v", names)
	}
}

func TestOpaqueBodyRoundTrip(t *testing.T) {
	cards := NewCardList(
		Card{Key: "XTENSION", Value: "FOREIGN "},
		Card{Key: "BITPIX", Value: 8},
		Card{Key: "NAXIS", Value: 1},
		Card{Key: "NAXIS1", Value: 4},
	)
	hdu := &HDU{
		Variant: Foreign, Cards: cards,
		Format: DataFormat{Type: TypeUint8, Shape: []int{4}, Group: 1},
		Body:   Body{Kind: BodyOpaque, Raw: []byte{1, 2, 3, 4}},
	}
	got := roundTrip(t, hdu, DefaultOptions())
	if got.Variant != Foreign {
		t.Fatalf("expected Foreign, got %v", got.Variant)
	}
	if !bytes.Equal(got.Body.Raw, []byte{1, 2, 3, 4}) {
		t.Fatalf("unexpected opaque body: %v", got.Body.Raw)
	}
}

func TestOpenStopsCleanlyAtEOF(t *testing.T) {
	hdu, err := NewHDU([]float64{1, 2, 3}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	buf := new(bytes.Buffer)
	if err := WriteHDU(buf, hdu, DefaultOptions()); err != nil {
		t.Fatalf("WriteHDU: %v", err)
	}

	f, err := Open(buf)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(f.HDUs()) != 1 {
		t.Fatalf("expected exactly 1 HDU, got %d", len(f.HDUs()))
	}

	// a second ReadHDU call against the exhausted stream must report a
	// clean io.EOF, not a truncation error.
	if _, err := ReadHDU(buf, DefaultOptions()); err != io.EOF {
		t.Fatalf("expected io.EOF at a clean end of stream, got %v", err)
	}
}
