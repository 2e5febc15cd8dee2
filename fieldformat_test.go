package fits

import (
	"reflect"
	"testing"
)

func TestParseTForm(t *testing.T) {
	for _, table := range []struct {
		form   string
		repeat int
		pntr   PointerType
		code   byte
	}{
		{form: "1J", repeat: 1, pntr: NoPointer, code: 'J'},
		{form: "E", repeat: 1, pntr: NoPointer, code: 'E'},
		{form: "20A", repeat: 20, pntr: NoPointer, code: 'A'},
		{form: "13X", repeat: 13, pntr: NoPointer, code: 'X'},
		{form: "1PE(5)", repeat: 1, pntr: PointerUint32, code: 'E'},
		{form: "1QJ(10)", repeat: 1, pntr: PointerUint64, code: 'J'},
	} {
		repeat, pntr, code, _, err := ParseTForm(1, table.form)
		if err != nil {
			t.Fatalf("ParseTForm(%q): %v", table.form, err)
		}
		if repeat != table.repeat || pntr != table.pntr || code != table.code {
			t.Fatalf("ParseTForm(%q): expected (%d,%v,%c), got (%d,%v,%c)",
				table.form, table.repeat, table.pntr, table.code, repeat, pntr, code)
		}
	}
}

func TestParseTFormInvalid(t *testing.T) {
	if _, _, _, _, err := ParseTForm(1, "not-a-tform"); err == nil {
		t.Fatalf("expected an error for a malformed TFORM")
	}
}

func TestBuildFieldsFromCards(t *testing.T) {
	cards := NewCardList(
		Card{Key: "TFIELDS", Value: 2},
		Card{Key: "TFORM1", Value: "1J"},
		Card{Key: "TTYPE1", Value: "COUNT"},
		Card{Key: "TFORM2", Value: "10A"},
		Card{Key: "TTYPE2", Value: "NAME"},
	)
	fields, err := BuildFieldsFromCards(cards)
	if err != nil {
		t.Fatalf("BuildFieldsFromCards: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Name != "COUNT" || fields[0].Type != TypeInt32 {
		t.Fatalf("unexpected first field: %#v", fields[0])
	}
	if fields[0].Slice.Begin != 1 || fields[0].Slice.End != 5 {
		t.Fatalf("unexpected byte range for field 0: %#v", fields[0].Slice)
	}
	if fields[1].Name != "NAME" || fields[1].Type != TypeString || fields[1].Leng != 10 {
		t.Fatalf("unexpected second field: %#v", fields[1])
	}
	if fields[1].Slice.Begin != 5 || fields[1].Slice.End != 15 {
		t.Fatalf("unexpected byte range for field 1: %#v", fields[1].Slice)
	}
}

func TestBuildFieldsFromCardsMissingTForm(t *testing.T) {
	cards := NewCardList(Card{Key: "TFIELDS", Value: 1})
	if _, err := BuildFieldsFromCards(cards); err == nil {
		t.Fatalf("expected an error for a missing TFORM1")
	}
}

func TestFieldsFromStruct(t *testing.T) {
	type row struct {
		Count int32   `fits:"COUNT"`
		Value float64 `fits:"VALUE"`
		Name  string
	}
	fields, err := fieldsFromRecordType(reflect.ValueOf(row{Count: 1, Value: 2, Name: "abc"}))
	if err != nil {
		t.Fatalf("fieldsFromRecordType: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Name != "COUNT" || fields[1].Name != "VALUE" || fields[2].Name != "Name" {
		t.Fatalf("unexpected field names: %v %v %v", fields[0].Name, fields[1].Name, fields[2].Name)
	}
	if fields[2].Type != TypeString || fields[2].Leng != 3 {
		t.Fatalf("unexpected string field: %#v", fields[2])
	}
	if RecordWidth(fields) != fields[0].Slice.Width()+fields[1].Slice.Width()+fields[2].Slice.Width() {
		t.Fatalf("RecordWidth disagrees with per-field widths")
	}
}
