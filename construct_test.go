package fits

import "testing"

func TestNewHDUPrimaryFromData(t *testing.T) {
	hdu, err := NewHDU([]float64{1, 2, 3, 4}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if hdu.Variant != Primary {
		t.Fatalf("expected Primary, got %v", hdu.Variant)
	}
	simple, _ := hdu.Cards.Get("SIMPLE")
	if simple != true {
		t.Fatalf("expected SIMPLE=true, got %v", simple)
	}
	bitpix, _ := hdu.Cards.Get("BITPIX")
	if bitpix != -64 {
		t.Fatalf("expected BITPIX=-64 for []float64 data, got %v", bitpix)
	}
	if hdu.Body.Kind != BodyArray {
		t.Fatalf("expected BodyArray, got %v", hdu.Body.Kind)
	}
}

func TestNewHDUBintableFromStruct(t *testing.T) {
	type row struct {
		Count int32   `fits:"COUNT"`
		Value float64 `fits:"VALUE"`
	}
	data := []row{{1, 1.5}, {2, 2.5}, {3, 3.5}}

	hdu, err := NewHDU(data, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if hdu.Variant != Bintable {
		t.Fatalf("expected Bintable, got %v", hdu.Variant)
	}
	if len(hdu.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(hdu.Fields))
	}
	tfields, _ := hdu.Cards.Get("TFIELDS")
	if tfields != 2 {
		t.Fatalf("expected TFIELDS=2, got %v", tfields)
	}
	naxis2, _ := hdu.Cards.Get("NAXIS2")
	if naxis2 != 3 {
		t.Fatalf("expected NAXIS2=3, got %v", naxis2)
	}
	if hdu.Body.Kind != BodyRecords || len(hdu.Body.Records) != 3 {
		t.Fatalf("expected 3 populated records, got %#v", hdu.Body)
	}
	if hdu.Body.Records[1]["COUNT"] != int32(2) {
		t.Fatalf("expected row 1 COUNT=2, got %v", hdu.Body.Records[1]["COUNT"])
	}
}

func TestNewHDUPreservesExistingCardComment(t *testing.T) {
	cards := NewCardList(Card{Key: "EXTNAME", Value: "my data", Comment: "a custom name"})
	hdu, err := NewHDU([]float64{1, 2}, cards, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if hdu.Name() != "my data" {
		t.Fatalf("expected EXTNAME preserved, got %q", hdu.Name())
	}
	i := hdu.Cards.Find("EXTNAME")
	if i < 0 || hdu.Cards.All()[i].Comment != "a custom name" {
		t.Fatalf("expected EXTNAME comment preserved")
	}
}

func TestNewHDUNoDataZeroBody(t *testing.T) {
	cards := NewCardList(
		Card{Key: "XTENSION", Value: "IMAGE   "},
		Card{Key: "BITPIX", Value: 16},
		Card{Key: "NAXIS", Value: 1},
		Card{Key: "NAXIS1", Value: 5},
	)
	hdu, err := NewHDU(nil, cards, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	arr, ok := hdu.Body.Array.Elems.([]int16)
	if !ok {
		t.Fatalf("expected a zero []int16 array, got %T", hdu.Body.Array.Elems)
	}
	if len(arr) != 5 {
		t.Fatalf("expected 5 zero elements, got %d", len(arr))
	}
}
