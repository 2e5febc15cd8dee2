package fits

import "testing"

func TestVerifyRepairsMismatch(t *testing.T) {
	cards := NewCardList(
		Card{Key: "BITPIX", Value: 8},
		Card{Key: "NAXIS", Value: 1},
		Card{Key: "NAXIS1", Value: 999},
	)
	df := DataFormat{Type: TypeFloat32, Shape: []int{4, 4}, Group: 1}

	var warnings []string
	opts := NewOptions(WithWarn(func(msg string) { warnings = append(warnings, msg) }))

	Verify(cards, Image, df, opts)

	bitpix, _ := cards.Get("BITPIX")
	if bitpix != -32 {
		t.Fatalf("expected BITPIX repaired to -32, got %v", bitpix)
	}
	naxis, _ := cards.Get("NAXIS")
	if naxis != 2 {
		t.Fatalf("expected NAXIS repaired to 2, got %v", naxis)
	}
	naxis1, _ := cards.Get("NAXIS1")
	if naxis1 != 4 {
		t.Fatalf("expected NAXIS1 repaired to 4, got %v", naxis1)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected at least one warning for the repaired cards")
	}
}

func TestVerifyNoWarningWhenConsistent(t *testing.T) {
	cards := NewCardList(
		Card{Key: "BITPIX", Value: -32},
		Card{Key: "NAXIS", Value: 2},
		Card{Key: "NAXIS1", Value: 4},
		Card{Key: "NAXIS2", Value: 4},
	)
	df := DataFormat{Type: TypeFloat32, Shape: []int{4, 4}, Group: 1}

	var warnings []string
	opts := NewOptions(WithWarn(func(msg string) { warnings = append(warnings, msg) }))
	Verify(cards, Image, df, opts)

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings for an already-consistent header, got %v", warnings)
	}
}

func TestVerifyBintablePcountIsHeapBytes(t *testing.T) {
	cards := NewCardList()
	df := DataFormat{Type: TypeUint8, Shape: []int{16, 4}, Param: 128, Group: 1}
	Verify(cards, Bintable, df, DefaultOptions())

	pcount, _ := cards.Get("PCOUNT")
	if pcount != 128 {
		t.Fatalf("expected PCOUNT=128 (heap bytes), got %v", pcount)
	}
	gcount, _ := cards.Get("GCOUNT")
	if gcount != 1 {
		t.Fatalf("expected GCOUNT=1, got %v", gcount)
	}
}
