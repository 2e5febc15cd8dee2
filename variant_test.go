package fits

import "testing"

func TestDetectVariantFromCards(t *testing.T) {
	for _, table := range []struct {
		name  string
		cards *CardList
		want  HDUVariant
	}{
		{
			name:  "primary",
			cards: NewCardList(Card{Key: "SIMPLE", Value: true}),
			want:  Primary,
		},
		{
			name: "random groups",
			cards: NewCardList(
				Card{Key: "SIMPLE", Value: true},
				Card{Key: "GROUPS", Value: true},
				Card{Key: "NAXIS1", Value: 0},
			),
			want: Random,
		},
		{
			name:  "image extension",
			cards: NewCardList(Card{Key: "XTENSION", Value: "IMAGE   "}),
			want:  Image,
		},
		{
			name:  "ascii table extension",
			cards: NewCardList(Card{Key: "XTENSION", Value: "TABLE   "}),
			want:  Table,
		},
		{
			name:  "binary table extension",
			cards: NewCardList(Card{Key: "XTENSION", Value: "BINTABLE"}),
			want:  Bintable,
		},
		{
			name: "compressed image",
			cards: NewCardList(
				Card{Key: "XTENSION", Value: "BINTABLE"},
				Card{Key: "ZIMAGE", Value: true},
			),
			want: ZImage,
		},
		{
			name: "compressed table",
			cards: NewCardList(
				Card{Key: "XTENSION", Value: "BINTABLE"},
				Card{Key: "ZTABLE", Value: true},
			),
			want: ZTable,
		},
		{
			name:  "legacy IUE image",
			cards: NewCardList(Card{Key: "XTENSION", Value: "IUEIMAGE"}),
			want:  IUEImage,
		},
		{
			name:  "unknown xtension falls back to conform",
			cards: NewCardList(Card{Key: "XTENSION", Value: "WEIRDEXT"}),
			want:  Conform,
		},
	} {
		got, err := DetectVariant(nil, table.cards)
		if err != nil {
			t.Fatalf("%s: DetectVariant: %v", table.name, err)
		}
		if got != table.want {
			t.Fatalf("%s: expected variant %v, got %v", table.name, table.want, got)
		}
	}
}

func TestDetectVariantFromData(t *testing.T) {
	type row struct {
		X int32
		Y float64
	}

	for _, table := range []struct {
		name string
		data interface{}
		want HDUVariant
	}{
		{name: "numeric slice", data: []float64{1, 2, 3}, want: Primary},
		{name: "string slice", data: []string{"a", "b"}, want: Table},
		{name: "struct slice", data: []row{{1, 2}, {3, 4}}, want: Bintable},
	} {
		got, err := DetectVariant(table.data, nil)
		if err != nil {
			t.Fatalf("%s: DetectVariant: %v", table.name, err)
		}
		if got != table.want {
			t.Fatalf("%s: expected variant %v, got %v", table.name, table.want, got)
		}
	}
}

func TestDetectVariantNoInput(t *testing.T) {
	if _, err := DetectVariant(nil, nil); err == nil {
		t.Fatalf("expected an error when neither data nor cards are supplied")
	}
}

func TestDetectVariantCardsWinOverData(t *testing.T) {
	cards := NewCardList(Card{Key: "XTENSION", Value: "IMAGE   "})
	got, err := DetectVariant([]string{"irrelevant"}, cards)
	if err != nil {
		t.Fatalf("DetectVariant: %v", err)
	}
	if got != Image {
		t.Fatalf("expected mandatory keys to win over data, got %v", got)
	}
}

func TestCompressed(t *testing.T) {
	if !ZImage.Compressed() || !ZTable.Compressed() {
		t.Fatalf("expected ZImage/ZTable to report Compressed()")
	}
	if Bintable.Compressed() {
		t.Fatalf("expected Bintable to not report Compressed()")
	}
}
