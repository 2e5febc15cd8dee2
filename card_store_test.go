package fits

import "testing"

func TestCardListFindGetSet(t *testing.T) {
	cards := NewCardList(
		Card{Key: "SIMPLE", Value: true, Comment: "conforms"},
		Card{Key: "BITPIX", Value: 8, Comment: "bits"},
	)

	if !cards.Has("SIMPLE") {
		t.Fatalf("expected SIMPLE to be present")
	}
	if cards.Has("MISSING") {
		t.Fatalf("expected MISSING to be absent")
	}

	v, err := cards.Get("BITPIX")
	if err != nil {
		t.Fatalf("Get(BITPIX): %v", err)
	}
	if v != 8 {
		t.Fatalf("expected BITPIX=8, got %v", v)
	}

	if _, err := cards.Get("MISSING"); err == nil {
		t.Fatalf("expected an error for a missing key")
	}

	if got := cards.GetDefault("MISSING", 42); got != 42 {
		t.Fatalf("expected default 42, got %v", got)
	}

	if err := cards.Set("BITPIX", 16); err != nil {
		t.Fatalf("Set(BITPIX): %v", err)
	}
	v, _ = cards.Get("BITPIX")
	if v != 16 {
		t.Fatalf("expected BITPIX=16 after Set, got %v", v)
	}

	if err := cards.Set("MISSING", 1); err == nil {
		t.Fatalf("expected Set on a missing key to fail")
	}
}

func TestCardListUpsert(t *testing.T) {
	cards := NewCardList()
	cards.Upsert("NAXIS", 0, "number of axes")
	v, _ := cards.Get("NAXIS")
	if v != 0 {
		t.Fatalf("expected NAXIS=0, got %v", v)
	}

	cards.Upsert("NAXIS", 2, "number of axes")
	v, _ = cards.Get("NAXIS")
	if v != 2 {
		t.Fatalf("expected NAXIS=2 after second Upsert, got %v", v)
	}
	if len(cards.All()) != 1 {
		t.Fatalf("expected exactly one NAXIS card, got %d", len(cards.All()))
	}
}

func TestCardListPop(t *testing.T) {
	cards := NewCardList(
		Card{Key: "A", Value: 1},
		Card{Key: "B", Value: 2},
		Card{Key: "C", Value: 3},
	)
	v := cards.Pop("B", nil)
	if v != 2 {
		t.Fatalf("expected popped value 2, got %v", v)
	}
	if cards.Has("B") {
		t.Fatalf("expected B to be gone after Pop")
	}
	if len(cards.All()) != 2 {
		t.Fatalf("expected 2 remaining cards, got %d", len(cards.All()))
	}

	if v := cards.Pop("NOPE", "default"); v != "default" {
		t.Fatalf("expected Pop(NOPE) to return the default, got %v", v)
	}
}

func TestCardListAppendPrepend(t *testing.T) {
	cards := NewCardList(Card{Key: "B", Value: 2})
	cards.Append(Card{Key: "C", Value: 3})
	cards.Prepend(Card{Key: "A", Value: 1})

	keys := cards.Keys()
	want := []string{"A", "B", "C"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
}

func TestCardListClone(t *testing.T) {
	orig := NewCardList(Card{Key: "A", Value: 1})
	clone := orig.Clone()
	clone.Set("A", 2)
	clone.Append(Card{Key: "B", Value: 3})

	v, _ := orig.Get("A")
	if v != 1 {
		t.Fatalf("expected original to be untouched, got A=%v", v)
	}
	if orig.Has("B") {
		t.Fatalf("expected original to not gain B from clone mutation")
	}
}

func TestCardListNoEnd(t *testing.T) {
	cards := NewCardList(Card{Key: "END"}, Card{Key: "SIMPLE", Value: true})
	if cards.Has("END") {
		t.Fatalf("expected END to never be stored in a CardList")
	}

	cards.Append(Card{Key: "END"})
	cards.Prepend(Card{Key: "END"})
	if cards.Has("END") {
		t.Fatalf("expected Append/Prepend to also drop END cards")
	}
}
