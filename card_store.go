// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"strings"

	"github.com/gofits/fits/card"
)

// Card is an alias of card.Card: a keyword/value/comment triple. The
// lexing of an 80-byte line into a Card (and back) is the job of
// package card; CardList only ever inspects .Key and .Value.
type Card = card.Card

// CardList is an ordered sequence of Cards with keyword-indexed
// lookup. It never contains an END card: END is implied and appended
// only at write time (see §3's invariant and §9's design note).
//
// Lookup is first-match by exact, case-normalized keyword, in O(n);
// callers rely on insertion order being preserved across mutation,
// mirroring the teacher's Header.cards linear-scan contract.
type CardList struct {
	cards []Card
}

// NewCardList builds a CardList from a slice of Cards, dropping any
// END card (the in-memory list never carries one).
func NewCardList(cards ...Card) *CardList {
	cl := &CardList{cards: make([]Card, 0, len(cards))}
	for _, c := range cards {
		if strings.ToUpper(c.Key) == "END" {
			continue
		}
		cl.cards = append(cl.cards, c)
	}
	return cl
}

// Len returns the number of cards in the list.
func (cl *CardList) Len() int { return len(cl.cards) }

// All returns the cards in disk order. The returned slice aliases the
// CardList's storage and must not be mutated by the caller.
func (cl *CardList) All() []Card { return cl.cards }

func normalize(key string) string { return strings.ToUpper(strings.TrimSpace(key)) }

// Find returns the zero-based position of the first card whose
// keyword equals key, or -1 if none match.
func (cl *CardList) Find(key string) int {
	key = normalize(key)
	for i := range cl.cards {
		if normalize(cl.cards[i].Key) == key {
			return i
		}
	}
	return -1
}

// Has reports whether some card's keyword equals key.
func (cl *CardList) Has(key string) bool {
	return cl.Find(key) >= 0
}

// Get returns the value of the first card matching key, failing with
// *KeyNotFoundError when absent.
func (cl *CardList) Get(key string) (interface{}, error) {
	i := cl.Find(key)
	if i < 0 {
		return nil, &KeyNotFoundError{Key: key}
	}
	return cl.cards[i].Value, nil
}

// GetDefault returns the value of the first card matching key, or def
// when absent. It never fails.
func (cl *CardList) GetDefault(key string, def interface{}) interface{} {
	i := cl.Find(key)
	if i < 0 {
		return def
	}
	return cl.cards[i].Value
}

// GetMany is the tuple form of GetDefault: it returns one value per
// (key, default) pair, in order.
func (cl *CardList) GetMany(keys []string, defs []interface{}) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		var def interface{}
		if i < len(defs) {
			def = defs[i]
		}
		out[i] = cl.GetDefault(k, def)
	}
	return out
}

// Set replaces the value of the first card matching key, preserving
// its keyword and comment. It fails with *KeyNotFoundError when
// absent; use Append or Upsert to add a new card.
func (cl *CardList) Set(key string, value interface{}) error {
	i := cl.Find(key)
	if i < 0 {
		return &KeyNotFoundError{Key: key}
	}
	cl.cards[i].Value = value
	return nil
}

// Upsert sets the value (and, if newly created, the comment) of the
// first card matching key, appending a new card when absent. This is
// the primitive the Verifier and Constructor use to self-heal or
// synthesize mandatory cards.
func (cl *CardList) Upsert(key string, value interface{}, comment string) {
	i := cl.Find(key)
	if i < 0 {
		cl.Append(Card{Key: key, Value: value, Comment: comment})
		return
	}
	cl.cards[i].Value = value
}

// Find returns the position of key, or none; Pop additionally removes
// it.
//
// Pop removes and returns the first card matching key, returning def
// when absent.
func (cl *CardList) Pop(key string, def interface{}) interface{} {
	i := cl.Find(key)
	if i < 0 {
		return def
	}
	v := cl.cards[i].Value
	cl.cards = append(cl.cards[:i], cl.cards[i+1:]...)
	return v
}

// Append adds cards to the end of the list, in order. END cards are
// silently dropped, matching the list's no-END invariant.
func (cl *CardList) Append(cards ...Card) {
	for _, c := range cards {
		if strings.ToUpper(c.Key) == "END" {
			continue
		}
		cl.cards = append(cl.cards, c)
	}
}

// Prepend inserts cards at the front of the list, in order, ahead of
// any existing card. Used by the Constructor to lay down the
// mandatory-card prefix ahead of a user-supplied deck.
func (cl *CardList) Prepend(cards ...Card) {
	keep := make([]Card, 0, len(cards))
	for _, c := range cards {
		if strings.ToUpper(c.Key) == "END" {
			continue
		}
		keep = append(keep, c)
	}
	cl.cards = append(keep, cl.cards...)
}

// Clone returns a deep-enough copy of the list (the Card values are
// copied; nothing in a Card is itself mutable in place).
func (cl *CardList) Clone() *CardList {
	out := make([]Card, len(cl.cards))
	copy(out, cl.cards)
	return &CardList{cards: out}
}

// Keys returns the keyword of every card, skipping the duplicate-
// bearing structural keywords COMMENT/HISTORY/"" and (defensively)
// END.
func (cl *CardList) Keys() []string {
	keys := make([]string, 0, len(cl.cards))
	for _, c := range cl.cards {
		switch strings.ToUpper(c.Key) {
		case "END", "COMMENT", "HISTORY", "":
			continue
		default:
			keys = append(keys, c.Key)
		}
	}
	return keys
}
