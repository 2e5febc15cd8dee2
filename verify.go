// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import "fmt"

// Verify reconciles cards against a freshly computed DataFormat,
// per §4.5: BITPIX, NAXIS and NAXISn are recomputed from df for every
// variant, PCOUNT and GCOUNT only for Random, Bintable and Table, and
// any mismatch against the stored card overwrites the card and
// emits a warning through opts.Warn. Verify never fails: the header is
// always left internally consistent for a write.
//
// This generalizes the teacher's table.go freeze(), which silently
// recomputes NAXIS1/NAXIS2/PCOUNT/GCOUNT with no warning path; here the
// overwrite is the same but observable.
func Verify(cards *CardList, variant HDUVariant, df DataFormat, opts Options) {
	bitpix, hasBitpix := type2bits[df.Type]
	if !hasBitpix {
		bitpix = 8
	}
	verifyInt(cards, "BITPIX", bitpix, "number of bits per data pixel", opts)
	verifyInt(cards, "NAXIS", len(df.Shape), "number of data axes", opts)
	for i, n := range df.Shape {
		key := fmt.Sprintf("NAXIS%d", i+1)
		comment := fmt.Sprintf("length of data axis %d", i+1)
		verifyInt(cards, key, n, comment, opts)
	}

	switch variant {
	case Random:
		verifyInt(cards, "PCOUNT", df.Param, "number of group parameters", opts)
		verifyInt(cards, "GCOUNT", df.Group, "number of groups", opts)
	case Bintable, Table:
		verifyInt(cards, "PCOUNT", df.Param, "heap area size (bytes)", opts)
		verifyInt(cards, "GCOUNT", df.Group, "one data group", opts)
	}
}

func verifyInt(cards *CardList, key string, want int, comment string, opts Options) {
	got, ok := asInt(cards.GetDefault(key, nil))
	if ok && got == want {
		return
	}
	if ok {
		opts.warn("fits: repairing %s: had %d, computed %d", key, got, want)
	}
	cards.Upsert(key, want, comment)
}
