// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofits/fits/card"
)

// maxCardsPerBlock is the number of 80-byte lines in one 2880-byte
// header block.
const maxCardsPerBlock = blockSize / card.Line

// mandatoryKeys is the §4.7 MANDATORYKEYS set. readHeader does not
// consult it or reservedKeys: every decoded card goes into the one
// CardList, and keyword lookups scan that list.
var mandatoryKeys = map[string]bool{
	"END": true, "SIMPLE": true, "XTENSION": true, "BITPIX": true,
	"NAXIS": true, "GROUPS": true, "PCOUNT": true, "GCOUNT": true,
	"THEAP": true, "TFIELDS": true, "TFORM": true, "TBCOL": true,
	"ZIMAGE": true, "ZTABLE": true, "ZBITPIX": true, "ZNAXIS": true,
	"ZTILE": true, "ZCMPTYPE": true, "ZNAME": true, "ZVAL": true,
}

// reservedKeys is the §4.7 RESERVEDKEYS set.
var reservedKeys = map[string]bool{
	"DATE": true, "ORIGIN": true, "AUTHOR": true, "OBSERVER": true,
	"TELESCOP": true, "BSCALE": true, "BZERO": true, "BUNIT": true,
	"BLANK": true, "DATAMAX": true, "DATAMIN": true,
	"TSCAL": true, "TZERO": true, "TNULL": true, "TTYPE": true,
	"TUNIT": true, "TDISP": true, "TDIM": true, "TDMAX": true,
	"TDMIN": true, "TLMAX": true, "TLMIN": true,
	"ZQUANTIZ": true, "ZDITHER0": true, "ZMASKCMP": true,
}

// readHeader reads 2880-byte blocks, 36 cards at a time, merging
// CONTINUE cards into the preceding long string, until an END card is
// seen. It returns the card deck (without END).
//
// Grounded on decode.go's streamDecoder.DecodeHDU block loop.
func readHeader(r io.Reader) (*CardList, error) {
	var deck []Card
	buf := make([]byte, blockSize)
	firstBlock := true

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF && firstBlock {
				// clean end of stream: no more HDUs follow.
				return nil, io.EOF
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, &ErrHeaderTruncatedType{}
			}
			return nil, &StreamError{Op: "read header block", Err: err}
		}
		firstBlock = false

		done := false
		for i := 0; i < maxCardsPerBlock; i++ {
			line := buf[i*card.Line : (i+1)*card.Line]
			c, err := card.Parse(line)
			if err != nil {
				return nil, &StreamError{Op: "parse card", Err: err}
			}

			if c.Key == "CONTINUE" {
				if len(deck) == 0 {
					return nil, &StreamError{Op: "parse card", Err: fmt.Errorf("fits: CONTINUE with no preceding string card")}
				}
				idx := len(deck) - 1
				str, _ := deck[idx].Value.(string)
				if strings.HasSuffix(str, "&") {
					str = str[:len(str)-1]
				}
				deck[idx].Value = str + c.Comment
				continue
			}

			if c.Key == "END" {
				done = true
				break
			}

			deck = append(deck, c)
		}

		if done {
			break
		}
	}

	return NewCardList(deck...), nil
}

// writeHeader renders cards followed by a synthesized END card, pads
// the stream to a block boundary, and writes it to w.
//
// Grounded on encode.go's header-writing half and card.Render's END
// handling.
func writeHeader(w io.Writer, cards *CardList, opts Options) error {
	n := 0
	ropt := opts.renderOptions()

	for _, c := range cards.All() {
		line, err := card.Render(c, ropt)
		if err != nil {
			return &StreamError{Op: "render card", Err: err}
		}
		if _, err := w.Write(line); err != nil {
			return &StreamError{Op: "write card", Err: err}
		}
		n += len(line)
	}

	endLine, err := card.Render(Card{Key: "END"}, ropt)
	if err != nil {
		return err
	}
	if _, err := w.Write(endLine); err != nil {
		return &StreamError{Op: "write END card", Err: err}
	}
	n += len(endLine)

	return writePad(w, padBlock(n))
}
