// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import "io"

// readOpaqueBody copies a Conform (or legacy IUEImage/A3DTable/Foreign/
// Dump, or compressed ZImage/ZTable) body as an undecoded byte blob of
// the size implied by the DataFormat, padded to a block boundary.
//
// New relative to the teacher: astrogo-fitsio's hduTypeFrom treats any
// XTENSION other than IMAGE/TABLE/BINTABLE as a hard decode error; this
// module instead recognizes them (§4.2) and leaves their body opaque,
// per §1's compression-codec non-goal and §9's Open Question.
func readOpaqueBody(r io.Reader, df DataFormat) (Body, error) {
	n := shapeProduct(df.Shape) * df.Type.Size()
	group := df.Group
	if group == 0 {
		group = 1
	}
	total := (df.Param + n) * group

	raw := make([]byte, total)
	if total > 0 {
		if _, err := io.ReadFull(r, raw); err != nil {
			return Body{}, &StreamError{Op: "read opaque body", Err: err}
		}
	}
	if err := skip(r, padBlock(total)); err != nil {
		return Body{}, &StreamError{Op: "skip opaque body pad", Err: err}
	}
	return Body{Kind: BodyOpaque, Raw: raw}, nil
}

// writeOpaqueBody writes body.Raw verbatim, padded to a block
// boundary.
func writeOpaqueBody(w io.Writer, body Body) error {
	if _, err := w.Write(body.Raw); err != nil {
		return &StreamError{Op: "write opaque body", Err: err}
	}
	return writePad(w, padBlock(len(body.Raw)))
}
