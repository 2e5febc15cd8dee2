// Copyright 2026 The gofits Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fits

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gofits/fits/fltimg"
)

// Image returns an image.Image view over a Primary/Image/Random HDU's
// float32 or float64 body, suitable for display. Any other ElemType or
// HDUVariant is reported as an error.
//
// Grounded on image.go's Image()/ColorImage() methods, which the
// teacher hand-wrote once per width against its own f32Image/f64Image;
// this generalizes that to the shared fits/fltimg package.
func (h *HDU) Image() (image.Image, error) {
	switch h.Variant {
	case Primary, Image, Random:
	default:
		return nil, fmt.Errorf("fits: Image: HDU variant %s has no pixel data", h.Variant)
	}
	if h.Body.Array == nil {
		return nil, fmt.Errorf("fits: Image: HDU has no data loaded")
	}
	if len(h.Format.Shape) != 2 {
		return nil, fmt.Errorf("fits: Image: expected a 2-D image, got shape %v", h.Format.Shape)
	}

	w, hgt := h.Format.Shape[0], h.Format.Shape[1]
	rect := image.Rect(0, 0, w, hgt)

	switch h.Format.Type {
	case TypeFloat32:
		pix, ok := h.Body.Array.Elems.([]float32)
		if !ok {
			return nil, fmt.Errorf("fits: Image: body type mismatch: want []float32, got %T", h.Body.Array.Elems)
		}
		return fltimg.NewGray32(rect, float32sToBytes(pix)), nil

	case TypeFloat64:
		pix, ok := h.Body.Array.Elems.([]float64)
		if !ok {
			return nil, fmt.Errorf("fits: Image: body type mismatch: want []float64, got %T", h.Body.Array.Elems)
		}
		return fltimg.NewGray64(rect, float64sToBytes(pix)), nil

	default:
		return nil, fmt.Errorf("fits: Image: unsupported pixel type %s", h.Format.Type)
	}
}

func float32sToBytes(pix []float32) []byte {
	buf := make([]byte, 4*len(pix))
	for i, v := range pix {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func float64sToBytes(pix []float64) []byte {
	buf := make([]byte, 8*len(pix))
	for i, v := range pix {
		binary.BigEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}
