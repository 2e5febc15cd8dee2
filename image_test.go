package fits

import "testing"

func TestHDUImageFloat32(t *testing.T) {
	hdu, err := NewHDU([][]float32{{1, 2}, {3, 4}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	img, err := hdu.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds: %v", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a == 0 {
		t.Fatalf("expected a non-zero alpha channel")
	}
}

func TestHDUImageFloat64(t *testing.T) {
	hdu, err := NewHDU([][]float64{{1, 2, 3}, {4, 5, 6}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	img, err := hdu.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds: %v", b)
	}
}

func TestHDUImageWrongVariant(t *testing.T) {
	type row struct {
		Count int32 `fits:"COUNT"`
	}
	hdu, err := NewHDU([]row{{Count: 1}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if _, err := hdu.Image(); err == nil {
		t.Fatalf("expected an error for a Bintable HDU")
	}
}

func TestHDUImageNoDataLoaded(t *testing.T) {
	hdu := &HDU{Variant: Primary, Format: DataFormat{Type: TypeFloat32, Shape: []int{2, 2}}}
	if _, err := hdu.Image(); err == nil {
		t.Fatalf("expected an error when no data is loaded")
	}
}

func TestHDUImageNon2DShape(t *testing.T) {
	hdu, err := NewHDU([]float32{1, 2, 3, 4}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if _, err := hdu.Image(); err == nil {
		t.Fatalf("expected an error for a 1-D shape")
	}
}

func TestHDUImageUnsupportedPixelType(t *testing.T) {
	hdu, err := NewHDU([][]int32{{1, 2}, {3, 4}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	if _, err := hdu.Image(); err == nil {
		t.Fatalf("expected an error for an int32 pixel type")
	}
}
