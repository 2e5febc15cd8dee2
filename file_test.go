package fits

import (
	"bytes"
	"testing"

	"github.com/gofits/fits/drivers/mem"
)

func TestFileWriteFirstHDUMustBePrimary(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hdu := &HDU{
		Variant: Bintable,
		Cards:   NewCardList(Card{Key: "XTENSION", Value: "BINTABLE"}),
		Body:    Body{Kind: BodyColumns, Columns: map[string]interface{}{}},
	}
	if err := f.Write(hdu); err == nil {
		t.Fatalf("expected an error writing a non-Primary HDU first")
	}
}

func TestFileWritePrependsSimple(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hdu, err := NewHDU([]float64{1, 2, 3}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU: %v", err)
	}
	hdu.Cards.Pop("SIMPLE", nil)
	if hdu.Cards.Has("SIMPLE") {
		t.Fatalf("test setup: expected SIMPLE removed")
	}

	if err := f.Write(hdu); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !hdu.Cards.Has("SIMPLE") {
		t.Fatalf("expected Write to prepend SIMPLE")
	}
}

func TestFileWriteRejectsDuplicatePrimary(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hdu1, _ := NewHDU([]float64{1}, nil, DefaultOptions())
	if err := f.Write(hdu1); err != nil {
		t.Fatalf("Write first HDU: %v", err)
	}

	hdu2, _ := NewHDU([]float64{2}, nil, DefaultOptions())
	if err := f.Write(hdu2); err == nil {
		t.Fatalf("expected an error writing a second Primary HDU")
	}
}

func TestOpenDecodesEveryHDU(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	primary, _ := NewHDU([]float64{1, 2}, nil, DefaultOptions())
	if err := f.Write(primary); err != nil {
		t.Fatalf("Write primary: %v", err)
	}

	type row struct {
		Count int32 `fits:"COUNT"`
	}
	ext, err := NewHDU([]row{{Count: 1}, {Count: 2}}, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU ext: %v", err)
	}
	if err := f.Write(ext); err != nil {
		t.Fatalf("Write ext: %v", err)
	}

	r, err := Open(buf)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(r.HDUs()) != 2 {
		t.Fatalf("expected 2 HDUs, got %d", len(r.HDUs()))
	}
	if r.HDU(0).Variant != Primary {
		t.Fatalf("expected HDU 0 to be Primary, got %v", r.HDU(0).Variant)
	}
	if r.HDU(1).Variant != Bintable {
		t.Fatalf("expected HDU 1 to be Bintable, got %v", r.HDU(1).Variant)
	}
}

func TestFileGetHasByName(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	primary, _ := NewHDU([]float64{1}, nil, DefaultOptions())
	f.Write(primary)

	type row struct {
		Count int32 `fits:"COUNT"`
	}
	ext, err := NewHDU([]row{{Count: 1}}, NewCardList(Card{Key: "EXTNAME", Value: "SCI"}), DefaultOptions())
	if err != nil {
		t.Fatalf("NewHDU ext: %v", err)
	}
	if err := f.Write(ext); err != nil {
		t.Fatalf("Write ext: %v", err)
	}

	r, err := Open(buf)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !r.Has("SCI") {
		t.Fatalf("expected Has(\"SCI\") to be true")
	}
	if r.Get("SCI") == nil {
		t.Fatalf("expected Get(\"SCI\") to return an HDU")
	}
	if r.Has("NOPE") {
		t.Fatalf("expected Has(\"NOPE\") to be false")
	}
}

func TestOpenFileThroughMemDriver(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hdu, _ := NewHDU([]float32{1, 2, 3, 4}, nil, DefaultOptions())
	if err := f.Write(hdu); err != nil {
		t.Fatalf("Write: %v", err)
	}

	mem.Put("scratch.fits", buf.Bytes())

	r, err := OpenFile("mem", "scratch.fits", ReadOnly)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer r.Close()

	if len(r.HDUs()) != 1 {
		t.Fatalf("expected 1 HDU, got %d", len(r.HDUs()))
	}
	pix, ok := r.HDU(0).Body.Array.Elems.([]float32)
	if !ok || len(pix) != 4 {
		t.Fatalf("unexpected decoded body: %#v", r.HDU(0).Body.Array.Elems)
	}
}

func TestOpenFileUnknownDriver(t *testing.T) {
	if _, err := OpenFile("nonexistent", "x", ReadOnly); err == nil {
		t.Fatalf("expected an error for an unregistered driver")
	}
}

func TestFileCloseClearsState(t *testing.T) {
	buf := new(bytes.Buffer)
	f, err := Create(buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hdu, _ := NewHDU([]float64{1}, nil, DefaultOptions())
	f.Write(hdu)

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if f.HDUs() != nil {
		t.Fatalf("expected HDUs cleared after Close")
	}
}
