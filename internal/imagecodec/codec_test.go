package imagecodec_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"rowpool/internal/faults"
	"rowpool/internal/imagecodec"
	"rowpool/internal/pixbuf"
)

func sampleImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 30), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func TestFromImagePadsRows(t *testing.T) {
	buf, err := imagecodec.FromImage(sampleImage(5, 3))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if buf.BytesPerPixel != 3 || buf.RowBytes() != 15 || buf.Stride != 16 {
		t.Fatalf("unexpected geometry bpp=%d row=%d stride=%d", buf.BytesPerPixel, buf.RowBytes(), buf.Stride)
	}
	row, err := buf.Row(2)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row[3] != 20 || row[4] != 60 || row[5] != 3 {
		t.Fatalf("pixel (1,2) = %v", row[3:6])
	}
}

func TestToImageIsOpaque(t *testing.T) {
	buf, err := pixbuf.New(2, 2, 3, 0)
	if err != nil {
		t.Fatalf("pixbuf.New: %v", err)
	}
	copy(buf.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	img, err := imagecodec.ToImage(buf)
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	got := img.(*image.NRGBA).NRGBAAt(1, 1)
	if got != (color.NRGBA{R: 10, G: 11, B: 12, A: 0xff}) {
		t.Fatalf("pixel = %+v", got)
	}
}

func TestToImageRejectsUnsupportedDepth(t *testing.T) {
	buf, err := pixbuf.New(2, 2, 2, 0)
	if err != nil {
		t.Fatalf("pixbuf.New: %v", err)
	}
	if _, err := imagecodec.ToImage(buf); !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
}

func TestDecodeDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	buf, format, err := imagecodec.Decode(&encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != imagecodec.FormatPNG {
		t.Fatalf("format = %q", format)
	}
	if buf.Pix[0] != 200 || buf.Pix[1] != 100 || buf.Pix[2] != 50 {
		t.Fatalf("pixel = %v", buf.Pix[:3])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := imagecodec.Decode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	src, err := imagecodec.FromImage(sampleImage(7, 4))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	for _, ext := range []string{".bmp", ".png"} {
		for _, mmap := range []bool{false, true} {
			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := imagecodec.EncodeFile(path, src); err != nil {
				t.Fatalf("EncodeFile(%s): %v", ext, err)
			}
			got, format, err := imagecodec.DecodeFile(path, imagecodec.Options{Mmap: mmap})
			if err != nil {
				t.Fatalf("DecodeFile(%s, mmap=%v): %v", ext, mmap, err)
			}
			if string(format) != ext[1:] {
				t.Fatalf("format = %q for %s", format, ext)
			}
			if !got.Equal(src) {
				t.Fatalf("round trip through %s (mmap=%v) changed pixels", ext, mmap)
			}
			if _, err := os.Stat(imagecodec.LockPath(path)); !os.IsNotExist(err) {
				t.Fatalf("lock file left behind: %v", err)
			}
		}
	}
}

func TestDecodeFileMissing(t *testing.T) {
	for _, mmap := range []bool{false, true} {
		_, _, err := imagecodec.DecodeFile(filepath.Join(t.TempDir(), "missing.bmp"), imagecodec.Options{Mmap: mmap})
		if !errors.Is(err, faults.ErrResource) {
			t.Fatalf("mmap=%v: expected resource error, got %v", mmap, err)
		}
	}
}

func TestEncodeFileRejectsLockedOutput(t *testing.T) {
	buf, err := imagecodec.FromImage(sampleImage(2, 2))
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	path := filepath.Join(t.TempDir(), "busy.bmp")
	held := flock.New(imagecodec.LockPath(path))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	if err := imagecodec.EncodeFile(path, buf); !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("output should not exist: %v", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want imagecodec.Format
		ok   bool
	}{
		{"a.bmp", imagecodec.FormatBMP, true},
		{"A.BMP", imagecodec.FormatBMP, true},
		{"dir/b.png", imagecodec.FormatPNG, true},
		{"c.jpg", "", false},
		{"noext", "", false},
	}
	for _, tc := range tests {
		got, err := imagecodec.FormatForPath(tc.path)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("FormatForPath(%q) = %q, %v", tc.path, got, err)
		}
		if !tc.ok && !errors.Is(err, faults.ErrConfiguration) {
			t.Fatalf("FormatForPath(%q) expected configuration error, got %v", tc.path, err)
		}
	}
}
