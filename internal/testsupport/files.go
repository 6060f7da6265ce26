package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"rowpool/internal/imagecodec"
	"rowpool/internal/pixbuf"
)

// GradientBuffer returns a padded RGB buffer whose bytes follow a repeating
// ramp, so every byte value 0..255 appears for large enough images.
func GradientBuffer(t testing.TB, width, height int) *pixbuf.Buffer {
	t.Helper()

	stride := (width*imagecodec.BytesPerPixel + 3) &^ 3
	buf, err := pixbuf.New(width, height, imagecodec.BytesPerPixel, stride)
	if err != nil {
		t.Fatalf("pixbuf.New: %v", err)
	}
	for y := 0; y < height; y++ {
		row, err := buf.Row(y)
		if err != nil {
			t.Fatalf("Row(%d): %v", y, err)
		}
		for x := range row {
			row[x] = byte(x*5 + y*11)
		}
	}
	return buf
}

// WriteBMP encodes a gradient image of the given size to path and returns
// the buffer that was written.
func WriteBMP(t testing.TB, path string, width, height int) *pixbuf.Buffer {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := GradientBuffer(t, width, height)
	if err := imagecodec.EncodeFile(path, buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return buf
}

// ReadImage decodes path or fails the test.
func ReadImage(t testing.TB, path string) *pixbuf.Buffer {
	t.Helper()

	buf, _, err := imagecodec.DecodeFile(path, imagecodec.Options{})
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return buf
}
