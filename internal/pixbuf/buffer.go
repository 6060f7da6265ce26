// Package pixbuf holds the row-major pixel buffer that the scheduler lends to
// its workers.
//
// A Buffer is a contiguous byte region of Stride*Height bytes. Each row is
// Width*BytesPerPixel bytes of pixel data followed by optional padding up to
// Stride. Rows are the unit of ownership transfer: Row hands out a slice that
// covers exactly one row's pixel bytes and cannot grow into its neighbour.
package pixbuf

import (
	"fmt"

	"rowpool/internal/faults"
)

// MaxBytesPerPixel bounds the channel count per pixel.
const MaxBytesPerPixel = 8

// Buffer is a mutable row-major pixel region.
type Buffer struct {
	Width         int
	Height        int
	Stride        int
	BytesPerPixel int
	Pix           []byte
}

// New allocates a zeroed buffer. A stride of 0 selects the tight stride
// Width*BytesPerPixel.
func New(width, height, bytesPerPixel, stride int) (*Buffer, error) {
	if stride == 0 {
		stride = width * bytesPerPixel
	}
	b := &Buffer{
		Width:         width,
		Height:        height,
		Stride:        stride,
		BytesPerPixel: bytesPerPixel,
	}
	if err := b.validateGeometry(); err != nil {
		return nil, err
	}
	b.Pix = make([]byte, stride*height)
	return b, nil
}

// Wrap adopts pix as the backing region without copying.
func Wrap(width, height, bytesPerPixel, stride int, pix []byte) (*Buffer, error) {
	b := &Buffer{
		Width:         width,
		Height:        height,
		Stride:        stride,
		BytesPerPixel: bytesPerPixel,
		Pix:           pix,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate reports whether the geometry and backing region agree.
func (b *Buffer) Validate() error {
	if b == nil {
		return faults.Wrap(faults.ErrResource, "pixbuf", "validate", "buffer is nil", nil)
	}
	if err := b.validateGeometry(); err != nil {
		return err
	}
	if want := b.Stride * b.Height; len(b.Pix) != want {
		return faults.Wrap(faults.ErrResource, "pixbuf", "validate",
			fmt.Sprintf("pixel region is %d bytes, geometry needs %d", len(b.Pix), want), nil)
	}
	return nil
}

func (b *Buffer) validateGeometry() error {
	switch {
	case b.Width < 1 || b.Height < 1:
		return faults.Wrap(faults.ErrResource, "pixbuf", "validate",
			fmt.Sprintf("dimensions %dx%d must be positive", b.Width, b.Height), nil)
	case b.BytesPerPixel < 1 || b.BytesPerPixel > MaxBytesPerPixel:
		return faults.Wrap(faults.ErrResource, "pixbuf", "validate",
			fmt.Sprintf("bytes per pixel %d outside 1..%d", b.BytesPerPixel, MaxBytesPerPixel), nil)
	case b.Stride < b.RowBytes():
		return faults.Wrap(faults.ErrResource, "pixbuf", "validate",
			fmt.Sprintf("stride %d shorter than row payload %d", b.Stride, b.RowBytes()), nil)
	}
	return nil
}

// RowBytes returns the pixel payload length of one row, excluding padding.
func (b *Buffer) RowBytes() int {
	return b.Width * b.BytesPerPixel
}

// Row returns the pixel bytes of row y. The slice capacity is clipped to the
// row so appends reallocate instead of spilling into the next row.
func (b *Buffer) Row(y int) ([]byte, error) {
	if y < 0 || y >= b.Height {
		return nil, faults.Wrap(faults.ErrInvariant, "pixbuf", "row",
			fmt.Sprintf("row %d outside 0..%d", y, b.Height-1), nil)
	}
	start := y * b.Stride
	end := start + b.RowBytes()
	if end > len(b.Pix) {
		return nil, faults.Wrap(faults.ErrInvariant, "pixbuf", "row",
			fmt.Sprintf("row %d ends at byte %d past region of %d", y, end, len(b.Pix)), nil)
	}
	return b.Pix[start:end:end], nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Pix = make([]byte, len(b.Pix))
	copy(cp.Pix, b.Pix)
	return &cp
}

// Equal reports whether both buffers share geometry and pixel payload.
// Padding bytes are ignored.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Width != other.Width || b.Height != other.Height || b.BytesPerPixel != other.BytesPerPixel {
		return false
	}
	for y := 0; y < b.Height; y++ {
		left, err := b.Row(y)
		if err != nil {
			return false
		}
		right, err := other.Row(y)
		if err != nil {
			return false
		}
		if string(left) != string(right) {
			return false
		}
	}
	return true
}
