package imagecodec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"rowpool/internal/faults"
	"rowpool/internal/pixbuf"
)

// Format names an encoded image container.
type Format string

const (
	FormatBMP Format = "bmp"
	FormatPNG Format = "png"
)

// BytesPerPixel is the channel count of decoded buffers.
const BytesPerPixel = 3

// Options tune decoding.
type Options struct {
	// Mmap reads the input through a read-only memory map where supported.
	Mmap bool
}

// FormatForPath picks an output format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", faults.Wrap(faults.ErrConfiguration, "imagecodec", "format",
			fmt.Sprintf("unsupported extension %q (want .bmp or .png)", filepath.Ext(path)), nil)
	}
}

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string, opts Options) (*pixbuf.Buffer, Format, error) {
	var (
		buf    *pixbuf.Buffer
		format Format
	)
	read := readWhole
	if opts.Mmap {
		read = readMapped
	}
	err := read(path, func(data []byte) error {
		var decodeErr error
		buf, format, decodeErr = Decode(bytes.NewReader(data))
		return decodeErr
	})
	if err != nil {
		return nil, "", err
	}
	return buf, format, nil
}

// Decode decodes a BMP or PNG stream into a padded RGB buffer.
func Decode(r io.Reader) (*pixbuf.Buffer, Format, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", faults.Wrap(faults.ErrResource, "imagecodec", "decode", "", err)
	}
	buf, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, Format(name), nil
}

// FromImage unpacks img into a new buffer.
func FromImage(img image.Image) (*pixbuf.Buffer, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 1 || height < 1 {
		return nil, faults.Wrap(faults.ErrResource, "imagecodec", "decode",
			fmt.Sprintf("empty image %dx%d", width, height), nil)
	}
	buf, err := pixbuf.New(width, height, BytesPerPixel, paddedStride(width))
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		row := buf.Pix[y*buf.Stride : y*buf.Stride+buf.RowBytes()]
		switch src := img.(type) {
		case *image.RGBA:
			if src.Opaque() {
				copyRGB(row, src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):], width)
				continue
			}
		case *image.NRGBA:
			copyRGB(row, src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):], width)
			continue
		}
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x*3], row[x*3+1], row[x*3+2] = c.R, c.G, c.B
		}
	}
	return buf, nil
}

// ToImage packs buf into an opaque NRGBA image. One byte per pixel is read
// as gray, three as RGB and four as RGBA.
func ToImage(buf *pixbuf.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	switch buf.BytesPerPixel {
	case 1, 3, 4:
	default:
		return nil, faults.Wrap(faults.ErrResource, "imagecodec", "encode",
			fmt.Sprintf("cannot encode %d bytes per pixel", buf.BytesPerPixel), nil)
	}
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		src := buf.Pix[y*buf.Stride : y*buf.Stride+buf.RowBytes()]
		dst := img.Pix[y*img.Stride : y*img.Stride+buf.Width*4]
		for x := 0; x < buf.Width; x++ {
			d := dst[x*4 : x*4+4 : x*4+4]
			switch buf.BytesPerPixel {
			case 1:
				v := src[x]
				d[0], d[1], d[2], d[3] = v, v, v, 0xff
			case 3:
				d[0], d[1], d[2], d[3] = src[x*3], src[x*3+1], src[x*3+2], 0xff
			case 4:
				copy(d, src[x*4:x*4+4])
			}
		}
	}
	return img, nil
}

// Encode writes buf to w in the given format.
func Encode(w io.Writer, buf *pixbuf.Buffer, format Format) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	switch format {
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatPNG:
		err = png.Encode(w, img)
	default:
		return faults.Wrap(faults.ErrConfiguration, "imagecodec", "encode",
			fmt.Sprintf("unsupported format %q", format), nil)
	}
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "encode", string(format), err)
	}
	return nil
}

// EncodeFile writes buf to path, choosing the format from its extension.
func EncodeFile(path string, buf *pixbuf.Buffer) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	return writeLocked(path, func(w io.Writer) error {
		return Encode(w, buf, format)
	})
}

func paddedStride(width int) int {
	return (width*BytesPerPixel + 3) &^ 3
}

func copyRGB(dst, src []byte, width int) {
	for x := 0; x < width; x++ {
		dst[x*3], dst[x*3+1], dst[x*3+2] = src[x*4], src[x*4+1], src[x*4+2]
	}
}

func readWhole(path string, use func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return faults.Wrap(faults.ErrResource, "imagecodec", "read", path, err)
	}
	return use(data)
}
