package converter

import (
	"fmt"
	"image"

	"imgconv/contracts"
)

// rawImage is a decoded pixel buffer as reported by a codec.
type rawImage struct {
	Mode   contracts.Mode
	Width  int
	Height int
	Data   []byte
	Stride int
}

func bytesPerPixel(mode contracts.Mode) int {
	switch mode {
	case contracts.ModeL:
		return 1
	case contracts.ModeLA:
		return 2
	case contracts.ModeRGB:
		return 3
	case contracts.ModeRGBA:
		return 4
	}
	return 0
}

// FromRaw wraps an interleaved 8-bit pixel buffer as an image. L and RGBA
// buffers are used in place; RGB and LA are expanded into NRGBA.
func FromRaw(mode contracts.Mode, width, height int, data []byte, stride int) (image.Image, error) {
	bpp := bytesPerPixel(mode)
	if bpp == 0 {
		return nil, fmt.Errorf("unsupported raw mode %q", mode)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raw size %dx%d", width, height)
	}
	rowBytes := width * bpp
	if stride < rowBytes {
		return nil, fmt.Errorf("stride %d is shorter than a %s row of %d bytes", stride, mode, rowBytes)
	}
	if need := stride*(height-1) + rowBytes; len(data) < need {
		return nil, fmt.Errorf("raw buffer has %d bytes, need %d", len(data), need)
	}

	rect := image.Rect(0, 0, width, height)
	switch mode {
	case contracts.ModeL:
		return &image.Gray{Pix: data, Stride: stride, Rect: rect}, nil
	case contracts.ModeRGBA:
		return &image.NRGBA{Pix: data, Stride: stride, Rect: rect}, nil
	}

	dst := image.NewNRGBA(rect)
	for y := 0; y < height; y++ {
		src := data[y*stride : y*stride+rowBytes]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
		for x := 0; x < width; x++ {
			s := src[x*bpp : x*bpp+bpp]
			d := out[x*4 : x*4+4]
			if mode == contracts.ModeRGB {
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
			} else {
				d[0], d[1], d[2], d[3] = s[0], s[0], s[0], s[1]
			}
		}
	}
	return dst, nil
}

func fromRawImage(raw rawImage) (image.Image, error) {
	return FromRaw(raw.Mode, raw.Width, raw.Height, raw.Data, raw.Stride)
}
