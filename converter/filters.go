package converter

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"imgconv/contracts"
)

// DefaultResample is the resampling filter used when none is given.
var DefaultResample = imaging.Lanczos

// AdjustWidths scales every image to the narrowest width in images,
// keeping each aspect ratio. Luminance images stay luminance images.
func AdjustWidths(images []image.Image, resample imaging.ResampleFilter) ([]image.Image, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: cannot adjust the widths of an empty image list", ErrUsage)
	}

	minWidth := images[0].Bounds().Dx()
	for _, img := range images[1:] {
		minWidth = min(minWidth, img.Bounds().Dx())
	}

	adjusted := make([]image.Image, 0, len(images))
	for _, img := range images {
		b := img.Bounds()
		// half to even, so x.5 heights round the same way on every run
		newHeight := int(math.RoundToEven(float64(b.Dy()) * (float64(minWidth) / float64(b.Dx()))))
		newHeight = max(newHeight, 1)

		resized := imaging.Resize(img, minWidth, newHeight, resample)
		if ModeOf(img) == contracts.ModeL {
			adjusted = append(adjusted, grayFromNRGBA(resized))
		} else {
			adjusted = append(adjusted, resized)
		}
	}
	return adjusted, nil
}

// WidthAdjuster returns AdjustWidths as a filter using resample.
func WidthAdjuster(resample imaging.ResampleFilter) contracts.Filter {
	return func(images []image.Image) ([]image.Image, error) {
		return AdjustWidths(images, resample)
	}
}

// ToGrayscale converts every image to 8-bit luminance without alpha.
func ToGrayscale(images []image.Image) ([]image.Image, error) {
	gray := make([]image.Image, 0, len(images))
	for _, img := range images {
		gray = append(gray, grayFromNRGBA(imaging.Clone(img)))
	}
	return gray, nil
}

// grayFromNRGBA applies the ITU-R 601-2 luma transform to straight
// (non-premultiplied) colour, so alpha is dropped rather than composited.
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()]
		for x := range d {
			r, g, bl := uint32(s[x*4]), uint32(s[x*4+1]), uint32(s[x*4+2])
			d[x] = uint8((19595*r + 38470*g + 7471*bl + 1<<15) >> 16)
		}
	}
	return dst
}
