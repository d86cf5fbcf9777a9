package converter

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"imgconv/contracts"
	"imgconv/files_manager"
)

var errHEIFUnavailable = errors.New("HEIF support is not compiled in, rebuild with -tags heif (requires libheif)")

// LoadImage decodes the image at path. HEIF files go through libheif,
// everything else through imaging.
func LoadImage(path string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if files_manager.IsHEIF(path) {
		img, err = loadHEIF(path)
	} else {
		img, err = loadStandard(path)
	}
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	logger.Debug("loaded image", "path", path, "width", b.Dx(), "height", b.Dy(), "mode", ModeOf(img))
	return img, nil
}

func loadHEIF(path string) (image.Image, error) {
	if !CanDecodeHEIF {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, errHEIFUnavailable)
	}
	raw, err := decodeHEIF(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	img, err := fromRawImage(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

func loadStandard(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrDecode, path, err)
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// ModeOf reports the pixel mode of img.
func ModeOf(img image.Image) contracts.Mode {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return contracts.ModeL
	case *image.CMYK:
		return contracts.ModeCMYK
	case *image.Paletted:
		return contracts.ModeP
	case *image.YCbCr:
		return contracts.ModeRGB
	case interface{ Opaque() bool }:
		if m.Opaque() {
			return contracts.ModeRGB
		}
	}
	return contracts.ModeRGBA
}
