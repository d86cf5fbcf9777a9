//go:build heif

package converter

import (
	"fmt"
	"runtime"

	"github.com/strukturag/libheif/go/heif"

	"imgconv/contracts"
)

const CanDecodeHEIF = true

func decodeHEIF(path string) (rawImage, error) {
	ctx, err := heif.NewContext()
	if err != nil {
		return rawImage{}, fmt.Errorf("can't create HEIF context: %w", err)
	}
	if err := ctx.ReadFromFile(path); err != nil {
		return rawImage{}, fmt.Errorf("can't read HEIF file: %w", err)
	}

	handle, err := ctx.GetPrimaryImageHandle()
	if err != nil {
		return rawImage{}, fmt.Errorf("can't read primary image: %w", err)
	}

	mode, chroma := contracts.ModeRGB, heif.ChromaInterleavedRGB
	if handle.HasAlphaChannel() {
		mode, chroma = contracts.ModeRGBA, heif.ChromaInterleavedRGBA
	}

	img, err := handle.DecodeImage(heif.ColorspaceRGB, chroma, nil)
	if err != nil {
		return rawImage{}, fmt.Errorf("can't decode image: %w", err)
	}

	plane, err := img.GetPlane(heif.ChannelInterleaved)
	if err != nil {
		return rawImage{}, fmt.Errorf("can't get interleaved plane: %w", err)
	}

	// The plane lives in libheif memory owned by img.
	data := make([]byte, len(plane.Plane))
	copy(data, plane.Plane)
	runtime.KeepAlive(img)

	return rawImage{
		Mode:   mode,
		Width:  handle.GetWidth(),
		Height: handle.GetHeight(),
		Data:   data,
		Stride: plane.Stride,
	}, nil
}
