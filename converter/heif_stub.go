//go:build !heif

package converter

const CanDecodeHEIF = false

func decodeHEIF(path string) (rawImage, error) {
	return rawImage{}, errHEIFUnavailable
}
