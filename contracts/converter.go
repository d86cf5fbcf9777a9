package contracts

import "image"

// Filter transforms the whole ordered list of pages. The returned list
// replaces the input list.
type Filter func(images []image.Image) ([]image.Image, error)

// EncoderOptions are forwarded to the encoder picked by the destination
// extension.
type EncoderOptions map[string]any

// Option names used internally to mean "first page" and "remaining pages".
// Callers may not supply them.
const (
	OptionSaveAll      = "save_all"
	OptionAppendImages = "append_images"
)

var ReservedOptions = []string{OptionSaveAll, OptionAppendImages}

type ConversionRequest struct {
	Sources     []string
	Destination string
	Filters     []Filter
	Options     EncoderOptions
}
