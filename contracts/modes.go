package contracts

// Mode names the pixel layout of a decoded image.
type Mode string

const (
	ModeL    Mode = "L"
	ModeLA   Mode = "LA"
	ModeRGB  Mode = "RGB"
	ModeRGBA Mode = "RGBA"
	ModeCMYK Mode = "CMYK"
	ModeP    Mode = "P"
)
